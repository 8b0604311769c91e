// Package textutil normalizes transcript text.
//
// Transcripts are split on Unicode whitespace, rejoined with single spaces,
// and lower-cased with language-neutral case mapping so non-ASCII corpora
// (Vietnamese tone marks, for example) fold the same way as ASCII.
package textutil
