// Package fileutil holds small filesystem helpers: streaming copies (with
// optional SHA-256 verification) and atomic whole-file writes.
package fileutil
