// Package corpus models a raw speech corpus: splits, speakers and
// utterances, and parses the per-split prompts manifest.
//
// A raw manifest line looks like "SPEAKER_LOCAL token token ...". The key
// before the first whitespace joins the speaker ID and the local utterance
// ID with exactly one underscore; the external utterance ID joins them with
// a hyphen instead. Audio files follow the same "SPEAKER_LOCAL.ext" naming.
//
// Errors are tagged with the sentinel markers in errors.go so callers can
// classify failures with errors.Is.
package corpus
