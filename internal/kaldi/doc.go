// Package kaldi renders and reads the flat per-split tables of a Kaldi data
// directory: text, wav.scp, utt2spk and the language-model corpus.
//
// Renderers are pure functions over parsed manifests. text keeps manifest
// order and has no trailing newline; wav.scp and utt2spk are sorted by
// utterance ID (byte order, which equals code point order for UTF-8) and end
// with a newline, as Kaldi's validate_data_dir.sh expects.
package kaldi
