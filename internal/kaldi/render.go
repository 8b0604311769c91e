package kaldi

import (
	"bytes"

	"vivosprep/internal/corpus"
	"vivosprep/internal/layout"
)

// RenderText renders "<utt-id> <transcript>" lines in manifest order, joined
// by newlines without a trailing newline.
func RenderText(m *corpus.Manifest) []byte {
	lines := make([]string, 0, len(m.Utterances))
	for _, utt := range m.Utterances {
		lines = append(lines, utt.ID()+" "+utt.Transcript)
	}
	return joinLines(lines, false)
}

// RenderWavScp renders "<utt-id> ./audio/<split>/<speaker>/<local>.wav" lines
// sorted by utterance ID with a trailing newline.
func RenderWavScp(m *corpus.Manifest, processed layout.Processed) []byte {
	sorted := m.SortedByID()
	lines := make([]string, 0, len(sorted))
	for _, utt := range sorted {
		lines = append(lines, utt.ID()+" "+processed.WavScpPath(m.Split, utt.Speaker, utt.LocalID))
	}
	return joinLines(lines, true)
}

// RenderUtt2Spk renders "<utt-id> <speaker>" lines sorted by utterance ID
// with a trailing newline.
func RenderUtt2Spk(m *corpus.Manifest) []byte {
	sorted := m.SortedByID()
	lines := make([]string, 0, len(sorted))
	for _, utt := range sorted {
		lines = append(lines, utt.ID()+" "+utt.Speaker)
	}
	return joinLines(lines, true)
}

// RenderCorpus renders every transcript of the given manifests, one per line,
// in split then manifest order.
func RenderCorpus(manifests []*corpus.Manifest) []byte {
	var buf bytes.Buffer
	for _, m := range manifests {
		for _, utt := range m.Utterances {
			buf.WriteString(utt.Transcript)
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

func joinLines(lines []string, trailingNewline bool) []byte {
	var buf bytes.Buffer
	for i, line := range lines {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(line)
	}
	if trailingNewline {
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
