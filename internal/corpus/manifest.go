package corpus

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"vivosprep/internal/textutil"
)

const maxManifestLine = 1024 * 1024

// ParseManifest reads a prompts manifest. Every line must be
// "SPEAKER_LOCAL token..."; blank lines count as malformed. The first
// malformed or duplicate line aborts parsing with a *RecordError.
func ParseManifest(split, path string, r io.Reader) (*Manifest, error) {
	manifest := &Manifest{Split: split, Path: path}
	seen := make(map[string]int)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxManifestLine)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		fields := strings.Fields(line)
		recordErr := func(reason string) error {
			return &RecordError{Split: split, Path: path, Line: lineNo, Text: line, Reason: reason}
		}
		if len(fields) == 0 {
			return nil, recordErr("empty line")
		}

		speaker, local, ok := SplitKey(fields[0])
		if !ok {
			return nil, recordErr(fmt.Sprintf("key %q is not SPEAKER%sLOCAL", fields[0], KeySeparator))
		}
		if len(fields) < 2 {
			return nil, recordErr("missing transcript after key")
		}
		utt := Utterance{
			Speaker:    speaker,
			LocalID:    local,
			Transcript: textutil.NormalizeTranscript(fields[1:]),
			Line:       lineNo,
		}
		if prev, dup := seen[utt.ID()]; dup {
			return nil, recordErr(fmt.Sprintf("duplicate utterance %s (first seen on line %d)", utt.ID(), prev))
		}
		seen[utt.ID()] = lineNo
		manifest.Utterances = append(manifest.Utterances, utt)
	}
	if err := scanner.Err(); err != nil {
		return nil, Wrap(ErrFilesystem, split, "read manifest", path, err)
	}
	return manifest, nil
}
