package corpus

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingInput    = errors.New("missing input")
	ErrMalformedRecord = errors.New("malformed record")
	ErrFilesystem      = errors.New("filesystem error")
)

// RecordError describes a manifest line or audio file name that breaks the
// SPEAKER_LOCAL naming contract. It matches ErrMalformedRecord.
type RecordError struct {
	Split  string
	Path   string
	Line   int
	Text   string
	Reason string
}

func (e *RecordError) Error() string {
	var b strings.Builder
	b.WriteString(ErrMalformedRecord.Error())
	b.WriteString(": ")
	if e.Split != "" {
		b.WriteString("split ")
		b.WriteString(e.Split)
		b.WriteString(": ")
	}
	b.WriteString(e.Path)
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Text != "" {
		fmt.Fprintf(&b, " (%q)", e.Text)
	}
	return b.String()
}

func (e *RecordError) Unwrap() error { return ErrMalformedRecord }

// Wrap builds an error message that includes split and operation context while
// tagging it with the provided marker for later classification. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, split, operation, path string, err error) error {
	detail := buildDetail(split, operation, path)
	if marker == nil {
		marker = ErrFilesystem
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(split, operation, path string) string {
	parts := make([]string, 0, 3)
	if split = strings.TrimSpace(split); split != "" {
		parts = append(parts, "split "+split)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if path = strings.TrimSpace(path); path != "" {
		parts = append(parts, path)
	}
	if len(parts) == 0 {
		return "corpus failure"
	}
	return strings.Join(parts, ": ")
}
