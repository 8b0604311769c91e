package kaldi

import (
	"bufio"
	"io"
	"strings"
)

// Entry is one "<key> <value>" line of a Kaldi table.
type Entry struct {
	Key   string
	Value string
	Line  int
}

// ReadTable parses a Kaldi table. The key ends at the first space; the rest of
// the line is the value, kept verbatim. Empty lines are skipped.
func ReadTable(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		key, value, _ := strings.Cut(line, " ")
		entries = append(entries, Entry{Key: key, Value: value, Line: lineNo})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Keys returns the entry keys in file order.
func Keys(entries []Entry) []string {
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

// FirstUnsorted returns the index of the first entry whose key sorts before
// the previous key, or -1 when the keys are in ascending order.
func FirstUnsorted(entries []Entry) int {
	for i := 1; i < len(entries); i++ {
		if entries[i].Key < entries[i-1].Key {
			return i
		}
	}
	return -1
}
