package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ReadFile returns the content of path or fails the test.
func ReadFile(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// Split describes one split of a synthetic raw corpus.
type Split struct {
	Name string
	// Prompts are raw manifest lines, written newline-terminated.
	Prompts []string
	Genders string
	// Audio maps a path relative to the waves directory to file content,
	// e.g. "VIVOSSPK01/VIVOSSPK01_001.wav".
	Audio map[string]string
}

// WriteRawCorpus lays out a raw corpus under root using the default
// waves/prompts.txt/genders.txt names.
func WriteRawCorpus(t testing.TB, root string, splits ...Split) {
	t.Helper()

	for _, split := range splits {
		splitDir := filepath.Join(root, split.Name)
		if err := os.MkdirAll(filepath.Join(splitDir, "waves"), 0o755); err != nil {
			t.Fatalf("mkdir waves for %s: %v", split.Name, err)
		}
		prompts := ""
		if len(split.Prompts) > 0 {
			prompts = strings.Join(split.Prompts, "\n") + "\n"
		}
		WriteFile(t, filepath.Join(splitDir, "prompts.txt"), prompts)
		WriteFile(t, filepath.Join(splitDir, "genders.txt"), split.Genders)
		for rel, content := range split.Audio {
			WriteFile(t, filepath.Join(splitDir, "waves", filepath.FromSlash(rel)), content)
		}
	}
}

// SampleSplit returns a small split with two speakers.
func SampleSplit(name string) Split {
	return Split{
		Name: name,
		Prompts: []string{
			"VIVOSSPK02_R002 ĐÂY LÀ   câu thứ hai",
			"VIVOSSPK01_001 Xin chào",
			"VIVOSSPK01_002 Tạm biệt",
		},
		Genders: "VIVOSSPK01 m\nVIVOSSPK02 f\n",
		Audio: map[string]string{
			"VIVOSSPK01/VIVOSSPK01_001.wav":  "RIFF-001",
			"VIVOSSPK01/VIVOSSPK01_002.wav":  "RIFF-002",
			"VIVOSSPK02/VIVOSSPK02_R002.wav": "RIFF-R002",
		},
	}
}
