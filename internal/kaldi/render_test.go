package kaldi

import (
	"strings"
	"testing"

	"vivosprep/internal/corpus"
	"vivosprep/internal/layout"
)

func mustManifest(t *testing.T, split, input string) *corpus.Manifest {
	t.Helper()
	m, err := corpus.ParseManifest(split, "prompts.txt", strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	return m
}

func TestRenderSingleUtterance(t *testing.T) {
	m := mustManifest(t, "train", "VIVOSSPK01_001 Xin chào\n")
	processed := layout.Processed{Root: "/out", WavExtension: ".wav"}

	if got := string(RenderText(m)); got != "VIVOSSPK01-001 xin chào" {
		t.Fatalf("text = %q", got)
	}
	if got := string(RenderWavScp(m, processed)); got != "VIVOSSPK01-001 ./audio/train/VIVOSSPK01/001.wav\n" {
		t.Fatalf("wav.scp = %q", got)
	}
	if got := string(RenderUtt2Spk(m)); got != "VIVOSSPK01-001 VIVOSSPK01\n" {
		t.Fatalf("utt2spk = %q", got)
	}
}

func TestRenderSortsKeyedTablesOnly(t *testing.T) {
	m := mustManifest(t, "test", "B_002 second LINE\nA_001 first line\n")
	processed := layout.Processed{Root: "/out", WavExtension: ".wav"}

	if got := string(RenderText(m)); got != "B-002 second line\nA-001 first line" {
		t.Fatalf("text must keep manifest order, got %q", got)
	}
	wantScp := "A-001 ./audio/test/A/001.wav\nB-002 ./audio/test/B/002.wav\n"
	if got := string(RenderWavScp(m, processed)); got != wantScp {
		t.Fatalf("wav.scp = %q, want %q", got, wantScp)
	}
	if got := string(RenderUtt2Spk(m)); got != "A-001 A\nB-002 B\n" {
		t.Fatalf("utt2spk = %q", got)
	}
}

func TestRenderSortIsByteOrder(t *testing.T) {
	// "S-10" < "S-9" bytewise; uppercase sorts before lowercase.
	m := mustManifest(t, "train", "S_9 a\nS_10 b\ns_1 c\nÁ_1 d\n")
	got := string(RenderUtt2Spk(m))
	want := "S-10 S\nS-9 S\ns-1 s\nÁ-1 Á\n"
	if got != want {
		t.Fatalf("utt2spk = %q, want %q", got, want)
	}
}

func TestRenderEmptyManifest(t *testing.T) {
	m := mustManifest(t, "test", "")
	if got := RenderText(m); len(got) != 0 {
		t.Fatalf("text = %q, want empty", got)
	}
	if got := string(RenderUtt2Spk(m)); got != "\n" {
		t.Fatalf("utt2spk = %q, want single newline", got)
	}
}

func TestRenderCorpus(t *testing.T) {
	train := mustManifest(t, "train", "B_1 Hai\nA_1 Một\n")
	test := mustManifest(t, "test", "C_1 Ba\n")
	got := string(RenderCorpus([]*corpus.Manifest{train, test}))
	if got != "hai\nmột\nba\n" {
		t.Fatalf("corpus = %q", got)
	}
}

func TestReadTableRoundTrip(t *testing.T) {
	m := mustManifest(t, "test", "B_002 x\nA_001 y\n")
	entries, err := ReadTable(strings.NewReader(string(RenderWavScp(m, layout.Processed{WavExtension: ".wav"}))))
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if strings.Join(Keys(entries), ",") != "A-001,B-002" {
		t.Fatalf("unexpected keys %v", Keys(entries))
	}
	if entries[1].Value != "./audio/test/B/002.wav" || entries[1].Line != 2 {
		t.Fatalf("unexpected entry %+v", entries[1])
	}
	if FirstUnsorted(entries) != -1 {
		t.Fatal("expected sorted entries")
	}
	unsorted, _ := ReadTable(strings.NewReader("b 1\na 2\n"))
	if FirstUnsorted(unsorted) != 1 {
		t.Fatalf("expected first unsorted index 1")
	}
}
