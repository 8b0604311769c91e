package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Verify", statusError, "2 of 8 checks failed", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Verify:", "[FAIL] 2 of 8 checks failed")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Prepare", statusOK, "done", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestPrinterNeverColorsBuffers(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf)
	p.status("Prepare", statusOK, "done")
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("unexpected ANSI codes in %q", buf.String())
	}
}

func TestRenderTablePadsRowsAndFooter(t *testing.T) {
	out := renderTable(
		[]string{"Split", "Files"},
		[][]string{{"train", "3"}, {"test"}},
		[]string{"total", "3"},
		[]columnAlignment{alignLeft, alignRight},
	)
	for _, want := range []string{"Split", "train", "test", "TOTAL"} {
		if !strings.Contains(strings.ToUpper(out), strings.ToUpper(want)) {
			t.Fatalf("expected %q in table:\n%s", want, out)
		}
	}
	if renderTable(nil, nil, nil, nil) != "" {
		t.Fatal("expected empty output without headers")
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := formatBytes(1536); got != "1.5 KiB" {
		t.Fatalf("formatBytes = %q", got)
	}
	if got := formatCount(12345); got != "12,345" {
		t.Fatalf("formatCount = %q", got)
	}
	if got := formatDuration(0); got != "-" {
		t.Fatalf("formatDuration(0) = %q", got)
	}
	if got := formatDuration(1234 * time.Millisecond); got != "1.2s" {
		t.Fatalf("formatDuration = %q", got)
	}
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Fatalf("shortID = %q", got)
	}
}
