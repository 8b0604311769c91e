// Package verify checks an existing processed tree against the raw corpus it
// was built from.
package verify

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"vivosprep/internal/config"
	"vivosprep/internal/corpus"
	"vivosprep/internal/kaldi"
	"vivosprep/internal/layout"
	"vivosprep/internal/textutil"
)

// Check names.
const (
	CheckWavScpSorted   = "wav.scp sorted"
	CheckUtt2SpkSorted  = "utt2spk sorted"
	CheckIDsConsistent  = "ids consistent"
	CheckSpeakerPrefix  = "utt2spk speaker prefix"
	CheckAudioExists    = "wav.scp targets exist"
	CheckTextNormalized = "text normalized"
	CheckTextMatches    = "text matches prompts"
	CheckGendersCopied  = "spk2gender verbatim"
)

// maxListed caps how many offending ids a detail line names.
const maxListed = 3

// Result is the outcome of one check on one split.
type Result struct {
	Split  string
	Name   string
	Passed bool
	Detail string
}

// Options selects the trees to compare.
type Options struct {
	Splits    []string
	Raw       layout.Raw
	Processed layout.Processed
}

// OptionsFromConfig builds Options from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Splits:    append([]string(nil), cfg.Corpus.Splits...),
		Raw:       layout.NewRaw(cfg),
		Processed: layout.NewProcessed(cfg),
	}
}

// Run executes every check for every split. Unreadable artifacts turn into
// failed results; Run itself does not fail.
func Run(opts Options) []Result {
	var results []Result
	for _, split := range opts.Splits {
		results = append(results, checkSplit(opts, split)...)
	}
	return results
}

// Failures counts failed results.
func Failures(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed {
			n++
		}
	}
	return n
}

type splitTables struct {
	text    []kaldi.Entry
	wavScp  []kaldi.Entry
	utt2spk []kaldi.Entry
}

func checkSplit(opts Options, split string) []Result {
	p := opts.Processed
	var tables splitTables
	var results []Result
	missing := false
	for _, item := range []struct {
		path string
		dst  *[]kaldi.Entry
	}{
		{p.Text(split), &tables.text},
		{p.WavScp(split), &tables.wavScp},
		{p.Utt2Spk(split), &tables.utt2spk},
	} {
		entries, err := readTable(item.path)
		if err != nil {
			results = append(results, fail(split, "read tables", err.Error()))
			missing = true
			continue
		}
		*item.dst = entries
	}
	if missing {
		return append(results, checkGenders(opts, split))
	}

	results = append(results,
		checkSorted(split, CheckWavScpSorted, tables.wavScp),
		checkSorted(split, CheckUtt2SpkSorted, tables.utt2spk),
		checkIDs(split, tables),
		checkSpeakerPrefix(split, tables.utt2spk),
		checkAudio(split, p, tables.wavScp),
		checkNormalized(split, tables.text),
		checkTextMatches(opts, split),
		checkGenders(opts, split),
	)
	return results
}

func readTable(path string) ([]kaldi.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	entries, err := kaldi.ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return entries, nil
}

func pass(split, name, detail string) Result {
	return Result{Split: split, Name: name, Passed: true, Detail: detail}
}

func fail(split, name, detail string) Result {
	return Result{Split: split, Name: name, Detail: detail}
}

func checkSorted(split, name string, entries []kaldi.Entry) Result {
	if i := kaldi.FirstUnsorted(entries); i >= 0 {
		return fail(split, name, fmt.Sprintf("line %d: %s sorts before %s", entries[i].Line, entries[i].Key, entries[i-1].Key))
	}
	return pass(split, name, fmt.Sprintf("%d entries", len(entries)))
}

func checkIDs(split string, t splitTables) Result {
	text := keySet(t.text)
	wav := keySet(t.wavScp)
	utt := keySet(t.utt2spk)

	var problems []string
	if d := difference(text, wav); len(d) > 0 {
		problems = append(problems, "missing from wav.scp: "+listIDs(d))
	}
	if d := difference(wav, text); len(d) > 0 {
		problems = append(problems, "missing from text: "+listIDs(d))
	}
	if d := difference(text, utt); len(d) > 0 {
		problems = append(problems, "missing from utt2spk: "+listIDs(d))
	}
	if d := difference(utt, text); len(d) > 0 {
		problems = append(problems, "utt2spk ids not in text: "+listIDs(d))
	}
	if len(problems) > 0 {
		return fail(split, CheckIDsConsistent, strings.Join(problems, "; "))
	}
	return pass(split, CheckIDsConsistent, fmt.Sprintf("%d utterances", len(text)))
}

func checkSpeakerPrefix(split string, entries []kaldi.Entry) Result {
	var bad []string
	for _, e := range entries {
		if e.Value == "" || !strings.HasPrefix(e.Key, e.Value+corpus.IDSeparator) {
			bad = append(bad, e.Key)
		}
	}
	if len(bad) > 0 {
		return fail(split, CheckSpeakerPrefix, "speaker differs from id prefix: "+listIDs(bad))
	}
	return pass(split, CheckSpeakerPrefix, "")
}

func checkAudio(split string, p layout.Processed, entries []kaldi.Entry) Result {
	var bad []string
	for _, e := range entries {
		info, err := os.Stat(p.Resolve(e.Value))
		if err != nil || !info.Mode().IsRegular() {
			bad = append(bad, e.Key)
		}
	}
	if len(bad) > 0 {
		return fail(split, CheckAudioExists, "missing audio for "+listIDs(bad))
	}
	return pass(split, CheckAudioExists, fmt.Sprintf("%d files", len(entries)))
}

func checkNormalized(split string, entries []kaldi.Entry) Result {
	var bad []string
	for _, e := range entries {
		if e.Value == "" || !textutil.IsNormalizedTranscript(e.Value) {
			bad = append(bad, e.Key)
		}
	}
	if len(bad) > 0 {
		return fail(split, CheckTextNormalized, "not lower-case single-spaced: "+listIDs(bad))
	}
	return pass(split, CheckTextNormalized, "")
}

func checkTextMatches(opts Options, split string) Result {
	promptsPath := opts.Raw.Prompts(split)
	prompts, err := os.ReadFile(promptsPath)
	if err != nil {
		return fail(split, CheckTextMatches, err.Error())
	}
	manifest, err := corpus.ParseManifest(split, promptsPath, bytes.NewReader(prompts))
	if err != nil {
		return fail(split, CheckTextMatches, err.Error())
	}
	got, err := os.ReadFile(opts.Processed.Text(split))
	if err != nil {
		return fail(split, CheckTextMatches, err.Error())
	}
	if !bytes.Equal(got, kaldi.RenderText(manifest)) {
		return fail(split, CheckTextMatches, "text differs from "+promptsPath)
	}
	return pass(split, CheckTextMatches, "")
}

func checkGenders(opts Options, split string) Result {
	want, err := os.ReadFile(opts.Raw.Genders(split))
	if err != nil {
		return fail(split, CheckGendersCopied, err.Error())
	}
	got, err := os.ReadFile(opts.Processed.Spk2Gender(split))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fail(split, CheckGendersCopied, "spk2gender not found")
		}
		return fail(split, CheckGendersCopied, err.Error())
	}
	if !bytes.Equal(got, want) {
		return fail(split, CheckGendersCopied, fmt.Sprintf("spk2gender (%d bytes) differs from genders file (%d bytes)", len(got), len(want)))
	}
	return pass(split, CheckGendersCopied, fmt.Sprintf("%d bytes", len(got)))
}

func keySet(entries []kaldi.Entry) map[string]struct{} {
	set := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		set[e.Key] = struct{}{}
	}
	return set
}

func difference(a, b map[string]struct{}) []string {
	var out []string
	for k := range a {
		if _, ok := b[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func listIDs(ids []string) string {
	if len(ids) <= maxListed {
		return strings.Join(ids, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(ids[:maxListed], ", "), len(ids)-maxListed)
}
