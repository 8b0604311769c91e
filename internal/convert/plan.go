package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"vivosprep/internal/corpus"
	"vivosprep/internal/logging"
)

// AudioJob copies one raw audio file to its renamed destination.
type AudioJob struct {
	Speaker string
	Source  string
	Dest    string
	Size    int64
}

// SplitPlan is everything needed to convert one split.
type SplitPlan struct {
	Split       string
	Manifest    *corpus.Manifest
	GendersPath string
	Genders     []byte
	// Speakers lists the speaker directories found under the raw audio root, sorted.
	Speakers []string
	// Dirs lists every destination directory of the audio mirror, including
	// empty speaker and nested directories.
	Dirs  []string
	Audio []AudioJob
}

// AudioBytes sums the size of every planned audio copy.
func (s SplitPlan) AudioBytes() int64 {
	var total int64
	for _, job := range s.Audio {
		total += job.Size
	}
	return total
}

// Plan is the parsed, validated view of the raw corpus.
type Plan struct {
	Splits []SplitPlan
}

// AudioFiles counts planned audio copies across splits.
func (p *Plan) AudioFiles() int {
	total := 0
	for _, s := range p.Splits {
		total += len(s.Audio)
	}
	return total
}

// AudioBytes sums planned audio bytes across splits.
func (p *Plan) AudioBytes() int64 {
	var total int64
	for _, s := range p.Splits {
		total += s.AudioBytes()
	}
	return total
}

// Manifests returns the manifests in split order.
func (p *Plan) Manifests() []*corpus.Manifest {
	out := make([]*corpus.Manifest, 0, len(p.Splits))
	for _, s := range p.Splits {
		out = append(out, s.Manifest)
	}
	return out
}

// Plan reads and validates every input without writing anything.
func (c *Converter) Plan(ctx context.Context) (*Plan, error) {
	if err := c.requireDir("", "raw corpus", c.opts.Raw.Root); err != nil {
		return nil, err
	}

	plan := &Plan{Splits: make([]SplitPlan, 0, len(c.opts.Splits))}
	for _, split := range c.opts.Splits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sp, err := c.planSplit(split)
		if err != nil {
			return nil, err
		}
		logging.WithContext(logging.WithSplit(ctx, split), c.logger).Info("split planned",
			logging.Int("utterances", len(sp.Manifest.Utterances)),
			logging.Int("speakers", len(sp.Speakers)),
			logging.Int("audio_files", len(sp.Audio)),
		)
		plan.Splits = append(plan.Splits, sp)
	}
	return plan, nil
}

func (c *Converter) planSplit(split string) (SplitPlan, error) {
	raw := c.opts.Raw
	sp := SplitPlan{Split: split, GendersPath: raw.Genders(split)}

	if err := c.requireDir(split, "audio directory", raw.AudioRoot(split)); err != nil {
		return sp, err
	}
	promptsPath := raw.Prompts(split)
	prompts, err := c.readInput(split, "prompts manifest", promptsPath)
	if err != nil {
		return sp, err
	}
	if sp.Genders, err = c.readInput(split, "genders manifest", sp.GendersPath); err != nil {
		return sp, err
	}
	if sp.Manifest, err = corpus.ParseManifest(split, promptsPath, bytes.NewReader(prompts)); err != nil {
		return sp, err
	}
	if sp.Speakers, sp.Dirs, sp.Audio, err = c.planAudio(split); err != nil {
		return sp, err
	}
	return sp, nil
}

func (c *Converter) planAudio(split string) ([]string, []string, []AudioJob, error) {
	root := c.opts.Raw.AudioRoot(split)
	entries, err := c.fs.ReadDir(root)
	if err != nil {
		return nil, nil, nil, corpus.Wrap(corpus.ErrFilesystem, split, "list audio", root, err)
	}

	var speakers, dirs []string
	var jobs []AudioJob
	for _, entry := range entries {
		name := entry.Name()
		if isHidden(name) || !entry.IsDir() {
			continue
		}
		speakers = append(speakers, name)
		dest := c.opts.Processed.SpeakerAudio(split, name)
		claimed := make(map[string]string)
		speakerDirs, speakerJobs, err := c.planSpeakerDir(split, name, filepath.Join(root, name), dest, claimed)
		if err != nil {
			return nil, nil, nil, err
		}
		dirs = append(dirs, speakerDirs...)
		jobs = append(jobs, speakerJobs...)
	}
	sort.Strings(speakers)
	return speakers, dirs, jobs, nil
}

// planSpeakerDir maps srcDir onto destDir recursively. It returns destDir and
// every nested destination directory, then the copy jobs.
func (c *Converter) planSpeakerDir(split, speaker, srcDir, destDir string, claimed map[string]string) ([]string, []AudioJob, error) {
	entries, err := c.fs.ReadDir(srcDir)
	if err != nil {
		return nil, nil, corpus.Wrap(corpus.ErrFilesystem, split, "list speaker audio", srcDir, err)
	}

	dirs := []string{destDir}
	var jobs []AudioJob
	for _, entry := range entries {
		name := entry.Name()
		src := filepath.Join(srcDir, name)
		if isHidden(name) {
			c.logger.Debug("skipping hidden entry", logging.String(logging.FieldSplit, split), logging.String(logging.FieldPath, src))
			continue
		}
		if entry.IsDir() {
			nestedDirs, nested, err := c.planSpeakerDir(split, speaker, src, filepath.Join(destDir, name), claimed)
			if err != nil {
				return nil, nil, err
			}
			dirs = append(dirs, nestedDirs...)
			jobs = append(jobs, nested...)
			continue
		}

		local, ext, ok := corpus.ParseAudioName(name)
		if !ok {
			return nil, nil, &corpus.RecordError{
				Split:  split,
				Path:   src,
				Reason: fmt.Sprintf("audio file name %q is not SPEAKER%sLOCAL.ext", name, corpus.KeySeparator),
			}
		}
		dest := filepath.Join(destDir, local+ext)
		if prev, dup := claimed[dest]; dup {
			return nil, nil, &corpus.RecordError{
				Split:  split,
				Path:   src,
				Reason: fmt.Sprintf("renamed file %s collides with %s", dest, prev),
			}
		}
		claimed[dest] = src

		var size int64
		if info, err := entry.Info(); err == nil {
			size = info.Size()
		}
		jobs = append(jobs, AudioJob{Speaker: speaker, Source: src, Dest: dest, Size: size})
	}
	return dirs, jobs, nil
}

func (c *Converter) requireDir(split, what, path string) error {
	info, err := c.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return corpus.Wrap(corpus.ErrMissingInput, split, what+" not found", path, nil)
		}
		return corpus.Wrap(corpus.ErrFilesystem, split, "stat "+what, path, err)
	}
	if !info.IsDir() {
		return corpus.Wrap(corpus.ErrMissingInput, split, what+" is not a directory", path, nil)
	}
	return nil
}

func (c *Converter) readInput(split, what, path string) ([]byte, error) {
	data, err := c.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, corpus.Wrap(corpus.ErrMissingInput, split, what+" not found", path, nil)
		}
		return nil, corpus.Wrap(corpus.ErrFilesystem, split, "read "+what, path, err)
	}
	return data, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
