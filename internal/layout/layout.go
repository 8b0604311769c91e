// Package layout computes paths inside the raw corpus and the processed
// Kaldi recipe tree.
package layout

import (
	"path"
	"path/filepath"

	"vivosprep/internal/config"
)

// Processed tree names.
const (
	AudioDir   = "audio"
	DataDir    = "data"
	LocalDir   = "local"
	DictDir    = "dict"
	TextFile   = "text"
	WavScpFile = "wav.scp"
	Utt2Spk    = "utt2spk"
	Spk2Gender = "spk2gender"
	CorpusFile = "corpus.txt"
)

// Raw locates inputs inside a raw corpus root.
type Raw struct {
	Root        string
	AudioDir    string
	PromptsFile string
	GendersFile string
}

// NewRaw builds a Raw layout from config.
func NewRaw(cfg *config.Config) Raw {
	return Raw{
		Root:        cfg.Paths.RawDir,
		AudioDir:    cfg.Corpus.AudioDir,
		PromptsFile: cfg.Corpus.PromptsFile,
		GendersFile: cfg.Corpus.GendersFile,
	}
}

func (r Raw) SplitDir(split string) string { return filepath.Join(r.Root, split) }

func (r Raw) AudioRoot(split string) string { return filepath.Join(r.Root, split, r.AudioDir) }

func (r Raw) Prompts(split string) string { return filepath.Join(r.Root, split, r.PromptsFile) }

func (r Raw) Genders(split string) string { return filepath.Join(r.Root, split, r.GendersFile) }

// Processed locates outputs inside the processed root.
type Processed struct {
	Root         string
	WavExtension string
}

// NewProcessed builds a Processed layout from config.
func NewProcessed(cfg *config.Config) Processed {
	return Processed{Root: cfg.Paths.ProcessedDir, WavExtension: cfg.Corpus.WavExtension}
}

func (p Processed) AudioSplit(split string) string { return filepath.Join(p.Root, AudioDir, split) }

func (p Processed) SpeakerAudio(split, speaker string) string {
	return filepath.Join(p.Root, AudioDir, split, speaker)
}

func (p Processed) DataSplit(split string) string { return filepath.Join(p.Root, DataDir, split) }

func (p Processed) Local() string { return filepath.Join(p.Root, DataDir, LocalDir) }

func (p Processed) Dict() string { return filepath.Join(p.Root, DataDir, LocalDir, DictDir) }

func (p Processed) Text(split string) string { return filepath.Join(p.DataSplit(split), TextFile) }

func (p Processed) WavScp(split string) string { return filepath.Join(p.DataSplit(split), WavScpFile) }

func (p Processed) Utt2Spk(split string) string { return filepath.Join(p.DataSplit(split), Utt2Spk) }

func (p Processed) Spk2Gender(split string) string {
	return filepath.Join(p.DataSplit(split), Spk2Gender)
}

func (p Processed) CorpusText() string { return filepath.Join(p.Local(), CorpusFile) }

// Directories lists every directory the scaffold creates, parents first.
func (p Processed) Directories(splits []string) []string {
	dirs := []string{filepath.Join(p.Root, AudioDir)}
	for _, split := range splits {
		dirs = append(dirs, p.AudioSplit(split))
	}
	dirs = append(dirs, filepath.Join(p.Root, DataDir))
	for _, split := range splits {
		dirs = append(dirs, p.DataSplit(split))
	}
	return append(dirs, p.Local(), p.Dict())
}

// WavScpPath is the audio reference written to wav.scp, relative to the
// processed root: "./audio/<split>/<speaker>/<local><ext>". It always uses
// forward slashes.
func (p Processed) WavScpPath(split, speaker, local string) string {
	ext := p.WavExtension
	if ext == "" {
		ext = ".wav"
	}
	return "./" + path.Join(AudioDir, split, speaker, local+ext)
}

// Resolve turns a wav.scp reference back into a filesystem path.
func (p Processed) Resolve(ref string) string {
	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(p.Root, filepath.FromSlash(ref))
}
