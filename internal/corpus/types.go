package corpus

import "sort"

// Utterance is one parsed manifest line.
type Utterance struct {
	Speaker    string
	LocalID    string
	Transcript string
	// Line is the 1-based manifest line number.
	Line int
}

// ID returns the external utterance identifier "SPEAKER-LOCAL".
func (u Utterance) ID() string {
	return UtteranceID(u.Speaker, u.LocalID)
}

// Manifest holds the utterances of one split in manifest order.
type Manifest struct {
	Split      string
	Path       string
	Utterances []Utterance
}

// Speakers returns the distinct speaker IDs referenced by the manifest, sorted.
func (m *Manifest) Speakers() []string {
	if m == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(m.Utterances))
	speakers := make([]string, 0)
	for _, utt := range m.Utterances {
		if _, ok := seen[utt.Speaker]; ok {
			continue
		}
		seen[utt.Speaker] = struct{}{}
		speakers = append(speakers, utt.Speaker)
	}
	sort.Strings(speakers)
	return speakers
}

// SortedByID returns a copy of the utterances ordered by external ID.
func (m *Manifest) SortedByID() []Utterance {
	if m == nil {
		return nil
	}
	out := make([]Utterance, len(m.Utterances))
	copy(out, m.Utterances)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ID() < out[j].ID()
	})
	return out
}
