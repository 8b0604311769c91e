package corpus

import "strings"

const (
	// KeySeparator joins speaker and local IDs in raw keys and file names.
	KeySeparator = "_"
	// IDSeparator joins speaker and local IDs in external utterance IDs.
	IDSeparator = "-"
)

// SplitKey splits a raw key "SPEAKER_LOCAL" into its two parts. The key must
// contain exactly one underscore with non-empty text on both sides.
func SplitKey(key string) (speaker, local string, ok bool) {
	if strings.Count(key, KeySeparator) != 1 {
		return "", "", false
	}
	speaker, local, _ = strings.Cut(key, KeySeparator)
	if speaker == "" || local == "" {
		return "", "", false
	}
	return speaker, local, true
}

// UtteranceID renders the external utterance identifier.
func UtteranceID(speaker, local string) string {
	return speaker + IDSeparator + local
}


// ParseAudioName splits "SPEAKER_LOCAL.ext" into the local ID and the
// extension. The stem ends at the first dot, so "A_1.wav.bak" yields
// extension ".wav.bak".
func ParseAudioName(name string) (local, ext string, ok bool) {
	stem := name
	if idx := strings.IndexByte(name, '.'); idx >= 0 {
		stem, ext = name[:idx], name[idx:]
	}
	_, local, ok = SplitKey(stem)
	if !ok {
		return "", "", false
	}
	return local, ext, true
}
