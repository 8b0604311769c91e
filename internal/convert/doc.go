// Package convert turns a raw speech corpus into a Kaldi recipe tree.
//
// A run is split into four steps over one shared Plan:
//
//   - Plan parses every prompts manifest, reads every genders file, and maps
//     each raw audio file to its renamed destination. All missing-input and
//     malformed-record errors surface here, before anything is written.
//   - Scaffold creates audio/<split>, data/<split>, data/local and
//     data/local/dict under the processed root.
//   - Relocate copies audio into audio/<split>/<speaker>/<local><ext>.
//   - Emit writes text, wav.scp, utt2spk and spk2gender for every split (and
//     optionally data/local/corpus.txt), each as a single atomic write.
//
// Every step reaches the filesystem through the FS interface; OSFS is the
// real implementation.
package convert
