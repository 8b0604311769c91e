// Package preflight checks the environment before a prepare run writes
// anything: the state and log directories must be usable, the processed
// root must be creatable, and its filesystem must have room for the audio
// about to be copied.
//
// Missing corpus inputs are not checked here; the converter's Plan step
// reports those with the offending split and path.
package preflight
