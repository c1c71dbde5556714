// Package waveform generates deterministic road profiles.
//
// Every generator samples a uniform grid t = Linspace(0, duration, int(duration·hz))
// and returns freshly allocated (t, y) slices. Generators are pure: the same inputs
// always produce the same output and inputs are never modified.
package waveform
