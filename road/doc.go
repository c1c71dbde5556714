// Package road holds the data model of the road-excitation engine.
//
// # Reading Guide
//
// Start with these files:
//   - config.go: RoadConfig and the preset → override → passthrough layering
//   - source.go: the Source tagged union consumed by the generators and the engine
//   - correlation.go: left/right track correlation and the seeded random handle
//
// # Architecture
//
// The road package defines value types only; behaviour lives in sub-packages:
//   - road/waveform/: deterministic analytic generators (sine, sweep, step, pothole, speed bump)
//   - road/iso8608/: stochastic ISO 8608 spectral synthesis and PSD validation
//   - road/profile/: CSV detection, loading, repair, resampling and saving
//   - road/scenario/: built-in preset catalogue and preset files
//   - road/engine/: RoadInput, the per-wheel excitation query engine
package road
