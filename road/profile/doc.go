// Package profile reads and writes road profiles stored as CSV.
//
// Three layouts are understood and auto-detected:
//
//	time,z              single track, expanded to four wheels
//	time,LF,RF,LR,RR    one column per wheel (header names are case-insensitive)
//	LF,RF,LR,RR         headerless, uniformly sampled at the configured rate
//
// Detection tries the utf-8, cp1251 and latin1 encodings in that order and sniffs
// the delimiter among comma, semicolon and tab. Data problems that can be repaired
// (unparseable cells, non-finite samples, non-monotonic time, RFC 4180 anomalies)
// are logged as warnings and reported back to the caller; they never abort a load.
package profile
