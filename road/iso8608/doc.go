// Package iso8608 synthesizes stochastic road profiles whose displacement PSD
// follows the ISO 8608 model Gd·(n/n0)^(−w), and validates generated profiles
// against that model with a Welch PSD estimate.
//
// Randomness always comes from an explicitly passed *rand.Rand; nothing in this
// package touches a process-wide generator.
package iso8608
