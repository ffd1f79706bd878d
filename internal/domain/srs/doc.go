// Package srs implements the spaced repetition scheduling engine: given a
// card's current state and a review rating it computes the next review
// date, updates the memory-strength estimates, and classifies the card's
// lifecycle state. All scheduling functions are pure and deterministic;
// persistence is the caller's concern.
package srs
