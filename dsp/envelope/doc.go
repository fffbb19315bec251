// Package envelope implements a domain-agnostic attack/release one-pole
// tracker over a scalar input. Callers decide whether they feed it
// linear magnitude or dB magnitude; the follower enforces no domain.
package envelope
