// Package noise implements the wide-band adaptive noise gate: despite
// its historical name of "spectral gate" in the system this engine
// descends from, it operates entirely sample-wise on magnitude, not on
// band energy. No frequency-domain analysis is involved.
package noise
