// Package loudness implements a K-weighted integrated loudness estimator
// that drives a smoothed broadband gain toward a target LUFS level. It
// measures and corrects in one pass; it does not offer a standalone
// meter API separate from the gain it applies.
package loudness
