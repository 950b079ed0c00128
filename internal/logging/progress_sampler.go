package logging

// ProgressSampler suppresses repetitive progress logs while preserving signal
// when the progress fraction crosses bucket boundaries. The native backend
// samples its export session every 100ms; without bucketing a one-minute
// conversion would log six hundred nearly identical lines.
type ProgressSampler struct {
	bucketSize float64
	lastBucket int
}

// NewProgressSampler constructs a sampler over fractions in [0,1] that emits
// when progress crosses bucket boundaries (default 0.05).
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 0.05
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether a progress fraction should be logged. Negative
// fractions mean "unknown" and are never logged.
func (s *ProgressSampler) ShouldLog(fraction float64) bool {
	if s == nil {
		return true
	}
	if fraction < 0 {
		return false
	}
	bucket := int(fraction / s.bucketSize)
	if fraction >= 1 {
		bucket = int(1 / s.bucketSize)
	}
	if bucket > s.lastBucket {
		s.lastBucket = bucket
		return true
	}
	return false
}

// Reset clears the sampler state for a new session.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastBucket = -1
}
