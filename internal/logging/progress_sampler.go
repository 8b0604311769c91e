package logging

// ProgressSampler thins out progress logging to one line per percentage
// bucket. It is not safe for concurrent use.
type ProgressSampler struct {
	bucketSize float64
	lastBucket int
}

// NewProgressSampler returns a sampler that fires each time progress enters a
// new bucket of bucketSize percent (default 10).
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 10
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether percent entered a bucket not seen before.
// Negative percentages never log. A nil sampler logs everything.
func (s *ProgressSampler) ShouldLog(percent float64) bool {
	if s == nil {
		return true
	}
	if percent < 0 {
		return false
	}
	if percent > 100 {
		percent = 100
	}
	bucket := int(percent / s.bucketSize)
	if bucket <= s.lastBucket {
		return false
	}
	s.lastBucket = bucket
	return true
}

// Reset forgets every bucket seen so far.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastBucket = -1
}
