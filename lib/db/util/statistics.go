package util

import (
	"math"
	"sort"
)

// ----------------------------------------------------------------------------
// Collection statistics
// ----------------------------------------------------------------------------

// CollectionStats summarizes the number of documents per collection
type CollectionStats struct {
	Collections int     `json:"collections"`
	Smallest    float64 `json:"smallest"`
	Largest     float64 `json:"largest"`
	Mean        float64 `json:"mean"`
	StdDev      float64 `json:"std_deviation"`

	// Balance is 1 if all collections hold the same number of documents and
	// approaches 0 the more a few collections dominate
	Balance float64 `json:"balance"`
}

// NewCollectionStats computes the statistics for the given document counts
func NewCollectionStats(counts []float64) CollectionStats {
	stats := CollectionStats{Collections: len(counts)}
	if len(counts) == 0 {
		return stats
	}

	stats.Smallest, stats.Largest = counts[0], counts[0]
	var sum float64
	for _, c := range counts {
		sum += c
		stats.Smallest = math.Min(stats.Smallest, c)
		stats.Largest = math.Max(stats.Largest, c)
	}
	stats.Mean = sum / float64(len(counts))

	var squares float64
	for _, c := range counts {
		squares += (c - stats.Mean) * (c - stats.Mean)
	}
	stats.StdDev = math.Sqrt(squares / float64(len(counts)))

	// half coefficient of variation, half smallest/largest ratio
	spread := 1.0
	ratio := 1.0
	if stats.Mean > 0 {
		spread = 1 - math.Min(1, stats.StdDev/stats.Mean)
	}
	if stats.Largest > 0 {
		ratio = stats.Smallest / stats.Largest
	}
	stats.Balance = spread*0.5 + ratio*0.5
	return stats
}

// ----------------------------------------------------------------------------
// Document size histogram
// ----------------------------------------------------------------------------

const (
	firstBoundary = 16 // upper bound of the smallest bucket in bytes
	boundaryCount = 15 // 16B * 4^14 = 4GiB
)

// sizeBoundaries are the inclusive upper bounds of the histogram buckets,
// growing by a factor of 4. Sizes above the last bound land in an extra bucket.
var sizeBoundaries = func() []int {
	bounds := make([]int, boundaryCount)
	for i, b := 0, firstBoundary; i < boundaryCount; i, b = i+1, b*4 {
		bounds[i] = b
	}
	return bounds
}()

// SizeHistogram estimates the distribution of encoded document sizes from a
// sample without keeping the samples themselves.
//
// A SizeHistogram is not safe for concurrent use, GetInfo builds one per call.
type SizeHistogram struct {
	buckets [boundaryCount + 1]int64
	count   int64
	sum     int64
}

// NewSizeHistogram creates an empty histogram
func NewSizeHistogram() *SizeHistogram {
	return &SizeHistogram{}
}

// AddSample records the size of one document
func (h *SizeHistogram) AddSample(size int) {
	h.buckets[sort.SearchInts(sizeBoundaries, size)]++
	h.count++
	h.sum += int64(size)
}

// GetCount returns the number of samples
func (h *SizeHistogram) GetCount() int64 {
	return h.count
}

// AverageSize returns the exact mean of all samples
func (h *SizeHistogram) AverageSize() int {
	if h.count == 0 {
		return 0
	}
	return int(h.sum / h.count)
}

// MedianEstimate estimates the median size
func (h *SizeHistogram) MedianEstimate() int {
	return h.GetPercentileEstimate(50)
}

// GetPercentileEstimate estimates the given percentile (0-100) as the middle
// of the bucket that contains it. It returns 0 for an empty histogram or an
// invalid percentile.
func (h *SizeHistogram) GetPercentileEstimate(percentile int) int {
	if h.count == 0 || percentile < 0 || percentile > 100 {
		return 0
	}

	target := int64(math.Ceil(float64(h.count) * float64(percentile) / 100))
	var seen int64
	for i, n := range h.buckets {
		seen += n
		if seen >= target {
			return bucketMidpoint(i)
		}
	}
	return h.AverageSize()
}

// bucketMidpoint is the representative size of bucket i
func bucketMidpoint(i int) int {
	switch {
	case i == 0:
		return sizeBoundaries[0] / 2
	case i < len(sizeBoundaries):
		return (sizeBoundaries[i-1] + sizeBoundaries[i]) / 2
	default:
		return sizeBoundaries[len(sizeBoundaries)-1] * 2
	}
}
