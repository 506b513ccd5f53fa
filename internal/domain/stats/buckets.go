package stats

import "fmt"

// BucketTable is a fixed, ordered set of contiguous score ranges used for
// distribution histograms. Bounds are inclusive upper limits; the final
// label is the open-ended top bucket. Every non-negative score falls into
// exactly one bucket.
type BucketTable struct {
	labels []string
	bounds []int // len(bounds) == len(labels)-1
}

// NewBucketTable builds a table from inclusive upper bounds and their
// labels plus the open-ended top label. Bounds must be strictly ascending.
func NewBucketTable(bounds []int, labels []string) (BucketTable, error) {
	if len(labels) != len(bounds)+1 {
		return BucketTable{}, fmt.Errorf("bucket table needs %d labels for %d bounds, got %d", len(bounds)+1, len(bounds), len(labels))
	}
	for i := 1; i < len(bounds); i++ {
		if bounds[i] <= bounds[i-1] {
			return BucketTable{}, fmt.Errorf("bucket bounds must be strictly ascending, got %v", bounds)
		}
	}
	return BucketTable{labels: labels, bounds: bounds}, nil
}

// Bucket returns the label for a score. Pure per-event; independent of any
// other event.
func (t BucketTable) Bucket(score int) string {
	for i, bound := range t.bounds {
		if score <= bound {
			return t.labels[i]
		}
	}
	return t.labels[len(t.labels)-1]
}

// Labels returns the ordered bucket labels.
func (t BucketTable) Labels() []string {
	out := make([]string, len(t.labels))
	copy(out, t.labels)
	return out
}

// The two deployed game variants carry their own fixed tables. Boundaries
// are part of the report contract, not derived from the data.
var (
	// ClassicTable covers the seven-symbol variant.
	ClassicTable = BucketTable{
		labels: []string{"0-5", "6-10", "11-15", "16-20", "20+"},
		bounds: []int{5, 10, 15, 20},
	}

	// ExtendedTable covers the twelve-symbol variant, which runs longer
	// and scores higher.
	ExtendedTable = BucketTable{
		labels: []string{"0-8", "9-16", "17-24", "25-32", "32+"},
		bounds: []int{8, 16, 24, 32},
	}
)

// TableForVariant selects the bucket table for a caller-supplied variant
// identifier. Unknown variants fall back to the classic table.
func TableForVariant(variant string) BucketTable {
	if variant == "12" {
		return ExtendedTable
	}
	return ClassicTable
}
