package dataview

import (
	"github.com/opsfloor/mfgops_backend/masters"
)

// AllBucket is the key of the total tab in GroupCounts results.
const AllBucket = "all"

// GroupCounts tallies records per value of keyField for status-tab badges,
// plus an "all" bucket. excludeFromAll lists statuses the "all" bucket leaves
// out; the excluded statuses still get their own buckets. This exclusion is
// per-collection business policy, not a general rule.
func GroupCounts(records []masters.Record, keyField string, excludeFromAll []string) map[string]int {
	excluded := make(map[string]bool, len(excludeFromAll))
	for _, status := range excludeFromAll {
		excluded[status] = true
	}

	counts := map[string]int{AllBucket: 0}
	for _, rec := range records {
		key := rec.StringField(keyField)
		counts[key]++
		if !excluded[key] {
			counts[AllBucket]++
		}
	}
	return counts
}
