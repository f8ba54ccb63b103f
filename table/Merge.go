package table

import (
	"gonum.org/v1/gonum/floats"
)

// Merge combines independently trained tables into a new table. The
// value of each key is the average of its values weighted by the
// visit counts of each table, and its count is the sum of the counts.
// Keys which no table has counted are averaged uniformly over the
// tables which store them.
//
// Merge never modifies its arguments, and should only be called once
// every table is done training.
func Merge(tables ...*ActionValues) *ActionValues {
	merged := NewActionValues()

	keys := make(map[Key]struct{})
	for _, q := range tables {
		for k := range q.keySet() {
			keys[k] = struct{}{}
		}
	}

	for k := range keys {
		values := make([]float64, 0, len(tables))
		weights := make([]float64, 0, len(tables))
		total := 0
		for _, q := range tables {
			if !q.has(k) {
				continue
			}
			values = append(values, q.values[k])
			weights = append(weights, float64(q.counts[k]))
			total += q.counts[k]
		}

		if total == 0 {
			merged.values[k] = floats.Sum(values) / float64(len(values))
			continue
		}

		merged.values[k] = floats.Dot(values, weights) / floats.Sum(weights)
		merged.counts[k] = total
	}

	return merged
}

func (q *ActionValues) has(k Key) bool {
	if _, ok := q.values[k]; ok {
		return true
	}
	_, ok := q.counts[k]
	return ok
}
