package progress

import "context"

// CalculateTotalProgress returns the share of totalLessons completed
// according to the local records, in [0, 1]. A non-positive total yields 0.
func CalculateTotalProgress(ctx context.Context, r Reader, totalLessons int) float64 {
	if totalLessons <= 0 {
		return 0
	}
	return Ratio(r.GetAll(ctx), totalLessons)
}

// Ratio counts distinct completed lesson ids over totalLessons.
func Ratio(records []Record, totalLessons int) float64 {
	if totalLessons <= 0 {
		return 0
	}
	done := make(map[string]bool, len(records))
	for _, r := range records {
		if r.Completed {
			done[r.ID] = true
		}
	}
	ratio := float64(len(done)) / float64(totalLessons)
	if ratio > 1 {
		return 1
	}
	return ratio
}

// Completed returns the set of completed lesson ids.
func Completed(records []Record) map[string]bool {
	out := make(map[string]bool, len(records))
	for _, r := range records {
		if r.Completed {
			out[r.ID] = true
		}
	}
	return out
}
