package briefing

import (
	"fmt"
	"time"

	"github.com/autobrief/autobrief/internal/models"
)

// Group partitions activity records by provider, preserving input order
// within each group. Records arrive from the store already sorted by
// timestamp descending; no re-sort happens here. Unknown providers form
// their own group with no special-casing, and no cross-provider
// deduplication is performed.
func Group(records []models.ActivityRecord) map[models.Provider][]models.ActivityRecord {
	groups := make(map[models.Provider][]models.ActivityRecord)
	for _, rec := range records {
		groups[rec.Provider] = append(groups[rec.Provider], rec)
	}
	return groups
}

// DayRange computes the inclusive range [00:00:00.000, 23:59:59.999] for a
// YYYY-MM-DD date in server-local time. No timezone normalization is
// performed; callers pass a date already in the desired zone.
func DayRange(date string) (start, end time.Time, err error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD: %v", ErrInvalidArgument, err)
	}

	start = day
	end = time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, int(999*time.Millisecond), time.Local)
	return start, end, nil
}
