package lifecycle

import (
	"time"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
	apperrors "github.com/re-fagiano/Project-feffoemaurizia/pkg/util"
)

// CheckInInput carries the optional fields recorded at timer start.
type CheckInInput struct {
	TechnicianID string
	Latitude     *float64
	Longitude    *float64
	Note         *string
	Now          time.Time
}

// CheckIn opens a time entry on an activity. hasOpenEntry is the result of
// the open-entry lookup for the same (activity, technician) pair, read
// within the caller's transaction; a partial unique index backs the same
// invariant against concurrent check-ins. A planned activity starts working
// as a side effect; the third return value reports that state move.
func CheckIn(a domain.Activity, hasOpenEntry bool, in CheckInInput) (domain.TimeEntry, domain.Activity, bool, error) {
	if hasOpenEntry {
		return domain.TimeEntry{}, a, false, apperrors.NewConflict("timer already running for this activity", map[string]any{
			"activity_id": a.ID,
		})
	}

	entry := domain.TimeEntry{
		ActivityID:     a.ID,
		TechnicianID:   in.TechnicianID,
		StartedAt:      in.Now,
		StartLatitude:  in.Latitude,
		StartLongitude: in.Longitude,
		Note:           in.Note,
	}

	moved := false
	if a.State == domain.ActivityStatePlanned {
		a.State = domain.ActivityStateInProgress
		moved = true
	}
	return entry, a, moved, nil
}

// CheckOut closes an open time entry, computing the duration as whole
// elapsed minutes (floor). A non-empty note overwrites the stored one.
func CheckOut(entry domain.TimeEntry, now time.Time, note *string) (domain.TimeEntry, error) {
	if !entry.Open() {
		return entry, apperrors.NewConflict("no running timer for this activity", map[string]any{
			"activity_id": entry.ActivityID,
		})
	}

	end := now
	entry.EndedAt = &end
	minutes := int(end.Sub(entry.StartedAt).Seconds() / 60)
	entry.DurationMinutes = &minutes
	if note != nil && *note != "" {
		entry.Note = note
	}
	return entry, nil
}
