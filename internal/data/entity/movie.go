package entity

import (
	"time"
)

type ReleaseStatus string

const (
	ReleaseStatusNowPlaying ReleaseStatus = "now_playing"
	ReleaseStatusComingSoon ReleaseStatus = "coming_soon"
)

type Movie struct {
	Base
	Title             string        `db:"title"`
	Slug              string        `db:"slug"`
	Description       *string       `db:"description"`
	PosterURL         *string       `db:"poster_url"`
	Rating            float64       `db:"rating"`
	ReleaseDate       time.Time     `db:"release_date"`
	DurationInMinutes int           `db:"duration_in_minutes"`
	ReleaseStatus     ReleaseStatus `db:"release_status"`
}

// PromoteIfReleased moves a coming-soon movie whose release date is not after
// asOf to now-playing, matching the nightly promotion job. It reports whether
// the status changed.
func (m *Movie) PromoteIfReleased(asOf time.Time) bool {
	if m.ReleaseStatus != ReleaseStatusComingSoon || m.ReleaseDate.After(asOf) {
		return false
	}
	m.ReleaseStatus = ReleaseStatusNowPlaying
	return true
}
