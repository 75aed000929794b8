package entity

import "github.com/google/uuid"

// Hall is a screening room. Size is the seat capacity the chart is derived from.
type Hall struct {
	BaseNoDelete
	CinemaID uuid.UUID `db:"cinema_id"`
	Name     string    `db:"name"`
	Size     int       `db:"size"`
}
