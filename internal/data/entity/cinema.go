package entity

type Cinema struct {
	BaseNoDelete
	Name     string `db:"name"`
	Location string `db:"location"`
	City     string `db:"city"`
}
