package models

// Year represents a pageant season. Exactly one year may carry the
// priority flag at a time; that year is the one judges score against.
type Year struct {
	Year     string `json:"year" db:"year"`
	Priority bool   `json:"priority" db:"priority"`
}
