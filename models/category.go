package models

// Criterion is one named, weighted entry of a category's criteria list.
// The list is embedded in the category row as JSONB and is not
// addressable on its own.
type Criterion struct {
	CriteriaName string `json:"criteria_name"`
	Percentage   int    `json:"percentage"`
}

// Category represents a scoring category for a given year.
// Percentage is the category's overall weight; the criteria percentages
// are expected to sum to 100.
type Category struct {
	ID         int         `json:"id" db:"id"`
	Year       string      `json:"year" db:"year"`
	Name       string      `json:"name" db:"name"`
	Percentage int         `json:"percentage" db:"percentage"`
	Criteria   []Criterion `json:"criteria" db:"criteria"`
}
