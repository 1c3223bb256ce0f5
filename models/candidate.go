package models

// CandidateRole matches the pageant division ENUM in the DB.
type CandidateRole string

const (
	RoleMr CandidateRole = "Mr"
	RoleMs CandidateRole = "Ms"
)

// Candidate represents a contestant. (Year, Role, CandidateNo) is unique.
type Candidate struct {
	ID            int           `json:"id" db:"id"`
	Year          string        `json:"year" db:"year"`
	Role          CandidateRole `json:"role" db:"role"`
	CandidateNo   int           `json:"candidate_no" db:"candidate_no"`
	CandidateName string        `json:"candidate_name" db:"candidate_name"`

	ImageKey *string `json:"-" db:"image_key"`
	ImageURL *string `json:"image_url,omitempty" db:"-"`
}
