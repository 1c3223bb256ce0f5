package models

// CriterionScore is one scored entry of a ballot submission, matched to
// a category criterion by exact name.
type CriterionScore struct {
	CriteriaName string `json:"criteria_name"`
	Score        int    `json:"score"`
}

// ScoreRecord holds one judge's scores for one candidate in one
// category. Unique per (JudgeID, CandidateID, CategoryID); submissions
// replace the whole criteria list via upsert, never merge.
type ScoreRecord struct {
	ID          int              `json:"id" db:"id"`
	JudgeID     int              `json:"judge_id" db:"judge_id"`
	CandidateID int              `json:"candidate_id" db:"candidate_id"`
	CategoryID  int              `json:"category_id" db:"category_id"`
	Year        string           `json:"year" db:"year"`
	Criteria    []CriterionScore `json:"criteria" db:"criteria"`
}
