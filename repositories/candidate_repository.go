package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jrdcruz/pageant-system/models"
	"github.com/lib/pq"
)

var (
	ErrCandidateNotFound = errors.New("candidate not found")
	// ErrCandidateConflict is the Duplicate signal: the (year, role,
	// candidate_no) unique constraint rejected the row. Uniqueness lives
	// in the schema, so concurrent creations cannot both pass.
	ErrCandidateConflict    = errors.New("candidate number already taken for this role and year")
	ErrCandidateYearInvalid = errors.New("candidate year does not exist")
)

type CandidateRepository interface {
	Create(ctx context.Context, candidate *models.Candidate) error
	GetByID(ctx context.Context, id int) (*models.Candidate, error)
	ListByYear(ctx context.Context, year string) ([]models.Candidate, error)
	Update(ctx context.Context, candidate *models.Candidate) error
	Delete(ctx context.Context, id int) error
}

type postgresCandidateRepository struct {
	db *sql.DB
}

func NewPostgresCandidateRepository(db *sql.DB) CandidateRepository {
	return &postgresCandidateRepository{db: db}
}

func (r *postgresCandidateRepository) Create(ctx context.Context, candidate *models.Candidate) error {
	query := `
		INSERT INTO candidates (year, role, candidate_no, candidate_name, image_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		candidate.Year,
		candidate.Role,
		candidate.CandidateNo,
		candidate.CandidateName,
		candidate.ImageKey,
	).Scan(&candidate.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				if pqErr.Constraint == "candidates_year_role_no_key" {
					return ErrCandidateConflict
				}
			case "23503":
				if pqErr.Constraint == "candidates_year_fkey" {
					return ErrCandidateYearInvalid
				}
			}
		}
		return err
	}
	return nil
}

func (r *postgresCandidateRepository) GetByID(ctx context.Context, id int) (*models.Candidate, error) {
	query := `
		SELECT id, year, role, candidate_no, candidate_name, image_key
		FROM candidates
		WHERE id = $1`

	var candidate models.Candidate
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&candidate.ID,
		&candidate.Year,
		&candidate.Role,
		&candidate.CandidateNo,
		&candidate.CandidateName,
		&candidate.ImageKey,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCandidateNotFound
		}
		return nil, err
	}
	return &candidate, nil
}

// ListByYear returns candidates of every role for the year, ordered by
// candidate number then role, as the ballot expects them.
func (r *postgresCandidateRepository) ListByYear(ctx context.Context, year string) ([]models.Candidate, error) {
	query := `
		SELECT id, year, role, candidate_no, candidate_name, image_key
		FROM candidates
		WHERE year = $1
		ORDER BY candidate_no ASC, role ASC`

	rows, err := r.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := make([]models.Candidate, 0)
	for rows.Next() {
		var candidate models.Candidate
		scanErr := rows.Scan(
			&candidate.ID,
			&candidate.Year,
			&candidate.Role,
			&candidate.CandidateNo,
			&candidate.CandidateName,
			&candidate.ImageKey,
		)
		if scanErr != nil {
			return nil, scanErr
		}
		candidates = append(candidates, candidate)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return candidates, nil
}

func (r *postgresCandidateRepository) Update(ctx context.Context, candidate *models.Candidate) error {
	query := `
		UPDATE candidates SET
			role = $1,
			candidate_no = $2,
			candidate_name = $3,
			image_key = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		candidate.Role,
		candidate.CandidateNo,
		candidate.CandidateName,
		candidate.ImageKey,
		candidate.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "candidates_year_role_no_key" {
				return ErrCandidateConflict
			}
		}
		return err
	}
	return checkAffectedRows(result, ErrCandidateNotFound)
}

func (r *postgresCandidateRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM candidates WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCandidateNotFound)
}
