package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jrdcruz/pageant-system/models"
)

var ErrScoreNotFound = errors.New("score record not found")

type ScoreRepository interface {
	// ListForBallot returns every score record one judge has for a
	// category in a year, at most one per candidate.
	ListForBallot(ctx context.Context, judgeID, categoryID int, year string) ([]models.ScoreRecord, error)
	// Upsert inserts the record or, when the (judge, candidate,
	// category) key already exists, replaces its criteria list whole.
	Upsert(ctx context.Context, record *models.ScoreRecord) error
}

type postgresScoreRepository struct {
	db *sql.DB
}

func NewPostgresScoreRepository(db *sql.DB) ScoreRepository {
	return &postgresScoreRepository{db: db}
}

func (r *postgresScoreRepository) ListForBallot(ctx context.Context, judgeID, categoryID int, year string) ([]models.ScoreRecord, error) {
	query := `
		SELECT id, judge_id, candidate_id, category_id, year, criteria
		FROM scores
		WHERE judge_id = $1 AND category_id = $2 AND year = $3`

	rows, err := r.db.QueryContext(ctx, query, judgeID, categoryID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]models.ScoreRecord, 0)
	for rows.Next() {
		var record models.ScoreRecord
		var criteriaJSON []byte
		scanErr := rows.Scan(
			&record.ID,
			&record.JudgeID,
			&record.CandidateID,
			&record.CategoryID,
			&record.Year,
			&criteriaJSON,
		)
		if scanErr != nil {
			return nil, scanErr
		}
		if err = json.Unmarshal(criteriaJSON, &record.Criteria); err != nil {
			return nil, fmt.Errorf("failed to unmarshal criteria for score %d: %w", record.ID, err)
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *postgresScoreRepository) Upsert(ctx context.Context, record *models.ScoreRecord) error {
	criteriaJSON, err := json.Marshal(record.Criteria)
	if err != nil {
		return fmt.Errorf("failed to marshal criteria: %w", err)
	}

	query := `
		INSERT INTO scores (judge_id, candidate_id, category_id, year, criteria)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (judge_id, candidate_id, category_id)
		DO UPDATE SET year = EXCLUDED.year, criteria = EXCLUDED.criteria
		RETURNING id`

	err = r.db.QueryRowContext(ctx, query,
		record.JudgeID,
		record.CandidateID,
		record.CategoryID,
		record.Year,
		criteriaJSON,
	).Scan(&record.ID)
	if err != nil {
		return err
	}
	return nil
}
