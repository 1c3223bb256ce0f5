package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jrdcruz/pageant-system/models"
	"github.com/lib/pq"
)

var (
	ErrYearNotFound   = errors.New("year not found")
	ErrNoActiveYear   = errors.New("no active year configured")
	ErrYearConflict   = errors.New("year already exists")
	ErrActiveConflict = errors.New("another year is already active")
)

type YearRepository interface {
	Create(ctx context.Context, year *models.Year) error
	GetAll(ctx context.Context) ([]models.Year, error)
	GetActive(ctx context.Context) (*models.Year, error)
	SetActive(ctx context.Context, year string) error
}

type postgresYearRepository struct {
	db *sql.DB
}

func NewPostgresYearRepository(db *sql.DB) YearRepository {
	return &postgresYearRepository{db: db}
}

func (r *postgresYearRepository) Create(ctx context.Context, year *models.Year) error {
	query := `INSERT INTO years (year, priority) VALUES ($1, $2)`

	_, err := r.db.ExecContext(ctx, query, year.Year, year.Priority)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "years_pkey" {
				return ErrYearConflict
			}
			if pqErr.Constraint == "years_priority_key" {
				return ErrActiveConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresYearRepository) GetAll(ctx context.Context) ([]models.Year, error) {
	query := `SELECT year, priority FROM years ORDER BY year DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	years := make([]models.Year, 0)
	for rows.Next() {
		var y models.Year
		if scanErr := rows.Scan(&y.Year, &y.Priority); scanErr != nil {
			return nil, scanErr
		}
		years = append(years, y)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return years, nil
}

func (r *postgresYearRepository) GetActive(ctx context.Context) (*models.Year, error) {
	query := `SELECT year, priority FROM years WHERE priority = TRUE`

	var y models.Year
	err := r.db.QueryRowContext(ctx, query).Scan(&y.Year, &y.Priority)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoActiveYear
		}
		return nil, err
	}
	return &y, nil
}

// SetActive moves the priority flag to the given year. The clear and
// set run in one transaction so the partial unique index never sees two
// active rows.
func (r *postgresYearRepository) SetActive(ctx context.Context, year string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `UPDATE years SET priority = FALSE WHERE priority = TRUE`); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `UPDATE years SET priority = TRUE WHERE year = $1`, year)
	if err != nil {
		return err
	}
	if err = checkAffectedRows(result, ErrYearNotFound); err != nil {
		return err
	}

	return tx.Commit()
}
