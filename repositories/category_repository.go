package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jrdcruz/pageant-system/models"
	"github.com/lib/pq"
)

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryYearInvalid = errors.New("category year does not exist")
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id int) (*models.Category, error)
	GetByIDAndYear(ctx context.Context, id int, year string) (*models.Category, error)
	ListByYear(ctx context.Context, year string) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int) error
}

type postgresCategoryRepository struct {
	db *sql.DB
}

func NewPostgresCategoryRepository(db *sql.DB) CategoryRepository {
	return &postgresCategoryRepository{db: db}
}

func (r *postgresCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	criteriaJSON, err := json.Marshal(category.Criteria)
	if err != nil {
		return fmt.Errorf("failed to marshal criteria: %w", err)
	}

	query := `
		INSERT INTO categories (year, name, percentage, criteria)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err = r.db.QueryRowContext(ctx, query,
		category.Year,
		category.Name,
		category.Percentage,
		criteriaJSON,
	).Scan(&category.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			if pqErr.Constraint == "categories_year_fkey" {
				return ErrCategoryYearInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresCategoryRepository) GetByID(ctx context.Context, id int) (*models.Category, error) {
	query := `SELECT id, year, name, percentage, criteria FROM categories WHERE id = $1`
	return r.scanCategory(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresCategoryRepository) GetByIDAndYear(ctx context.Context, id int, year string) (*models.Category, error) {
	query := `SELECT id, year, name, percentage, criteria FROM categories WHERE id = $1 AND year = $2`
	return r.scanCategory(r.db.QueryRowContext(ctx, query, id, year))
}

func (r *postgresCategoryRepository) ListByYear(ctx context.Context, year string) ([]models.Category, error) {
	query := `SELECT id, year, name, percentage, criteria FROM categories WHERE year = $1 ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		var category models.Category
		var criteriaJSON []byte
		if scanErr := rows.Scan(&category.ID, &category.Year, &category.Name, &category.Percentage, &criteriaJSON); scanErr != nil {
			return nil, scanErr
		}
		if err = json.Unmarshal(criteriaJSON, &category.Criteria); err != nil {
			return nil, fmt.Errorf("failed to unmarshal criteria for category %d: %w", category.ID, err)
		}
		categories = append(categories, category)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *postgresCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	criteriaJSON, err := json.Marshal(category.Criteria)
	if err != nil {
		return fmt.Errorf("failed to marshal criteria: %w", err)
	}

	query := `UPDATE categories SET name = $1, percentage = $2, criteria = $3 WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, category.Name, category.Percentage, criteriaJSON, category.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCategoryNotFound)
}

func (r *postgresCategoryRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM categories WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCategoryNotFound)
}

func (r *postgresCategoryRepository) scanCategory(row *sql.Row) (*models.Category, error) {
	var category models.Category
	var criteriaJSON []byte

	err := row.Scan(&category.ID, &category.Year, &category.Name, &category.Percentage, &criteriaJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	if err = json.Unmarshal(criteriaJSON, &category.Criteria); err != nil {
		return nil, fmt.Errorf("failed to unmarshal criteria for category %d: %w", category.ID, err)
	}
	return &category, nil
}
