package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jrdcruz/pageant-system/models"
	"github.com/jrdcruz/pageant-system/repositories"
)

type CategoryService interface {
	GetCategoriesByYear(ctx context.Context, year string) ([]models.Category, error)
	GetActiveCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, input UpdateCategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int) error
}

// CriterionInput keeps the percentage nullable so "field absent" and
// "zero" stay distinguishable during validation.
type CriterionInput struct {
	CriteriaName string `json:"criteria_name"`
	Percentage   *int   `json:"percentage"`
}

type CreateCategoryInput struct {
	Year         string           `json:"year"`
	CategoryName string           `json:"category_name"`
	Percentage   *int             `json:"percentage"`
	Criteria     []CriterionInput `json:"criteria"`
}

type UpdateCategoryInput struct {
	ID           int              `json:"id"`
	CategoryName string           `json:"category_name"`
	Percentage   *int             `json:"percentage"`
	Criteria     []CriterionInput `json:"criteria"`
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
	yearRepo     repositories.YearRepository
}

func NewCategoryService(categoryRepo repositories.CategoryRepository, yearRepo repositories.YearRepository) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		yearRepo:     yearRepo,
	}
}

func (s *categoryService) GetCategoriesByYear(ctx context.Context, year string) ([]models.Category, error) {
	categories, err := s.categoryRepo.ListByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories for year %q: %w", year, err)
	}
	return categories, nil
}

func (s *categoryService) GetActiveCategories(ctx context.Context) ([]models.Category, error) {
	activeYear, err := s.yearRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNoActiveYear) {
			return nil, ErrNoActiveYear
		}
		return nil, fmt.Errorf("failed to resolve active year: %w", err)
	}
	return s.GetCategoriesByYear(ctx, activeYear.Year)
}

func (s *categoryService) CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	if strings.TrimSpace(input.Year) == "" {
		return nil, ErrMissingFields
	}

	criteria, err := validateCategoryFields(input.CategoryName, input.Percentage, input.Criteria)
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		Year:       input.Year,
		Name:       strings.TrimSpace(input.CategoryName),
		Percentage: *input.Percentage,
		Criteria:   criteria,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repositories.ErrCategoryYearInvalid) {
			return nil, ErrYearNotFound
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, input UpdateCategoryInput) (*models.Category, error) {
	if input.ID == 0 {
		return nil, ErrMissingFields
	}

	criteria, err := validateCategoryFields(input.CategoryName, input.Percentage, input.Criteria)
	if err != nil {
		return nil, err
	}

	existing, err := s.categoryRepo.GetByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category %d: %w", input.ID, err)
	}

	existing.Name = strings.TrimSpace(input.CategoryName)
	existing.Percentage = *input.Percentage
	existing.Criteria = criteria

	if err := s.categoryRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update category %d: %w", input.ID, err)
	}

	return existing, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id int) error {
	err := s.categoryRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to delete category %d: %w", id, err)
	}
	return nil
}

// validateCategoryFields applies the category rules in a fixed order;
// the first failing rule decides the returned error.
func validateCategoryFields(name string, percentage *int, criteria []CriterionInput) ([]models.Criterion, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrCategoryNameRequired
	}
	if percentage == nil || *percentage < 0 || *percentage > 100 {
		return nil, ErrCategoryPercentageRequired
	}
	if len(criteria) == 0 {
		return nil, ErrCriteriaRequired
	}

	sum := 0
	result := make([]models.Criterion, 0, len(criteria))
	for _, c := range criteria {
		if strings.TrimSpace(c.CriteriaName) == "" || c.Percentage == nil || *c.Percentage < 0 || *c.Percentage > 100 {
			return nil, ErrCriteriaIncomplete
		}
		sum += *c.Percentage
		result = append(result, models.Criterion{
			CriteriaName: strings.TrimSpace(c.CriteriaName),
			Percentage:   *c.Percentage,
		})
	}
	if sum != 100 {
		return nil, ErrCriteriaSumInvalid
	}

	return result, nil
}
