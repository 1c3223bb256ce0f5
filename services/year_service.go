package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jrdcruz/pageant-system/models"
	"github.com/jrdcruz/pageant-system/repositories"
)

type YearService interface {
	GetAllYears(ctx context.Context) ([]models.Year, error)
	CreateYear(ctx context.Context, input CreateYearInput) (*models.Year, error)
	SetActiveYear(ctx context.Context, year string) error
}

type CreateYearInput struct {
	Year     string `json:"year"`
	Priority bool   `json:"priority"`
}

type yearService struct {
	yearRepo repositories.YearRepository
}

func NewYearService(yearRepo repositories.YearRepository) YearService {
	return &yearService{
		yearRepo: yearRepo,
	}
}

func (s *yearService) GetAllYears(ctx context.Context) ([]models.Year, error) {
	years, err := s.yearRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all years: %w", err)
	}
	return years, nil
}

func (s *yearService) CreateYear(ctx context.Context, input CreateYearInput) (*models.Year, error) {
	label := strings.TrimSpace(input.Year)
	if label == "" {
		return nil, ErrMissingFields
	}

	year := &models.Year{
		Year:     label,
		Priority: input.Priority,
	}

	err := s.yearRepo.Create(ctx, year)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrYearConflict):
			return nil, ErrYearConflict
		case errors.Is(err, repositories.ErrActiveConflict):
			// A priority year already exists; the caller must switch
			// the active year explicitly instead.
			return nil, ErrActiveYearConflict
		default:
			return nil, fmt.Errorf("failed to create year: %w", err)
		}
	}

	return year, nil
}

func (s *yearService) SetActiveYear(ctx context.Context, year string) error {
	if strings.TrimSpace(year) == "" {
		return ErrMissingFields
	}

	err := s.yearRepo.SetActive(ctx, year)
	if err != nil {
		if errors.Is(err, repositories.ErrYearNotFound) {
			return ErrYearNotFound
		}
		return fmt.Errorf("failed to set active year %q: %w", year, err)
	}
	return nil
}
