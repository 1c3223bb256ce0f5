package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jrdcruz/pageant-system/models"
)

func TestCreateYear(t *testing.T) {
	ctx := context.Background()

	t.Run("trims the label", func(t *testing.T) {
		years := &fakeYearRepo{}
		service := NewYearService(years)

		year, err := service.CreateYear(ctx, CreateYearInput{Year: " 2025 ", Priority: true})
		if err != nil {
			t.Fatalf("CreateYear: %v", err)
		}
		if year.Year != "2025" {
			t.Errorf("year = %q, want trimmed", year.Year)
		}
	})

	t.Run("blank label", func(t *testing.T) {
		service := NewYearService(&fakeYearRepo{})
		if _, err := service.CreateYear(ctx, CreateYearInput{Year: "   "}); !errors.Is(err, ErrMissingFields) {
			t.Errorf("got %v, want ErrMissingFields", err)
		}
	})

	t.Run("duplicate label", func(t *testing.T) {
		years := &fakeYearRepo{years: []models.Year{{Year: "2025"}}}
		service := NewYearService(years)

		if _, err := service.CreateYear(ctx, CreateYearInput{Year: "2025"}); !errors.Is(err, ErrYearConflict) {
			t.Errorf("got %v, want ErrYearConflict", err)
		}
	})

	t.Run("second priority year", func(t *testing.T) {
		years := &fakeYearRepo{years: []models.Year{{Year: "2024", Priority: true}}}
		service := NewYearService(years)

		if _, err := service.CreateYear(ctx, CreateYearInput{Year: "2025", Priority: true}); !errors.Is(err, ErrActiveYearConflict) {
			t.Errorf("got %v, want ErrActiveYearConflict", err)
		}
	})
}

func TestSetActiveYear(t *testing.T) {
	ctx := context.Background()

	t.Run("moves priority to the named year", func(t *testing.T) {
		years := &fakeYearRepo{years: []models.Year{
			{Year: "2024", Priority: true},
			{Year: "2025", Priority: false},
		}}
		service := NewYearService(years)

		if err := service.SetActiveYear(ctx, "2025"); err != nil {
			t.Fatalf("SetActiveYear: %v", err)
		}

		active, err := years.GetActive(ctx)
		if err != nil {
			t.Fatalf("GetActive: %v", err)
		}
		if active.Year != "2025" {
			t.Errorf("active year = %q, want 2025", active.Year)
		}
		for _, y := range years.years {
			if y.Year == "2024" && y.Priority {
				t.Errorf("previous active year kept its priority")
			}
		}
	})

	t.Run("unknown year", func(t *testing.T) {
		years := &fakeYearRepo{years: []models.Year{{Year: "2024", Priority: true}}}
		service := NewYearService(years)

		if err := service.SetActiveYear(ctx, "1999"); !errors.Is(err, ErrYearNotFound) {
			t.Errorf("got %v, want ErrYearNotFound", err)
		}
	})

	t.Run("blank year", func(t *testing.T) {
		service := NewYearService(&fakeYearRepo{})
		if err := service.SetActiveYear(ctx, "  "); !errors.Is(err, ErrMissingFields) {
			t.Errorf("got %v, want ErrMissingFields", err)
		}
	})
}
