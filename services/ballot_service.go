package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/jrdcruz/pageant-system/live"
	"github.com/jrdcruz/pageant-system/models"
	"github.com/jrdcruz/pageant-system/repositories"
	"github.com/jrdcruz/pageant-system/storage"
	"golang.org/x/sync/errgroup"
)

type BallotService interface {
	// BuildBallot returns one row per candidate of the active year with
	// the judge's current scores merged against the category's criteria.
	BuildBallot(ctx context.Context, judgeID, categoryID int) ([]BallotRow, error)
	SubmitScores(ctx context.Context, judgeID int, input SubmitScoresInput) (*models.ScoreRecord, error)
}

// BallotCriterion is one criterion of the category with the judge's
// score for it, zero when unscored.
type BallotCriterion struct {
	CriteriaName string `json:"criteria_name"`
	Percentage   int    `json:"percentage"`
	Score        int    `json:"score"`
}

// BallotRow combines candidate identity, category display fields and
// the per-criterion scores, mirroring what the judging board renders.
type BallotRow struct {
	Year          string               `json:"year"`
	CandidateID   int                  `json:"candidate_id"`
	ImageURL      *string              `json:"image_url,omitempty"`
	CandidateName string               `json:"candidate_name"`
	CandidateNo   int                  `json:"candidate_no"`
	Role          models.CandidateRole `json:"role"`

	Name       string `json:"name"`
	Percentage int    `json:"percentage"`

	Criteria []BallotCriterion `json:"criteria"`
}

type SubmitScoresInput struct {
	CandidateID int                     `json:"candidate_id"`
	CategoryID  int                     `json:"category_id"`
	Year        string                  `json:"year"`
	Criteria    []models.CriterionScore `json:"criteria"`
}

type ballotService struct {
	yearRepo      repositories.YearRepository
	categoryRepo  repositories.CategoryRepository
	candidateRepo repositories.CandidateRepository
	scoreRepo     repositories.ScoreRepository
	uploader      storage.FileUploader
	hub           *live.Hub
}

func NewBallotService(
	yearRepo repositories.YearRepository,
	categoryRepo repositories.CategoryRepository,
	candidateRepo repositories.CandidateRepository,
	scoreRepo repositories.ScoreRepository,
	uploader storage.FileUploader,
	hub *live.Hub,
) BallotService {
	return &ballotService{
		yearRepo:      yearRepo,
		categoryRepo:  categoryRepo,
		candidateRepo: candidateRepo,
		scoreRepo:     scoreRepo,
		uploader:      uploader,
		hub:           hub,
	}
}

func (s *ballotService) BuildBallot(ctx context.Context, judgeID, categoryID int) ([]BallotRow, error) {
	activeYear, err := s.yearRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNoActiveYear) {
			return nil, ErrNoActiveYear
		}
		return nil, fmt.Errorf("failed to resolve active year: %w", err)
	}

	category, err := s.categoryRepo.GetByIDAndYear(ctx, categoryID, activeYear.Year)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category %d: %w", categoryID, err)
	}

	var (
		candidates []models.Candidate
		records    []models.ScoreRecord
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var lErr error
		candidates, lErr = s.candidateRepo.ListByYear(gCtx, activeYear.Year)
		return lErr
	})
	g.Go(func() error {
		var lErr error
		records, lErr = s.scoreRepo.ListForBallot(gCtx, judgeID, categoryID, activeYear.Year)
		return lErr
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load ballot data: %w", err)
	}

	// At most one record per candidate thanks to the upsert key.
	recordsByCandidate := make(map[int]*models.ScoreRecord, len(records))
	for i := range records {
		recordsByCandidate[records[i].CandidateID] = &records[i]
	}

	rows := make([]BallotRow, 0, len(candidates))
	for i := range candidates {
		candidate := &candidates[i]
		populateCandidateImageURL(candidate, s.uploader)

		rows = append(rows, BallotRow{
			Year:          activeYear.Year,
			CandidateID:   candidate.ID,
			ImageURL:      candidate.ImageURL,
			CandidateName: candidate.CandidateName,
			CandidateNo:   candidate.CandidateNo,
			Role:          candidate.Role,
			Name:          category.Name,
			Percentage:    category.Percentage,
			Criteria:      mergeCriteria(category.Criteria, recordsByCandidate[candidate.ID]),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CandidateNo != rows[j].CandidateNo {
			return rows[i].CandidateNo < rows[j].CandidateNo
		}
		return rows[i].Role < rows[j].Role
	})

	return rows, nil
}

// mergeCriteria left-joins a judge's score record onto the category's
// criteria definition. Matching is by exact criterion name; entries the
// record lacks default to score 0.
func mergeCriteria(criteria []models.Criterion, record *models.ScoreRecord) []BallotCriterion {
	merged := make([]BallotCriterion, 0, len(criteria))
	for _, c := range criteria {
		score := 0
		if record != nil {
			for _, sc := range record.Criteria {
				if sc.CriteriaName == c.CriteriaName {
					score = sc.Score
					break
				}
			}
		}
		merged = append(merged, BallotCriterion{
			CriteriaName: c.CriteriaName,
			Percentage:   c.Percentage,
			Score:        score,
		})
	}
	return merged
}

func (s *ballotService) SubmitScores(ctx context.Context, judgeID int, input SubmitScoresInput) (*models.ScoreRecord, error) {
	if input.CandidateID == 0 || input.CategoryID == 0 || input.Year == "" || input.Criteria == nil {
		return nil, ErrMissingFields
	}

	category, err := s.categoryRepo.GetByID(ctx, input.CategoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category %d: %w", input.CategoryID, err)
	}

	if err := validateSubmittedCriteria(category.Criteria, input.Criteria); err != nil {
		return nil, err
	}

	record := &models.ScoreRecord{
		JudgeID:     judgeID,
		CandidateID: input.CandidateID,
		CategoryID:  input.CategoryID,
		Year:        input.Year,
		Criteria:    input.Criteria,
	}

	if err := s.scoreRepo.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to upsert score record: %w", err)
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(strconv.Itoa(input.CategoryID), live.TypeScoreUpdated, record)
	}

	return record, nil
}

// validateSubmittedCriteria re-checks score bounds server side: every
// submitted entry must name a criterion the category defines, and its
// score must lie within [0, criterion percentage].
func validateSubmittedCriteria(defined []models.Criterion, submitted []models.CriterionScore) error {
	limits := make(map[string]int, len(defined))
	for _, c := range defined {
		limits[c.CriteriaName] = c.Percentage
	}

	for _, sc := range submitted {
		limit, ok := limits[sc.CriteriaName]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownCriterion, sc.CriteriaName)
		}
		if sc.Score < 0 || sc.Score > limit {
			return fmt.Errorf("%w: %q=%d (max %d)", ErrScoreOutOfRange, sc.CriteriaName, sc.Score, limit)
		}
	}
	return nil
}
