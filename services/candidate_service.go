package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jrdcruz/pageant-system/models"
	"github.com/jrdcruz/pageant-system/repositories"
	"github.com/jrdcruz/pageant-system/storage"
)

type CandidateService interface {
	GetCandidatesByYear(ctx context.Context, year string) ([]models.Candidate, error)
	CreateCandidate(ctx context.Context, input CreateCandidateInput, image io.Reader, contentType string) (*models.Candidate, error)
	UpdateCandidate(ctx context.Context, input UpdateCandidateInput, image io.Reader, contentType string) (*models.Candidate, error)
	DeleteCandidate(ctx context.Context, id int) error
}

type CreateCandidateInput struct {
	Year          string
	Role          string
	CandidateNo   int
	CandidateName string
}

type UpdateCandidateInput struct {
	ID            int
	Role          string
	CandidateNo   int
	CandidateName string
}

type candidateService struct {
	candidateRepo repositories.CandidateRepository
	uploader      storage.FileUploader
	logger        *slog.Logger
}

func NewCandidateService(candidateRepo repositories.CandidateRepository, uploader storage.FileUploader, logger *slog.Logger) CandidateService {
	return &candidateService{
		candidateRepo: candidateRepo,
		uploader:      uploader,
		logger:        logger,
	}
}

func (s *candidateService) GetCandidatesByYear(ctx context.Context, year string) ([]models.Candidate, error) {
	candidates, err := s.candidateRepo.ListByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates for year %q: %w", year, err)
	}
	for i := range candidates {
		populateCandidateImageURL(&candidates[i], s.uploader)
	}
	return candidates, nil
}

func (s *candidateService) CreateCandidate(ctx context.Context, input CreateCandidateInput, image io.Reader, contentType string) (*models.Candidate, error) {
	if strings.TrimSpace(input.Year) == "" || strings.TrimSpace(input.CandidateName) == "" || input.CandidateNo <= 0 {
		return nil, ErrMissingFields
	}
	role, err := parseCandidateRole(input.Role)
	if err != nil {
		return nil, err
	}
	if image == nil {
		return nil, ErrMissingFields
	}

	key, err := s.uploadImage(ctx, input.Year, input.CandidateNo, image, contentType)
	if err != nil {
		return nil, err
	}

	candidate := &models.Candidate{
		Year:          input.Year,
		Role:          role,
		CandidateNo:   input.CandidateNo,
		CandidateName: strings.TrimSpace(input.CandidateName),
		ImageKey:      &key,
	}

	if err := s.candidateRepo.Create(ctx, candidate); err != nil {
		// The row never landed, so the uploaded object would dangle.
		if delErr := s.uploader.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to clean up candidate image after insert failure",
				slog.String("key", key), slog.Any("error", delErr))
		}
		switch {
		case errors.Is(err, repositories.ErrCandidateConflict):
			return nil, ErrDuplicateCandidate
		case errors.Is(err, repositories.ErrCandidateYearInvalid):
			return nil, ErrYearNotFound
		default:
			return nil, fmt.Errorf("failed to create candidate: %w", err)
		}
	}

	populateCandidateImageURL(candidate, s.uploader)
	return candidate, nil
}

func (s *candidateService) UpdateCandidate(ctx context.Context, input UpdateCandidateInput, image io.Reader, contentType string) (*models.Candidate, error) {
	if input.ID == 0 || strings.TrimSpace(input.CandidateName) == "" || input.CandidateNo <= 0 {
		return nil, ErrMissingFields
	}
	role, err := parseCandidateRole(input.Role)
	if err != nil {
		return nil, err
	}

	candidate, err := s.candidateRepo.GetByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrCandidateNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, fmt.Errorf("failed to get candidate %d: %w", input.ID, err)
	}

	oldKey := candidate.ImageKey
	if image != nil {
		key, upErr := s.uploadImage(ctx, candidate.Year, input.CandidateNo, image, contentType)
		if upErr != nil {
			return nil, upErr
		}
		candidate.ImageKey = &key
	}

	candidate.Role = role
	candidate.CandidateNo = input.CandidateNo
	candidate.CandidateName = strings.TrimSpace(input.CandidateName)

	if err := s.candidateRepo.Update(ctx, candidate); err != nil {
		switch {
		case errors.Is(err, repositories.ErrCandidateConflict):
			return nil, ErrDuplicateCandidate
		case errors.Is(err, repositories.ErrCandidateNotFound):
			return nil, ErrCandidateNotFound
		default:
			return nil, fmt.Errorf("failed to update candidate %d: %w", input.ID, err)
		}
	}

	// Drop the replaced image only after the row points at the new one.
	if image != nil && oldKey != nil && *oldKey != "" {
		if delErr := s.uploader.Delete(ctx, *oldKey); delErr != nil {
			s.logger.Warn("failed to delete replaced candidate image",
				slog.String("key", *oldKey), slog.Any("error", delErr))
		}
	}

	populateCandidateImageURL(candidate, s.uploader)
	return candidate, nil
}

// DeleteCandidate removes the row and the stored photo so no object is
// left dangling in the bucket.
func (s *candidateService) DeleteCandidate(ctx context.Context, id int) error {
	candidate, err := s.candidateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCandidateNotFound) {
			return ErrCandidateNotFound
		}
		return fmt.Errorf("failed to get candidate %d: %w", id, err)
	}

	if err := s.candidateRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrCandidateNotFound) {
			return ErrCandidateNotFound
		}
		return fmt.Errorf("failed to delete candidate %d: %w", id, err)
	}

	if candidate.ImageKey != nil && *candidate.ImageKey != "" {
		if delErr := s.uploader.Delete(ctx, *candidate.ImageKey); delErr != nil {
			s.logger.Warn("failed to delete candidate image",
				slog.String("key", *candidate.ImageKey), slog.Any("error", delErr))
		}
	}

	return nil
}

func (s *candidateService) uploadImage(ctx context.Context, year string, candidateNo int, image io.Reader, contentType string) (string, error) {
	ext, err := extensionFromContentType(contentType)
	if err != nil {
		return "", fmt.Errorf("unsupported candidate image: %w", err)
	}

	key := fmt.Sprintf("candidates/candidate_%s_%d_%s%s", year, candidateNo, randomHex(8), ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, image); err != nil {
		return "", fmt.Errorf("failed to upload candidate image: %w", err)
	}
	return key, nil
}

func parseCandidateRole(raw string) (models.CandidateRole, error) {
	role := models.CandidateRole(strings.TrimSpace(raw))
	switch role {
	case models.RoleMr, models.RoleMs:
		return role, nil
	default:
		return "", ErrInvalidCandidateRole
	}
}

func populateCandidateImageURL(candidate *models.Candidate, uploader storage.FileUploader) {
	if candidate != nil && candidate.ImageKey != nil && *candidate.ImageKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*candidate.ImageKey)
		if url != "" {
			candidate.ImageURL = &url
		}
	}
}

func extensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		return "", fmt.Errorf("could not determine file extension from content type: %q", contentType)
	}
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "00000000"
	}
	return hex.EncodeToString(b)
}
