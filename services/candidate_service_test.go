package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fakeImage() io.Reader {
	return strings.NewReader("not really a jpeg")
}

func TestCreateCandidate(t *testing.T) {
	ctx := context.Background()

	valid := func() CreateCandidateInput {
		return CreateCandidateInput{
			Year:          "2025",
			Role:          "Ms",
			CandidateNo:   3,
			CandidateName: "Dana Cruz",
		}
	}

	t.Run("uploads the photo and exposes its public URL", func(t *testing.T) {
		candidates := newFakeCandidateRepo()
		uploader := newFakeUploader()
		service := NewCandidateService(candidates, uploader, discardLogger())

		candidate, err := service.CreateCandidate(ctx, valid(), fakeImage(), "image/jpeg")
		if err != nil {
			t.Fatalf("CreateCandidate: %v", err)
		}
		if candidate.ImageKey == nil || *candidate.ImageKey == "" {
			t.Fatalf("no image key assigned")
		}
		if !strings.HasPrefix(*candidate.ImageKey, "candidates/candidate_2025_3_") {
			t.Errorf("image key = %q, want candidates/candidate_2025_3_ prefix", *candidate.ImageKey)
		}
		if !strings.HasSuffix(*candidate.ImageKey, ".jpg") {
			t.Errorf("image key = %q, want .jpg suffix", *candidate.ImageKey)
		}
		if !uploader.objects[*candidate.ImageKey] {
			t.Errorf("object %q not in the store", *candidate.ImageKey)
		}
		if candidate.ImageURL == nil || *candidate.ImageURL != "https://cdn.test/"+*candidate.ImageKey {
			t.Errorf("image URL = %v, want public URL of the key", candidate.ImageURL)
		}
	})

	t.Run("duplicate number in a role removes the uploaded object", func(t *testing.T) {
		candidates := newFakeCandidateRepo()
		uploader := newFakeUploader()
		service := NewCandidateService(candidates, uploader, discardLogger())

		if _, err := service.CreateCandidate(ctx, valid(), fakeImage(), "image/jpeg"); err != nil {
			t.Fatalf("first CreateCandidate: %v", err)
		}

		input := valid()
		input.CandidateName = "Someone Else"
		_, err := service.CreateCandidate(ctx, input, fakeImage(), "image/png")
		if !errors.Is(err, ErrDuplicateCandidate) {
			t.Fatalf("got %v, want ErrDuplicateCandidate", err)
		}
		if len(uploader.objects) != 1 {
			t.Errorf("%d objects in store after failed insert, want only the first", len(uploader.objects))
		}
		if len(uploader.deleted) != 1 {
			t.Errorf("orphaned upload was not cleaned up")
		}
	})

	t.Run("same number in the other role is allowed", func(t *testing.T) {
		candidates := newFakeCandidateRepo()
		uploader := newFakeUploader()
		service := NewCandidateService(candidates, uploader, discardLogger())

		if _, err := service.CreateCandidate(ctx, valid(), fakeImage(), "image/jpeg"); err != nil {
			t.Fatalf("first CreateCandidate: %v", err)
		}
		input := valid()
		input.Role = "Mr"
		input.CandidateName = "Eli Tan"
		if _, err := service.CreateCandidate(ctx, input, fakeImage(), "image/jpeg"); err != nil {
			t.Errorf("mirror role rejected: %v", err)
		}
	})

	tests := []struct {
		name        string
		mutate      func(*CreateCandidateInput)
		image       io.Reader
		contentType string
		wantErr     error
	}{
		{
			name:        "missing year",
			mutate:      func(in *CreateCandidateInput) { in.Year = " " },
			image:       fakeImage(),
			contentType: "image/jpeg",
			wantErr:     ErrMissingFields,
		},
		{
			name:        "zero candidate number",
			mutate:      func(in *CreateCandidateInput) { in.CandidateNo = 0 },
			image:       fakeImage(),
			contentType: "image/jpeg",
			wantErr:     ErrMissingFields,
		},
		{
			name:        "bad role",
			mutate:      func(in *CreateCandidateInput) { in.Role = "Mx" },
			image:       fakeImage(),
			contentType: "image/jpeg",
			wantErr:     ErrInvalidCandidateRole,
		},
		{
			name:        "no image",
			mutate:      func(in *CreateCandidateInput) {},
			image:       nil,
			contentType: "",
			wantErr:     ErrMissingFields,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := newFakeCandidateRepo()
			uploader := newFakeUploader()
			service := NewCandidateService(candidates, uploader, discardLogger())

			input := valid()
			tt.mutate(&input)

			_, err := service.CreateCandidate(ctx, input, tt.image, tt.contentType)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
			if len(candidates.candidates) != 0 {
				t.Errorf("invalid candidate was persisted")
			}
			if len(uploader.objects) != 0 {
				t.Errorf("objects left behind by invalid input")
			}
		})
	}

	t.Run("unsupported content type", func(t *testing.T) {
		service := NewCandidateService(newFakeCandidateRepo(), newFakeUploader(), discardLogger())
		_, err := service.CreateCandidate(ctx, valid(), fakeImage(), "application/pdf")
		if err == nil {
			t.Errorf("pdf accepted as candidate image")
		}
	})
}

func TestUpdateCandidate(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, service CandidateService) (int, string) {
		t.Helper()
		candidate, err := service.CreateCandidate(ctx, CreateCandidateInput{
			Year:          "2025",
			Role:          "Ms",
			CandidateNo:   3,
			CandidateName: "Dana Cruz",
		}, fakeImage(), "image/jpeg")
		if err != nil {
			t.Fatalf("seed candidate: %v", err)
		}
		return candidate.ID, *candidate.ImageKey
	}

	t.Run("without a new image the key stays", func(t *testing.T) {
		candidates := newFakeCandidateRepo()
		uploader := newFakeUploader()
		service := NewCandidateService(candidates, uploader, discardLogger())
		id, key := seed(t, service)

		updated, err := service.UpdateCandidate(ctx, UpdateCandidateInput{
			ID:            id,
			Role:          "Ms",
			CandidateNo:   4,
			CandidateName: "Dana Cruz",
		}, nil, "")
		if err != nil {
			t.Fatalf("UpdateCandidate: %v", err)
		}
		if updated.CandidateNo != 4 {
			t.Errorf("candidate number = %d, want 4", updated.CandidateNo)
		}
		if updated.ImageKey == nil || *updated.ImageKey != key {
			t.Errorf("image key changed without a new upload")
		}
		if len(uploader.deleted) != 0 {
			t.Errorf("image deleted despite no replacement")
		}
	})

	t.Run("new image replaces and deletes the old object", func(t *testing.T) {
		candidates := newFakeCandidateRepo()
		uploader := newFakeUploader()
		service := NewCandidateService(candidates, uploader, discardLogger())
		id, oldKey := seed(t, service)

		updated, err := service.UpdateCandidate(ctx, UpdateCandidateInput{
			ID:            id,
			Role:          "Ms",
			CandidateNo:   3,
			CandidateName: "Dana Cruz",
		}, fakeImage(), "image/png")
		if err != nil {
			t.Fatalf("UpdateCandidate: %v", err)
		}
		if *updated.ImageKey == oldKey {
			t.Errorf("image key not replaced")
		}
		if uploader.objects[oldKey] {
			t.Errorf("replaced object %q still in the store", oldKey)
		}
		if !uploader.objects[*updated.ImageKey] {
			t.Errorf("new object %q missing from the store", *updated.ImageKey)
		}
	})

	t.Run("unknown candidate", func(t *testing.T) {
		service := NewCandidateService(newFakeCandidateRepo(), newFakeUploader(), discardLogger())
		_, err := service.UpdateCandidate(ctx, UpdateCandidateInput{
			ID:            42,
			Role:          "Mr",
			CandidateNo:   1,
			CandidateName: "Ghost",
		}, nil, "")
		if !errors.Is(err, ErrCandidateNotFound) {
			t.Errorf("got %v, want ErrCandidateNotFound", err)
		}
	})
}

func TestDeleteCandidateRemovesImage(t *testing.T) {
	ctx := context.Background()
	candidates := newFakeCandidateRepo()
	uploader := newFakeUploader()
	service := NewCandidateService(candidates, uploader, discardLogger())

	candidate, err := service.CreateCandidate(ctx, CreateCandidateInput{
		Year:          "2025",
		Role:          "Mr",
		CandidateNo:   1,
		CandidateName: "Alon Reyes",
	}, fakeImage(), "image/jpeg")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	key := *candidate.ImageKey

	if err := service.DeleteCandidate(ctx, candidate.ID); err != nil {
		t.Fatalf("DeleteCandidate: %v", err)
	}
	if uploader.objects[key] {
		t.Errorf("object %q survived candidate deletion", key)
	}
	if err := service.DeleteCandidate(ctx, candidate.ID); !errors.Is(err, ErrCandidateNotFound) {
		t.Errorf("second delete: got %v, want ErrCandidateNotFound", err)
	}
}
