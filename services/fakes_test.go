package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/jrdcruz/pageant-system/models"
	"github.com/jrdcruz/pageant-system/repositories"
	"github.com/jrdcruz/pageant-system/storage"
)

// In-memory repository fakes used across the service tests.

type fakeYearRepo struct {
	years []models.Year
}

func (f *fakeYearRepo) Create(_ context.Context, year *models.Year) error {
	for _, y := range f.years {
		if y.Year == year.Year {
			return repositories.ErrYearConflict
		}
		if y.Priority && year.Priority {
			return repositories.ErrActiveConflict
		}
	}
	f.years = append(f.years, *year)
	return nil
}

func (f *fakeYearRepo) GetAll(_ context.Context) ([]models.Year, error) {
	return append([]models.Year(nil), f.years...), nil
}

func (f *fakeYearRepo) GetActive(_ context.Context) (*models.Year, error) {
	for _, y := range f.years {
		if y.Priority {
			active := y
			return &active, nil
		}
	}
	return nil, repositories.ErrNoActiveYear
}

func (f *fakeYearRepo) SetActive(_ context.Context, year string) error {
	found := false
	for i := range f.years {
		f.years[i].Priority = f.years[i].Year == year
		if f.years[i].Priority {
			found = true
		}
	}
	if !found {
		return repositories.ErrYearNotFound
	}
	return nil
}

type fakeCategoryRepo struct {
	nextID     int
	categories map[int]models.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{nextID: 1, categories: make(map[int]models.Category)}
}

func (f *fakeCategoryRepo) Create(_ context.Context, category *models.Category) error {
	category.ID = f.nextID
	f.nextID++
	f.categories[category.ID] = *category
	return nil
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, id int) (*models.Category, error) {
	category, ok := f.categories[id]
	if !ok {
		return nil, repositories.ErrCategoryNotFound
	}
	return &category, nil
}

func (f *fakeCategoryRepo) GetByIDAndYear(_ context.Context, id int, year string) (*models.Category, error) {
	category, ok := f.categories[id]
	if !ok || category.Year != year {
		return nil, repositories.ErrCategoryNotFound
	}
	return &category, nil
}

func (f *fakeCategoryRepo) ListByYear(_ context.Context, year string) ([]models.Category, error) {
	result := make([]models.Category, 0)
	for _, c := range f.categories {
		if c.Year == year {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeCategoryRepo) Update(_ context.Context, category *models.Category) error {
	if _, ok := f.categories[category.ID]; !ok {
		return repositories.ErrCategoryNotFound
	}
	f.categories[category.ID] = *category
	return nil
}

func (f *fakeCategoryRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.categories[id]; !ok {
		return repositories.ErrCategoryNotFound
	}
	delete(f.categories, id)
	return nil
}

type fakeCandidateRepo struct {
	nextID     int
	candidates map[int]models.Candidate
}

func newFakeCandidateRepo() *fakeCandidateRepo {
	return &fakeCandidateRepo{nextID: 1, candidates: make(map[int]models.Candidate)}
}

func (f *fakeCandidateRepo) Create(_ context.Context, candidate *models.Candidate) error {
	for _, c := range f.candidates {
		if c.Year == candidate.Year && c.Role == candidate.Role && c.CandidateNo == candidate.CandidateNo {
			return repositories.ErrCandidateConflict
		}
	}
	candidate.ID = f.nextID
	f.nextID++
	f.candidates[candidate.ID] = *candidate
	return nil
}

func (f *fakeCandidateRepo) GetByID(_ context.Context, id int) (*models.Candidate, error) {
	candidate, ok := f.candidates[id]
	if !ok {
		return nil, repositories.ErrCandidateNotFound
	}
	return &candidate, nil
}

// ListByYear intentionally returns candidates in insertion-map order;
// the ballot builder owns the ordering contract.
func (f *fakeCandidateRepo) ListByYear(_ context.Context, year string) ([]models.Candidate, error) {
	result := make([]models.Candidate, 0)
	for _, c := range f.candidates {
		if c.Year == year {
			result = append(result, c)
		}
	}
	return result, nil
}

func (f *fakeCandidateRepo) Update(_ context.Context, candidate *models.Candidate) error {
	if _, ok := f.candidates[candidate.ID]; !ok {
		return repositories.ErrCandidateNotFound
	}
	for id, c := range f.candidates {
		if id != candidate.ID && c.Year == candidate.Year && c.Role == candidate.Role && c.CandidateNo == candidate.CandidateNo {
			return repositories.ErrCandidateConflict
		}
	}
	f.candidates[candidate.ID] = *candidate
	return nil
}

func (f *fakeCandidateRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.candidates[id]; !ok {
		return repositories.ErrCandidateNotFound
	}
	delete(f.candidates, id)
	return nil
}

type scoreKey struct {
	judgeID     int
	candidateID int
	categoryID  int
}

type fakeScoreRepo struct {
	nextID  int
	records map[scoreKey]models.ScoreRecord
}

func newFakeScoreRepo() *fakeScoreRepo {
	return &fakeScoreRepo{nextID: 1, records: make(map[scoreKey]models.ScoreRecord)}
}

func (f *fakeScoreRepo) ListForBallot(_ context.Context, judgeID, categoryID int, year string) ([]models.ScoreRecord, error) {
	result := make([]models.ScoreRecord, 0)
	for key, record := range f.records {
		if key.judgeID == judgeID && key.categoryID == categoryID && record.Year == year {
			result = append(result, record)
		}
	}
	return result, nil
}

func (f *fakeScoreRepo) Upsert(_ context.Context, record *models.ScoreRecord) error {
	key := scoreKey{judgeID: record.JudgeID, candidateID: record.CandidateID, categoryID: record.CategoryID}
	if existing, ok := f.records[key]; ok {
		record.ID = existing.ID
	} else {
		record.ID = f.nextID
		f.nextID++
	}
	f.records[key] = *record
	return nil
}

type fakeUserRepo struct {
	nextID int
	users  map[int]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int]models.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetAll(_ context.Context) ([]models.User, error) {
	result := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		result = append(result, u)
	}
	return result, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

// fakeUploader records object keys so tests can assert that images are
// removed together with their candidates.
type fakeUploader struct {
	mu      sync.Mutex
	objects map[string]bool
	deleted []string
	failPut bool
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: make(map[string]bool)}
}

func (f *fakeUploader) Upload(_ context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPut {
		return nil, fmt.Errorf("upload rejected")
	}
	if reader != nil {
		_, _ = io.Copy(io.Discard, reader)
	}
	f.objects[key] = true
	return &storage.UploadResult{Key: key, Location: f.GetPublicURL(key)}, nil
}

func (f *fakeUploader) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}
