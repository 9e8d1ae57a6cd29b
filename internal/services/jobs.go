package services

import (
	"context"
	"errors"
	"time"

	"github.com/diewo77/commcentre/internal/models"
	"github.com/diewo77/commcentre/internal/store"
)

// JobService stores print jobs. Any status may follow any other; there is
// no transition guard.
type JobService struct {
	store  *store.Store
	region string
	now    func() time.Time
}

func NewJobService(st *store.Store, phoneRegion string) *JobService {
	return &JobService{store: st, region: phoneRegion, now: time.Now}
}

func (s *JobService) Create(ctx context.Context, in models.JobInput) (*models.Job, error) {
	j, v := models.NewJob(in, s.region, s.now())
	if !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}
	if err := s.store.CreateJob(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

// Update replaces all user fields of job id with in. The status is
// normalized, so a legacy "Printing/Cutting" row is saved back as Printing.
// DateCreated is preserved.
func (s *JobService) Update(ctx context.Context, id uint, in models.JobInput) (*models.Job, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	j, v := models.NewJob(in, s.region, existing.DateCreated)
	if !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}
	j.ID = existing.ID
	if err := s.store.UpdateJob(ctx, j); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return j, nil
}

func (s *JobService) Delete(ctx context.Context, id uint) error {
	err := s.store.DeleteJob(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrJobNotFound
	}
	return err
}

func (s *JobService) Get(ctx context.Context, id uint) (*models.Job, error) {
	j, err := s.store.GetJob(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrJobNotFound
	}
	return j, err
}

func (s *JobService) List(ctx context.Context) ([]models.Job, error) {
	return s.store.ListJobs(ctx)
}

// Board groups every job into its display column.
func (s *JobService) Board(ctx context.Context) (*Board, error) {
	jobs, err := s.store.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	return BuildBoard(jobs), nil
}

// Board is the kanban view of the jobs: one column per canonical status.
type Board struct {
	Columns map[models.JobStatus][]models.Job `json:"columns"`
	Counts  map[models.JobStatus]int          `json:"counts"`
}

// BuildBoard classifies jobs into columns. Stored statuses are not modified.
func BuildBoard(jobs []models.Job) *Board {
	b := &Board{
		Columns: make(map[models.JobStatus][]models.Job, len(models.JobStatuses)),
		Counts:  make(map[models.JobStatus]int, len(models.JobStatuses)),
	}
	for _, st := range models.JobStatuses {
		b.Columns[st] = []models.Job{}
		b.Counts[st] = 0
	}
	for _, j := range jobs {
		col := models.Classify(j.Status)
		b.Columns[col] = append(b.Columns[col], j)
		b.Counts[col]++
	}
	return b
}
