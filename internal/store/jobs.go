package store

import (
	"context"

	"github.com/diewo77/commcentre/internal/models"
)

func (s *Store) CreateJob(ctx context.Context, j *models.Job) error {
	return s.conn(ctx).Create(j).Error
}

func (s *Store) GetJob(ctx context.Context, id uint) (*models.Job, error) {
	var j models.Job
	if err := s.conn(ctx).First(&j, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &j, nil
}

// UpdateJob saves every column of j, including zero values.
func (s *Store) UpdateJob(ctx context.Context, j *models.Job) error {
	res := s.conn(ctx).Model(&models.Job{}).Where("id = ?", j.ID).Select("*").Updates(j)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteJob(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&models.Job{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListJobs(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	err := s.conn(ctx).Order("id asc").Find(&jobs).Error
	return jobs, err
}

// JobsWithStatus returns up to limit jobs whose stored status is one of
// statuses. A limit <= 0 means no limit.
func (s *Store) JobsWithStatus(ctx context.Context, limit int, statuses ...models.JobStatus) ([]models.Job, error) {
	q := s.conn(ctx).Where("status IN ?", statuses).Order("id asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var jobs []models.Job
	err := q.Find(&jobs).Error
	return jobs, err
}

func (s *Store) CountJobsWithStatus(ctx context.Context, status models.JobStatus) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Job{}).Where("status = ?", status).Count(&n).Error
	return n, err
}
