// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"sunseeker/internal/models"

	"gorm.io/gorm"
)

// RequestQuery shapes the log view query. From is an inclusive lower bound
// and Until an exclusive upper bound on created_at; Status filters on the
// derived status expressed over the stored fields.
type RequestQuery struct {
	Status    models.RequestStatus
	From      *time.Time
	Until     *time.Time
	Ascending bool
}

// RequestRepository defines the interface for request data operations
type RequestRepository interface {
	Create(ctx context.Context, request *models.Request) error
	GetByID(ctx context.Context, id uint) (*models.Request, error)
	List(ctx context.Context) ([]*models.Request, error)
	ListFiltered(ctx context.Context, q RequestQuery) ([]*models.Request, error)
	ListVerified(ctx context.Context) ([]*models.Request, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

// requestRepository implements RequestRepository
type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, request *models.Request) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *requestRepository) GetByID(ctx context.Context, id uint) (*models.Request, error) {
	var request models.Request
	if err := r.db.WithContext(ctx).First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Request", id)
		}
		return nil, err
	}
	return &request, nil
}

func (r *requestRepository) List(ctx context.Context) ([]*models.Request, error) {
	var requests []*models.Request
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&requests).Error
	return requests, err
}

func (r *requestRepository) ListFiltered(ctx context.Context, q RequestQuery) ([]*models.Request, error) {
	db := r.applyStatusFilter(r.db.WithContext(ctx), q.Status)
	if q.From != nil {
		db = db.Where("created_at >= ?", *q.From)
	}
	if q.Until != nil {
		db = db.Where("created_at < ?", *q.Until)
	}
	order := "created_at DESC, id DESC"
	if q.Ascending {
		order = "created_at ASC, id ASC"
	}

	var requests []*models.Request
	err := db.Order(order).Find(&requests).Error
	return requests, err
}

// applyStatusFilter compiles the derived status into a WHERE clause over the
// stored fields. "complete" is a conjunction and therefore narrower than "paid".
func (r *requestRepository) applyStatusFilter(db *gorm.DB, status models.RequestStatus) *gorm.DB {
	switch status {
	case models.RequestStatusPending:
		return db.Where("notification_sent = ? AND verified_at IS NULL", false)
	case models.RequestStatusNotified:
		return db.Where("notification_sent = ? AND verified_at IS NULL", true)
	case models.RequestStatusPaid:
		return db.Where("verified_at IS NOT NULL")
	case models.RequestStatusComplete:
		return db.Where("notification_sent_at IS NOT NULL AND verified_at IS NOT NULL")
	default:
		return db
	}
}

func (r *requestRepository) ListVerified(ctx context.Context) ([]*models.Request, error) {
	var requests []*models.Request
	err := r.db.WithContext(ctx).
		Where("verified_at IS NOT NULL").
		Order("verified_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *requestRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Request", id)
	}
	return nil
}

func (r *requestRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Request{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Request", id)
	}
	return nil
}

func (r *requestRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Request{}).Count(&count).Error
	return count, err
}

func (r *requestRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}
