package service

import (
	"context"

	"github.com/civicgrid/complaint-service/internal/model"
	"gorm.io/gorm"
)

// ActivityServicer exposes the read side of the audit trail. Writes happen
// inside ComplaintService transactions so records are never reordered
// relative to the mutation that produced them.
type ActivityServicer interface {
	Recent(ctx context.Context, limit int) ([]model.ActivityRecord, error)
	ForComplaint(ctx context.Context, complaintID string) ([]model.ActivityRecord, error)
}

type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// Recent returns the newest records across all complaints.
func (s *ActivityService) Recent(ctx context.Context, limit int) ([]model.ActivityRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	var records []model.ActivityRecord
	err := s.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// ForComplaint returns the full trail for one complaint, oldest first.
func (s *ActivityService) ForComplaint(ctx context.Context, complaintID string) ([]model.ActivityRecord, error) {
	var records []model.ActivityRecord
	err := s.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("created_at ASC, id ASC").
		Find(&records).Error
	return records, err
}
