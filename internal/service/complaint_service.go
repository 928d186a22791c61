package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/civicgrid/complaint-service/internal/errs"
	"github.com/civicgrid/complaint-service/internal/lifecycle"
	"github.com/civicgrid/complaint-service/internal/model"
	"github.com/civicgrid/complaint-service/internal/routing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// voteRetries bounds the optimistic priority-recompute loop before the
// conflict is surfaced to the caller.
const voteRetries = 3

// ComplaintServicer is the interface handlers depend on.
type ComplaintServicer interface {
	Create(ctx context.Context, in CreateComplaintInput) (*model.Complaint, error)
	GetByID(ctx context.Context, id string) (*model.Complaint, error)
	List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]model.Complaint, int64, error)
	Transition(ctx context.Context, id string, to model.ComplaintStatus, actor string) (*model.Complaint, error)
	Assign(ctx context.Context, id, department, actor string) (*model.Complaint, error)
	RegisterVote(ctx context.Context, id, voterID string) (*model.Complaint, error)
	AddComment(ctx context.Context, id, author, text string) (*model.Comment, error)
	AddNote(ctx context.Context, id, author, text string) (*model.ActivityRecord, error)
	Analytics(ctx context.Context) (*AnalyticsSummary, error)
}

// CreateComplaintInput carries everything the intake pipeline needs.
type CreateComplaintInput struct {
	Description      string
	Location         string
	PhotoRef         string
	SubmittedBy      string
	Severity         int
	CategoryOverride string
}

// AnalyticsSummary aggregates complaint counts for the dashboard.
type AnalyticsSummary struct {
	Total         int64            `json:"total_complaints"`
	ByCategory    map[string]int64 `json:"category_counts"`
	ByStatus      map[string]int64 `json:"status_counts"`
	ResolvedCount int64            `json:"resolved_count"`
	PendingCount  int64            `json:"pending_count"`
}

// ComplaintService implements ComplaintServicer on top of gorm. Per-complaint
// mutations use optimistic locking (lock_version / re-checked predicates) so
// concurrent writers get errs.ErrConflict instead of silently losing updates.
type ComplaintService struct {
	db       *gorm.DB
	engine   *routing.Engine
	priority lifecycle.PriorityConfig
	now      func() time.Time
}

// NewComplaintService wires the service. The routing engine is consulted
// synchronously on Create so every complaint is routed before persistence.
func NewComplaintService(db *gorm.DB, engine *routing.Engine, priority lifecycle.PriorityConfig) *ComplaintService {
	return &ComplaintService{db: db, engine: engine, priority: priority, now: time.Now}
}

// Create classifies and routes the complaint, persists it, and performs the
// automatic new -> in_review transition. The classified and status_changed
// activity records are written in the same transaction as the complaint.
func (s *ComplaintService) Create(ctx context.Context, in CreateComplaintInput) (*model.Complaint, error) {
	if strings.TrimSpace(in.SubmittedBy) == "" {
		in.SubmittedBy = "anonymous"
	}

	routed := s.engine.Route(in.Description, in.CategoryOverride)
	severity := lifecycle.IntakeSeverity(in.Description, in.Severity)
	now := s.now().UTC()

	c := &model.Complaint{
		ID:            uuid.NewString(),
		Description:   in.Description,
		Location:      in.Location,
		PhotoRef:      in.PhotoRef,
		SubmittedBy:   in.SubmittedBy,
		Category:      routed.Category,
		Confidence:    routed.Confidence,
		NeedsReview:   routed.NeedsReview,
		Department:    routed.Department,
		Status:        model.StatusInReview,
		Severity:      severity,
		PriorityScore: s.priority.Score(routed.Category, 0, severity, 0),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		records := []model.ActivityRecord{
			{
				ComplaintID: c.ID,
				Actor:       model.ActorSystem,
				Kind:        model.ActivityClassified,
				Detail:      fmt.Sprintf("category=%s department=%s confidence=%.2f source=%s", routed.Category, routed.Department, routed.Confidence, routed.Source),
				CreatedAt:   now,
			},
			{
				ComplaintID: c.ID,
				Actor:       model.ActorSystem,
				Kind:        model.ActivityStatusChanged,
				Detail:      fmt.Sprintf("%s -> %s", model.StatusNew, model.StatusInReview),
				CreatedAt:   now,
			},
		}
		return tx.Create(&records).Error
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID loads a complaint with its comments and admin notes.
func (s *ComplaintService) GetByID(ctx context.Context, id string) (*model.Complaint, error) {
	var c model.Complaint
	err := s.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("AdminNotes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&c, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrComplaintNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List returns complaints matching the filter, newest first, with the total
// count before pagination.
func (s *ComplaintService) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]model.Complaint, int64, error) {
	var items []model.Complaint
	var total int64
	tx := s.db.WithContext(ctx).Model(&model.Complaint{})
	for k, v := range filter {
		tx = tx.Where(k, v)
	}
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if offset > 0 {
		tx = tx.Offset(offset)
	}
	if err := tx.Order("priority_score DESC, created_at DESC").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Transition applies a staff status change. Invalid transitions are rejected
// with errs.ErrInvalidTransition and the complaint is left untouched; a lost
// race on lock_version surfaces as errs.ErrConflict.
func (s *ComplaintService) Transition(ctx context.Context, id string, to model.ComplaintStatus, actor string) (*model.Complaint, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.Validate(c.Status, to); err != nil {
		return nil, err
	}
	if to == model.StatusAssigned && c.Department == "" {
		return nil, fmt.Errorf("%w: cannot assign without a department", errs.ErrInvalidTransition)
	}

	from := c.Status
	now := s.now().UTC()
	changes := map[string]interface{}{
		"status":       to,
		"lock_version": c.LockVersion + 1,
	}
	if lifecycle.Terminal(to) {
		changes["resolved_at"] = now
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Complaint{}).
			Where("id = ? AND lock_version = ?", id, c.LockVersion).
			Updates(changes)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.ErrConflict
		}
		return tx.Create(&model.ActivityRecord{
			ComplaintID: id,
			Actor:       actor,
			Kind:        model.ActivityStatusChanged,
			Detail:      fmt.Sprintf("%s -> %s", from, to),
			CreatedAt:   now,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Assign moves the complaint to another department. Terminal complaints can
// no longer be reassigned.
func (s *ComplaintService) Assign(ctx context.Context, id, department, actor string) (*model.Complaint, error) {
	if department == "" {
		return nil, fmt.Errorf("department is required")
	}
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lifecycle.Terminal(c.Status) {
		return nil, fmt.Errorf("%w: cannot reassign a %s complaint", errs.ErrComplaintClosed, c.Status)
	}

	from := c.Department
	now := s.now().UTC()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Complaint{}).
			Where("id = ? AND lock_version = ?", id, c.LockVersion).
			Updates(map[string]interface{}{
				"department":   department,
				"needs_review": false,
				"lock_version": c.LockVersion + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.ErrConflict
		}
		return tx.Create(&model.ActivityRecord{
			ComplaintID: id,
			Actor:       actor,
			Kind:        model.ActivityReassigned,
			Detail:      fmt.Sprintf("%s -> %s", from, department),
			CreatedAt:   now,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// RegisterVote records one vote per voter, increments the vote count
// atomically and recomputes the priority score. A repeat vote returns
// errs.ErrDuplicateVote and changes nothing.
func (s *ComplaintService) RegisterVote(ctx context.Context, id, voterID string) (*model.Complaint, error) {
	if voterID == "" {
		return nil, fmt.Errorf("voter id is required")
	}
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lifecycle.Terminal(c.Status) {
		return nil, fmt.Errorf("%w: cannot vote on a %s complaint", errs.ErrComplaintClosed, c.Status)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&model.Vote{}).
			Where("complaint_id = ? AND voter_id = ?", id, voterID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return errs.ErrDuplicateVote
		}
		if err := tx.Create(&model.Vote{ComplaintID: id, VoterID: voterID, CreatedAt: s.now().UTC()}).Error; err != nil {
			// The unique index catches the race the pre-check missed.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errs.ErrDuplicateVote
			}
			return err
		}
		return tx.Model(&model.Complaint{}).
			Where("id = ?", id).
			UpdateColumn("vote_count", gorm.Expr("vote_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return s.recomputePriority(ctx, id)
}

// recomputePriority re-reads the complaint and writes the score derived from
// the current vote count. The write is guarded on vote_count so a concurrent
// voter forces a re-read instead of a stale score.
func (s *ComplaintService) recomputePriority(ctx context.Context, id string) (*model.Complaint, error) {
	for attempt := 0; attempt < voteRetries; attempt++ {
		c, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		age := s.now().UTC().Sub(c.CreatedAt)
		score := s.priority.Score(c.Category, c.VoteCount, c.Severity, age)

		res := s.db.WithContext(ctx).Model(&model.Complaint{}).
			Where("id = ? AND vote_count = ?", id, c.VoteCount).
			UpdateColumn("priority_score", score)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected > 0 {
			c.PriorityScore = score
			return c, nil
		}
	}
	return nil, errs.ErrConflict
}

// AddComment appends a citizen comment. Comments are append-only and carry no
// activity record of their own.
func (s *ComplaintService) AddComment(ctx context.Context, id, author, text string) (*model.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("comment text is required")
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if author == "" {
		author = "anonymous"
	}
	comment := &model.Comment{
		ID:          uuid.NewString(),
		ComplaintID: id,
		Author:      author,
		Text:        text,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// AddNote appends a staff note and returns the note_added activity record
// written alongside it.
func (s *ComplaintService) AddNote(ctx context.Context, id, author, text string) (*model.ActivityRecord, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("note text is required")
	}
	if author == "" {
		return nil, fmt.Errorf("actor id is required")
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	record := &model.ActivityRecord{
		ComplaintID: id,
		Actor:       author,
		Kind:        model.ActivityNoteAdded,
		Detail:      text,
		CreatedAt:   now,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		note := &model.AdminNote{
			ID:          uuid.NewString(),
			ComplaintID: id,
			Author:      author,
			Text:        text,
			CreatedAt:   now,
		}
		if err := tx.Create(note).Error; err != nil {
			return err
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Analytics aggregates complaint counts by category and status.
func (s *ComplaintService) Analytics(ctx context.Context) (*AnalyticsSummary, error) {
	summary := &AnalyticsSummary{
		ByCategory: make(map[string]int64),
		ByStatus:   make(map[string]int64),
	}
	db := s.db.WithContext(ctx).Model(&model.Complaint{})
	if err := db.Count(&summary.Total).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Key   string
		Count int64
	}
	var byCategory []bucket
	if err := s.db.WithContext(ctx).Model(&model.Complaint{}).
		Select("category AS key, COUNT(*) AS count").
		Group("category").Scan(&byCategory).Error; err != nil {
		return nil, err
	}
	for _, b := range byCategory {
		summary.ByCategory[b.Key] = b.Count
	}

	var byStatus []bucket
	if err := s.db.WithContext(ctx).Model(&model.Complaint{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, b := range byStatus {
		summary.ByStatus[b.Key] = b.Count
	}

	summary.ResolvedCount = summary.ByStatus[string(model.StatusResolved)]
	summary.PendingCount = summary.Total - summary.ResolvedCount - summary.ByStatus[string(model.StatusRejected)]
	return summary, nil
}
