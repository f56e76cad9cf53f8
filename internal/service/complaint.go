package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/resolvedesk/backend/internal/models"
	"github.com/resolvedesk/backend/internal/types"
)

// ComplaintService owns the only code paths that mutate a complaint's
// status, feedback and resolved_at, and the only path that aggregates
// complaints into analytics.
type ComplaintService struct {
	db     *gorm.DB
	logger *log.Logger
}

// NewComplaintService creates a complaint service. The logger receives
// non-fatal events such as failed history appends; pass nil to use the
// default logger.
func NewComplaintService(db *gorm.DB, logger *log.Logger) *ComplaintService {
	if logger == nil {
		logger = log.Default()
	}
	return &ComplaintService{
		db:     db,
		logger: logger,
	}
}

func (s *ComplaintService) Submit(ctx context.Context, studentID uuid.UUID, req *types.CreateComplaintRequest) (*models.Complaint, error) {
	if req.Title == "" || req.Description == "" || req.Category == "" {
		return nil, fmt.Errorf("%w: title, description and category are required", ErrValidation)
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, priority)
	}

	complaint := models.Complaint{
		StudentID:   studentID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    priority,
		Status:      models.StatusPending,
	}
	if err := s.db.WithContext(ctx).Create(&complaint).Error; err != nil {
		return nil, fmt.Errorf("failed to create complaint: %w", err)
	}

	return &complaint, nil
}

// TransitionStatus applies an admin-initiated status change. Any status may
// move to any other status. The primary row update is the atomic unit of
// visibility; the history append is best-effort and never rolls it back.
func (s *ComplaintService) TransitionStatus(ctx context.Context, actor types.Identity, complaintID uuid.UUID, newStatus string) (*models.Complaint, error) {
	if actor.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: status changes require the admin role", ErrForbidden)
	}
	if !models.ValidStatus(newStatus) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, newStatus)
	}

	var complaint models.Complaint
	if err := s.db.WithContext(ctx).First(&complaint, "id = ?", complaintID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load complaint: %w", err)
	}

	oldStatus := complaint.Status
	now := time.Now()
	updates := map[string]interface{}{
		"status":      newStatus,
		"updated_at":  now,
		"resolved_at": nil,
	}
	if newStatus == models.StatusResolved {
		updates["resolved_at"] = now
	}

	if err := s.db.WithContext(ctx).Model(&models.Complaint{}).
		Where("id = ?", complaintID).
		Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	if oldStatus != newStatus {
		history := models.StatusHistory{
			ComplaintID: complaintID,
			OldStatus:   oldStatus,
			NewStatus:   newStatus,
			ChangedBy:   actor.ID,
			ChangedAt:   now,
		}
		if err := s.db.WithContext(ctx).Create(&history).Error; err != nil {
			// History is an audit convenience, not part of the transition
			// contract: log and move on.
			s.logger.Printf("could not record status history for complaint %s: %v", complaintID, err)
		}
	}

	if err := s.db.WithContext(ctx).First(&complaint, "id = ?", complaintID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload complaint: %w", err)
	}
	return &complaint, nil
}

// AttachFeedback stores the owner's closing remark on a resolved complaint.
// Feedback is write-once and is not cleared by later status changes.
func (s *ComplaintService) AttachFeedback(ctx context.Context, actor types.Identity, complaintID uuid.UUID, feedback string) (*models.Complaint, error) {
	if feedback == "" {
		return nil, fmt.Errorf("%w: feedback text is required", ErrValidation)
	}

	var complaint models.Complaint
	if err := s.db.WithContext(ctx).First(&complaint, "id = ?", complaintID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load complaint: %w", err)
	}

	if complaint.StudentID != actor.ID {
		return nil, fmt.Errorf("%w: only the submitting student may leave feedback", ErrForbidden)
	}
	if complaint.Status != models.StatusResolved {
		return nil, fmt.Errorf("%w: feedback requires a resolved complaint", ErrValidation)
	}
	if complaint.Feedback != nil {
		return nil, fmt.Errorf("%w: feedback has already been submitted", ErrValidation)
	}

	if err := s.db.WithContext(ctx).Model(&complaint).Update("feedback", feedback).Error; err != nil {
		return nil, fmt.Errorf("failed to store feedback: %w", err)
	}

	complaint.Feedback = &feedback
	return &complaint, nil
}

func (s *ComplaintService) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Complaint, error) {
	var complaints []*models.Complaint
	if err := s.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&complaints).Error; err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	return complaints, nil
}

func (s *ComplaintService) ListAll(ctx context.Context, actor types.Identity) ([]*models.Complaint, error) {
	if actor.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: listing all complaints requires the admin role", ErrForbidden)
	}
	var complaints []*models.Complaint
	if err := s.db.WithContext(ctx).
		Preload("Student").
		Order("created_at DESC").
		Find(&complaints).Error; err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	return complaints, nil
}

// ListFeedback returns complaints that carry student feedback, newest first.
func (s *ComplaintService) ListFeedback(ctx context.Context, actor types.Identity) ([]*models.Complaint, error) {
	if actor.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: reviewing feedback requires the admin role", ErrForbidden)
	}
	var complaints []*models.Complaint
	if err := s.db.WithContext(ctx).
		Preload("Student").
		Where("feedback IS NOT NULL").
		Order("created_at DESC").
		Find(&complaints).Error; err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return complaints, nil
}

// History returns the status transition log of one complaint, oldest first.
func (s *ComplaintService) History(ctx context.Context, actor types.Identity, complaintID uuid.UUID) ([]*models.StatusHistory, error) {
	if actor.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: status history requires the admin role", ErrForbidden)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Complaint{}).
		Where("id = ?", complaintID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check complaint: %w", err)
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	var entries []*models.StatusHistory
	if err := s.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("changed_at ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to load status history: %w", err)
	}
	return entries, nil
}

// ComputeAnalytics derives aggregate statistics over the full complaint set.
// Group-by counts run in SQL; the resolution average and the creation
// timeline are folded in Go so the same queries run on Postgres and SQLite.
func (s *ComplaintService) ComputeAnalytics(ctx context.Context, actor types.Identity) (*types.Analytics, error) {
	if actor.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: analytics require the admin role", ErrForbidden)
	}

	analytics := &types.Analytics{
		ByStatus:       map[string]int64{},
		ByCategory:     []types.CategoryCount{},
		ByPriority:     map[string]int64{},
		RecentTimeline: []types.TimelinePoint{},
	}

	query := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.Complaint{})
	}

	if err := query().Count(&analytics.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count complaints: %w", err)
	}

	var statusRows []struct {
		Status string
		Count  int64
	}
	if err := query().
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusRows).Error; err != nil {
		return nil, fmt.Errorf("failed to group by status: %w", err)
	}
	for _, row := range statusRows {
		analytics.ByStatus[row.Status] = row.Count
	}

	var categoryRows []struct {
		Category string
		Count    int64
	}
	if err := query().
		Select("category, count(*) as count").
		Group("category").
		Order("count DESC, category ASC").
		Scan(&categoryRows).Error; err != nil {
		return nil, fmt.Errorf("failed to group by category: %w", err)
	}
	for _, row := range categoryRows {
		analytics.ByCategory = append(analytics.ByCategory, types.CategoryCount{
			Category: row.Category,
			Count:    row.Count,
		})
	}

	var priorityRows []struct {
		Priority string
		Count    int64
	}
	if err := query().
		Select("priority, count(*) as count").
		Group("priority").
		Scan(&priorityRows).Error; err != nil {
		return nil, fmt.Errorf("failed to group by priority: %w", err)
	}
	for _, row := range priorityRows {
		analytics.ByPriority[row.Priority] = row.Count
	}

	var resolvedRows []struct {
		CreatedAt  time.Time
		ResolvedAt time.Time
	}
	if err := query().
		Select("created_at, resolved_at").
		Where("status = ? AND resolved_at IS NOT NULL", models.StatusResolved).
		Scan(&resolvedRows).Error; err != nil {
		return nil, fmt.Errorf("failed to load resolved complaints: %w", err)
	}
	if len(resolvedRows) > 0 {
		var totalHours float64
		for _, row := range resolvedRows {
			totalHours += row.ResolvedAt.Sub(row.CreatedAt).Hours()
		}
		avg := totalHours / float64(len(resolvedRows))
		analytics.AvgResolutionHours = &avg
	}

	cutoff := time.Now().AddDate(0, 0, -7)
	var recent []time.Time
	if err := query().
		Where("created_at >= ?", cutoff).
		Pluck("created_at", &recent).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent complaints: %w", err)
	}
	perDay := map[string]int64{}
	for _, created := range recent {
		perDay[created.Format("2006-01-02")]++
	}
	days := make([]string, 0, len(perDay))
	for day := range perDay {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		analytics.RecentTimeline = append(analytics.RecentTimeline, types.TimelinePoint{
			Date:  day,
			Count: perDay[day],
		})
	}

	return analytics, nil
}
