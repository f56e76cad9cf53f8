package service_test

import (
	"bytes"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resolvedesk/backend/internal/models"
	"github.com/resolvedesk/backend/internal/service"
	"github.com/resolvedesk/backend/internal/types"
)

func submitComplaint(t *testing.T, svc *service.ComplaintService, studentID uuid.UUID, category, priority string) *models.Complaint {
	t.Helper()
	complaint, err := svc.Submit(testCtx(), studentID, &types.CreateComplaintRequest{
		Title:       "Broken AC",
		Description: "The AC in room 12 has been broken for a week",
		Category:    category,
		Priority:    priority,
	})
	require.NoError(t, err)
	return complaint
}

func TestSubmitDefaults(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewComplaintService(db, nil)
	student := createTestUser(t, db, models.RoleStudent)

	complaint := submitComplaint(t, svc, student.ID, "hostel", "")

	assert.Equal(t, models.StatusPending, complaint.Status)
	assert.Equal(t, models.PriorityMedium, complaint.Priority)
	assert.Equal(t, student.ID, complaint.StudentID)
	assert.Nil(t, complaint.ResolvedAt)
	assert.Nil(t, complaint.Feedback)
	assert.NotEqual(t, uuid.Nil, complaint.ID)
}

func TestSubmitValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewComplaintService(db, nil)
	student := createTestUser(t, db, models.RoleStudent)

	_, err := svc.Submit(testCtx(), student.ID, &types.CreateComplaintRequest{
		Title:    "No description",
		Category: "hostel",
	})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.Submit(testCtx(), student.ID, &types.CreateComplaintRequest{
		Title:       "Bad priority",
		Description: "x",
		Category:    "hostel",
		Priority:    "urgent",
	})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestTransitionStatusResolve(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewComplaintService(db, nil)
	student := createTestUser(t, db, models.RoleStudent)
	admin := createTestUser(t, db, models.RoleAdmin)

	complaint := submitComplaint(t, svc, student.ID, "hostel", models.PriorityHigh)

	before := time.Now()
	updated, err := svc.TransitionStatus(testCtx(), identityOf(admin), complaint.ID, models.StatusResolved)
	require.NoError(t, err)

	assert.Equal(t, models.StatusResolved, updated.Status)
	require.NotNil(t, updated.ResolvedAt)
	assert.WithinDuration(t, before, *updated.ResolvedAt, 5*time.Second)

	var history []models.StatusHistory
	require.NoError(t, db.Where("complaint_id = ?", complaint.ID).Find(&history).Error)
	require.Len(t, history, 1)
	assert.Equal(t, models.StatusPending, history[0].OldStatus)
	assert.Equal(t, models.StatusResolved, history[0].NewStatus)
	assert.Equal(t, admin.ID, history[0].ChangedBy)
}

func TestTransitionAwayFromResolvedClearsResolvedAt(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewComplaintService(db, nil)
	student := createTestUser(t, db, models.RoleStudent)
	admin := createTestUser(t, db, models.RoleAdmin)

	complaint := submitComplaint(t, svc, student.ID, "hostel", "")
	_, err := svc.TransitionStatus(testCtx(), identityOf(admin), complaint.ID, models.StatusResolved)
	require.NoError(t, err)

	updated, err := svc.TransitionStatus(testCtx(), identityOf(admin), complaint.ID, models.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, updated.Status)
	assert.Nil(t, updated.ResolvedAt)
}

func TestTransitionIdempotentSkipsHistory(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewComplaintService(db, nil)
	student := createTestUser(t, db, models.RoleStudent)
	admin := createTestUser(t, db, models.RoleAdmin)

	complaint := submitComplaint(t, svc, student.ID, "hostel", "")
	firstUpdatedAt := complaint.UpdatedAt

	time.Sleep(10 * time.Millisecond)
	updated, err := svc.TransitionStatus(testCtx(), identityOf(admin), complaint.ID, models.StatusPending)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.StatusHistory{}).Where("complaint_id = ?", complaint.ID).Count(&count).Error)
	assert.Zero(t, count, "same-status transition must not append history")
	assert.True(t, updated.UpdatedAt.After(firstUpdatedAt), "updated_at must still advance")
}

func TestTransitionAuthorization(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewComplaintService(db, nil)
	student := createTestUser(t, db, models.RoleStudent)
	admin := createTestUser(t, db, models.RoleAdmin)

	complaint := submitComplaint(t, svc, student.ID, "hostel", "")

	_, err := svc.TransitionStatus(testCtx(), identityOf(student), complaint.ID, models.StatusResolved)
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = svc.TransitionStatus(testCtx(), identityOf(admin), complaint.ID, "closed")
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.TransitionStatus(testCtx(), identityOf(admin), uuid.New(), models.StatusResolved)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestHistoryFailureDoesNotFailTransition(t *testing.T) {
	db := setupTestDB(t)
	var buf bytes.Buffer
	svc := service.NewComplaintService(db, log.New(&buf, "", 0))
	student := createTestUser(t, db, models.RoleStudent)
	admin := createTestUser(t, db, models.RoleAdmin)

	complaint := submitComplaint(t, svc, student.ID, "hostel", "")

	// Sabotage the history table: the append fails but the transition holds.
	require.NoError(t, db.Migrator().DropTable(&models.StatusHistory{}))

	updated, err := svc.TransitionStatus(testCtx(), identityOf(admin), complaint.ID, models.StatusResolved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, updated.Status)
	assert.Contains(t, buf.String(), "could not record status history")
}

func TestAttachFeedback(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewComplaintService(db, nil)
	student := createTestUser(t, db, models.RoleStudent)
	admin := createTestUser(t, db, models.RoleAdmin)

	complaint := submitComplaint(t, svc, student.ID, "hostel", "")
	_, err := svc.TransitionStatus(testCtx(), identityOf(admin), complaint.ID, models.StatusResolved)
	require.NoError(t, err)

	updated, err := svc.AttachFeedback(testCtx(), identityOf(student), complaint.ID, "Fixed quickly")
	require.NoError(t, err)
	require.NotNil(t, updated.Feedback)
	assert.Equal(t, "Fixed quickly", *updated.Feedback)

	// Write-once.
	_, err = svc.AttachFeedback(testCtx(), identityOf(student), complaint.ID, "Second try")
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestAttachFeedbackOwnership(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewComplaintService(db, nil)
	owner := createTestUser(t, db, models.RoleStudent)
	other := createTestUser(t, db, models.RoleStudent)
	admin := createTestUser(t, db, models.RoleAdmin)

	complaint := submitComplaint(t, svc, owner.ID, "hostel", "")
	_, err := svc.TransitionStatus(testCtx(), identityOf(admin), complaint.ID, models.StatusResolved)
	require.NoError(t, err)

	_, err = svc.AttachFeedback(testCtx(), identityOf(other), complaint.ID, "Not mine")
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = svc.AttachFeedback(testCtx(), identityOf(owner), uuid.New(), "Ghost")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestAttachFeedbackRequiresResolved(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewComplaintService(db, nil)
	student := createTestUser(t, db, models.RoleStudent)

	complaint := submitComplaint(t, svc, student.ID, "hostel", "")

	_, err := svc.AttachFeedback(testCtx(), identityOf(student), complaint.ID, "Too early")
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestFeedbackSurvivesReverseTransition(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewComplaintService(db, nil)
	student := createTestUser(t, db, models.RoleStudent)
	admin := createTestUser(t, db, models.RoleAdmin)

	complaint := submitComplaint(t, svc, student.ID, "hostel", "")
	_, err := svc.TransitionStatus(testCtx(), identityOf(admin), complaint.ID, models.StatusResolved)
	require.NoError(t, err)
	_, err = svc.AttachFeedback(testCtx(), identityOf(student), complaint.ID, "Thanks")
	require.NoError(t, err)

	updated, err := svc.TransitionStatus(testCtx(), identityOf(admin), complaint.ID, models.StatusPending)
	require.NoError(t, err)
	require.NotNil(t, updated.Feedback, "feedback is orthogonal to status")
	assert.Equal(t, "Thanks", *updated.Feedback)
	assert.Nil(t, updated.ResolvedAt)
}

func TestListForStudentOrdering(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewComplaintService(db, nil)
	student := createTestUser(t, db, models.RoleStudent)
	other := createTestUser(t, db, models.RoleStudent)

	first := submitComplaint(t, svc, student.ID, "hostel", "")
	time.Sleep(10 * time.Millisecond)
	second := submitComplaint(t, svc, student.ID, "canteen", "")
	submitComplaint(t, svc, other.ID, "library", "")

	complaints, err := svc.ListForStudent(testCtx(), student.ID)
	require.NoError(t, err)
	require.Len(t, complaints, 2)
	assert.Equal(t, second.ID, complaints[0].ID, "newest first")
	assert.Equal(t, first.ID, complaints[1].ID)
}

func TestListAllRequiresAdmin(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewComplaintService(db, nil)
	student := createTestUser(t, db, models.RoleStudent)
	admin := createTestUser(t, db, models.RoleAdmin)

	submitComplaint(t, svc, student.ID, "hostel", "")

	_, err := svc.ListAll(testCtx(), identityOf(student))
	assert.ErrorIs(t, err, service.ErrForbidden)

	complaints, err := svc.ListAll(testCtx(), identityOf(admin))
	require.NoError(t, err)
	assert.Len(t, complaints, 1)
}

func TestListFeedback(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewComplaintService(db, nil)
	student := createTestUser(t, db, models.RoleStudent)
	admin := createTestUser(t, db, models.RoleAdmin)

	withFeedback := submitComplaint(t, svc, student.ID, "hostel", "")
	submitComplaint(t, svc, student.ID, "canteen", "")

	_, err := svc.TransitionStatus(testCtx(), identityOf(admin), withFeedback.ID, models.StatusResolved)
	require.NoError(t, err)
	_, err = svc.AttachFeedback(testCtx(), identityOf(student), withFeedback.ID, "Great")
	require.NoError(t, err)

	list, err := svc.ListFeedback(testCtx(), identityOf(admin))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, withFeedback.ID, list[0].ID)

	_, err = svc.ListFeedback(testCtx(), identityOf(student))
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestHistoryListing(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewComplaintService(db, nil)
	student := createTestUser(t, db, models.RoleStudent)
	admin := createTestUser(t, db, models.RoleAdmin)

	complaint := submitComplaint(t, svc, student.ID, "hostel", "")
	_, err := svc.TransitionStatus(testCtx(), identityOf(admin), complaint.ID, models.StatusInProgress)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	_, err = svc.TransitionStatus(testCtx(), identityOf(admin), complaint.ID, models.StatusResolved)
	require.NoError(t, err)

	entries, err := svc.History(testCtx(), identityOf(admin), complaint.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.StatusPending, entries[0].OldStatus)
	assert.Equal(t, models.StatusInProgress, entries[0].NewStatus)
	assert.Equal(t, models.StatusResolved, entries[1].NewStatus)

	_, err = svc.History(testCtx(), identityOf(admin), uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = svc.History(testCtx(), identityOf(student), complaint.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestComputeAnalyticsEmpty(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewComplaintService(db, nil)
	admin := createTestUser(t, db, models.RoleAdmin)

	analytics, err := svc.ComputeAnalytics(testCtx(), identityOf(admin))
	require.NoError(t, err)

	assert.Zero(t, analytics.Total)
	assert.Empty(t, analytics.ByStatus)
	assert.Empty(t, analytics.ByCategory)
	assert.Empty(t, analytics.ByPriority)
	assert.Nil(t, analytics.AvgResolutionHours)
	assert.Empty(t, analytics.RecentTimeline)
}

func TestComputeAnalytics(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewComplaintService(db, nil)
	student := createTestUser(t, db, models.RoleStudent)
	admin := createTestUser(t, db, models.RoleAdmin)

	submitComplaint(t, svc, student.ID, "hostel", models.PriorityHigh)
	submitComplaint(t, svc, student.ID, "hostel", models.PriorityLow)
	resolved := submitComplaint(t, svc, student.ID, "canteen", "")

	// Backdate the resolved complaint two hours so the average is non-trivial.
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, db.Model(&models.Complaint{}).
		Where("id = ?", resolved.ID).
		Update("created_at", past).Error)

	_, err := svc.TransitionStatus(testCtx(), identityOf(admin), resolved.ID, models.StatusResolved)
	require.NoError(t, err)

	analytics, err := svc.ComputeAnalytics(testCtx(), identityOf(admin))
	require.NoError(t, err)

	assert.Equal(t, int64(3), analytics.Total)

	var statusSum, prioritySum int64
	for _, n := range analytics.ByStatus {
		statusSum += n
	}
	for _, n := range analytics.ByPriority {
		prioritySum += n
	}
	assert.Equal(t, analytics.Total, statusSum, "byStatus must sum to total")
	assert.Equal(t, analytics.Total, prioritySum, "byPriority must sum to total")

	assert.Equal(t, int64(2), analytics.ByStatus[models.StatusPending])
	assert.Equal(t, int64(1), analytics.ByStatus[models.StatusResolved])
	assert.Equal(t, int64(1), analytics.ByPriority[models.PriorityHigh])
	assert.Equal(t, int64(1), analytics.ByPriority[models.PriorityMedium])

	require.Len(t, analytics.ByCategory, 2)
	assert.Equal(t, "hostel", analytics.ByCategory[0].Category, "sorted by count descending")
	assert.Equal(t, int64(2), analytics.ByCategory[0].Count)

	require.NotNil(t, analytics.AvgResolutionHours)
	assert.InDelta(t, 2.0, *analytics.AvgResolutionHours, 0.1)

	require.NotEmpty(t, analytics.RecentTimeline)
	var timelineSum int64
	for _, point := range analytics.RecentTimeline {
		timelineSum += point.Count
	}
	assert.Equal(t, int64(3), timelineSum)

	_, err = svc.ComputeAnalytics(testCtx(), identityOf(student))
	assert.ErrorIs(t, err, service.ErrForbidden)
}
