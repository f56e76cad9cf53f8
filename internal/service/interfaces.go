package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/resolvedesk/backend/internal/models"
	"github.com/resolvedesk/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(user *models.User) (string, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// IComplaintService defines the interface for the complaint lifecycle.
// Every mutating or admin-only call receives the resolved actor identity.
type IComplaintService interface {
	Submit(ctx context.Context, studentID uuid.UUID, req *types.CreateComplaintRequest) (*models.Complaint, error)
	TransitionStatus(ctx context.Context, actor types.Identity, complaintID uuid.UUID, newStatus string) (*models.Complaint, error)
	AttachFeedback(ctx context.Context, actor types.Identity, complaintID uuid.UUID, feedback string) (*models.Complaint, error)
	ListForStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Complaint, error)
	ListAll(ctx context.Context, actor types.Identity) ([]*models.Complaint, error)
	ListFeedback(ctx context.Context, actor types.Identity) ([]*models.Complaint, error)
	History(ctx context.Context, actor types.Identity, complaintID uuid.UUID) ([]*models.StatusHistory, error)
	ComputeAnalytics(ctx context.Context, actor types.Identity) (*types.Analytics, error)
}

// ICategoryService defines the interface for category reference data.
type ICategoryService interface {
	List(ctx context.Context) ([]*models.Category, error)
	Create(ctx context.Context, actor types.Identity, req *types.CreateCategoryRequest) (*models.Category, error)
	Update(ctx context.Context, actor types.Identity, id uuid.UUID, req *types.UpdateCategoryRequest) (*models.Category, error)
	Delete(ctx context.Context, actor types.Identity, id uuid.UUID) error
}
