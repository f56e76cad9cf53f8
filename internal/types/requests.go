package types

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	FullName string `json:"full_name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=student admin"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateComplaintRequest is the body for POST /complaints.
// Priority defaults to medium when omitted.
type CreateComplaintRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category" binding:"required,max=50"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high"`
}

// UpdateStatusRequest is the body for PUT /complaints/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending in_progress resolved"`
}

// AttachFeedbackRequest is the body for PUT /complaints/:id/feedback.
type AttachFeedbackRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

// CreateCategoryRequest is the body for POST /categories.
type CreateCategoryRequest struct {
	Name          string `json:"name" binding:"required,max=100"`
	Description   string `json:"description"`
	Department    string `json:"department" binding:"max=50"`
	PriorityLevel string `json:"priority_level" binding:"omitempty,oneof=low medium high"`
}

// UpdateCategoryRequest is the body for PUT /categories/:id.
type UpdateCategoryRequest struct {
	Name          string `json:"name" binding:"omitempty,max=100"`
	Description   *string `json:"description"`
	Department    *string `json:"department"`
	PriorityLevel string `json:"priority_level" binding:"omitempty,oneof=low medium high"`
	Active        *bool  `json:"active"`
}
