package ports

import (
	"context"
	"time"

	"github.com/icisct/conference-system/internal/core/domain"
)

// SubmitPaperInput carries everything needed to submit a new paper.
type SubmitPaperInput struct {
	AuthorID  string
	Title     string
	Abstract  string
	Keywords  []string
	CoAuthors []string
	FileURL   string
}

// ReviewView is a review joined with the reviewer's public summary.
// Reviewer is nil when the account no longer exists.
type ReviewView struct {
	ID             string                `json:"id"`
	PaperID        string                `json:"paperId"`
	ReviewerID     string                `json:"reviewerId"`
	Comments       string                `json:"comments"`
	Recommendation domain.Recommendation `json:"recommendation"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
	Reviewer       *domain.UserSummary   `json:"reviewer,omitempty"`
}

// FeedbackView is a feedback message joined with the sender's public summary.
// Sender is nil when the account no longer exists.
type FeedbackView struct {
	ID        string              `json:"id"`
	PaperID   string              `json:"paperId"`
	SenderID  string              `json:"senderId"`
	Message   string              `json:"message"`
	CreatedAt time.Time           `json:"createdAt"`
	Sender    *domain.UserSummary `json:"sender,omitempty"`
}

// PaperDetail is the full paper view: the paper plus its reviews and the
// feedback thread.
type PaperDetail struct {
	domain.Paper
	Author    *domain.UserSummary `json:"author,omitempty"`
	Reviews   []ReviewView        `json:"reviews"`
	Feedbacks []FeedbackView      `json:"feedbacks"`
}

// PostFeedbackInput carries one feedback message. Sender must be the
// already-authenticated user; the service enforces access to the paper.
type PostFeedbackInput struct {
	PaperID string
	Sender  *domain.User
	Message string
}

// PaperService defines the author-facing and admin-facing paper operations.
type PaperService interface {
	// Author operations.
	Submit(ctx context.Context, in SubmitPaperInput) (*domain.Paper, error)
	ListByAuthor(ctx context.Context, authorID string) ([]domain.Paper, error)
	GetForAuthor(ctx context.Context, paperID, authorID string) (*PaperDetail, error)
	Resubmit(ctx context.Context, paperID, authorID, fileURL string) (*domain.Paper, error)

	// Shared between authors, assigned reviewers, and admins.
	PostFeedback(ctx context.Context, in PostFeedbackInput) (*domain.Feedback, error)

	// Admin operations.
	ListAll(ctx context.Context) ([]domain.Paper, error)
	Get(ctx context.Context, paperID string) (*PaperDetail, error)
	Approve(ctx context.Context, paperID, actorID string) (*domain.Paper, error)
	AssignReviewers(ctx context.Context, paperID, actorID string, reviewerIDs []string) (*domain.Paper, error)
	SetFinalStatus(ctx context.Context, paperID, actorID string, status domain.PaperStatus) (*domain.Paper, error)
	Delete(ctx context.Context, paperID, actorID string) error
}

// SubmitReviewInput carries a reviewer's verdict for a paper.
type SubmitReviewInput struct {
	PaperID        string
	ReviewerID     string
	Comments       string
	Recommendation domain.Recommendation
}

// ReviewService defines the reviewer-facing operations.
type ReviewService interface {
	ListAssigned(ctx context.Context, reviewerID string) ([]domain.Paper, error)
	GetForReviewer(ctx context.Context, paperID, reviewerID string) (*PaperDetail, error)
	SubmitReview(ctx context.Context, in SubmitReviewInput) (*domain.Review, error)
}
