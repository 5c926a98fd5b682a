package ports

import (
	"context"
	"time"

	"github.com/icisct/conference-system/internal/core/domain"
)

// PaperRepository defines paper persistence.
type PaperRepository interface {
	Create(ctx context.Context, paper *domain.Paper) (*domain.Paper, error)
	FindByID(ctx context.Context, id string) (*domain.Paper, error)
	ListByAuthor(ctx context.Context, authorID string) ([]domain.Paper, error)
	ListByReviewer(ctx context.Context, reviewerID string) ([]domain.Paper, error)
	ListAll(ctx context.Context) ([]domain.Paper, error)
	UpdateStatus(ctx context.Context, id string, status domain.PaperStatus, at time.Time) error
	SetReviewers(ctx context.Context, id string, reviewerIDs []string, status domain.PaperStatus, at time.Time) error
	UpdateFile(ctx context.Context, id, fileURL string, status domain.PaperStatus, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// ReviewRepository defines review persistence. Upsert keys on
// (paper_id, reviewer_id) so a reviewer holds at most one review per paper.
type ReviewRepository interface {
	Upsert(ctx context.Context, review *domain.Review) (*domain.Review, error)
	ListByPaper(ctx context.Context, paperID string) ([]domain.Review, error)
	DeleteByPaper(ctx context.Context, paperID string) error
}

// FeedbackRepository defines feedback-thread persistence.
type FeedbackRepository interface {
	Create(ctx context.Context, fb *domain.Feedback) (*domain.Feedback, error)
	ListByPaper(ctx context.Context, paperID string) ([]domain.Feedback, error)
	DeleteByPaper(ctx context.Context, paperID string) error
}

// AuditRepository defines audit-trail persistence.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
	ListByPaper(ctx context.Context, paperID string) ([]domain.AuditEvent, error)
}
