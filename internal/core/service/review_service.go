package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/icisct/conference-system/internal/core/domain"
	"github.com/icisct/conference-system/internal/core/ports"
)

// ReviewService implements the reviewer-facing operations. All of them
// require the requester to be assigned to the paper.
type ReviewService struct {
	papers  ports.PaperRepository
	reviews ports.ReviewRepository
	detail  detailBuilder
	audit   ports.AuditEnqueuer
	logger  zerolog.Logger
}

// detailBuilder is satisfied by PaperService; reviewer detail views reuse the
// same join logic.
type detailBuilder interface {
	Get(ctx context.Context, paperID string) (*ports.PaperDetail, error)
}

func NewReviewService(
	papers ports.PaperRepository,
	reviews ports.ReviewRepository,
	detail detailBuilder,
	audit ports.AuditEnqueuer,
	logger zerolog.Logger,
) *ReviewService {
	return &ReviewService{papers: papers, reviews: reviews, detail: detail, audit: audit, logger: logger}
}

func (s *ReviewService) ListAssigned(ctx context.Context, reviewerID string) ([]domain.Paper, error) {
	return s.papers.ListByReviewer(ctx, reviewerID)
}

func (s *ReviewService) GetForReviewer(ctx context.Context, paperID, reviewerID string) (*ports.PaperDetail, error) {
	paper, err := s.papers.FindByID(ctx, paperID)
	if err != nil {
		return nil, err
	}
	if !assigned(paper, reviewerID) {
		return nil, domain.ErrNotAssigned
	}
	return s.detail.Get(ctx, paperID)
}

// SubmitReview records the reviewer's verdict. A second submission for the
// same paper replaces the first one.
func (s *ReviewService) SubmitReview(ctx context.Context, in ports.SubmitReviewInput) (*domain.Review, error) {
	if in.Comments == "" || !domain.ValidRecommendation(in.Recommendation) {
		return nil, fmt.Errorf("submit review: %w", domain.ErrInvalidTransition)
	}

	paper, err := s.papers.FindByID(ctx, in.PaperID)
	if err != nil {
		return nil, err
	}
	if !assigned(paper, in.ReviewerID) {
		return nil, domain.ErrNotAssigned
	}

	now := time.Now().UTC()
	review := &domain.Review{
		PaperID:        in.PaperID,
		ReviewerID:     in.ReviewerID,
		Comments:       in.Comments,
		Recommendation: in.Recommendation,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	saved, err := s.reviews.Upsert(ctx, review)
	if err != nil {
		return nil, fmt.Errorf("submit review: %w", err)
	}

	if s.audit != nil {
		s.audit.Enqueue(ports.AuditEventInput{
			PaperID:   in.PaperID,
			Action:    domain.AuditReviewSubmitted,
			ActorID:   in.ReviewerID,
			Timestamp: now,
		})
	}
	s.logger.Info().
		Str("paper_id", in.PaperID).
		Str("reviewer_id", in.ReviewerID).
		Str("recommendation", string(in.Recommendation)).
		Msg("review submitted")
	return saved, nil
}

func assigned(paper *domain.Paper, reviewerID string) bool {
	for _, id := range paper.ReviewerIDs {
		if id == reviewerID {
			return true
		}
	}
	return false
}
