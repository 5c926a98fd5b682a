package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/icisct/conference-system/internal/core/domain"
	"github.com/icisct/conference-system/internal/core/ports"
)

// PaperService implements the author-facing and admin-facing paper workflow.
type PaperService struct {
	papers    ports.PaperRepository
	users     ports.UserRepository
	reviews   ports.ReviewRepository
	feedbacks ports.FeedbackRepository
	audit     ports.AuditEnqueuer
	logger    zerolog.Logger
}

func NewPaperService(
	papers ports.PaperRepository,
	users ports.UserRepository,
	reviews ports.ReviewRepository,
	feedbacks ports.FeedbackRepository,
	audit ports.AuditEnqueuer,
	logger zerolog.Logger,
) *PaperService {
	return &PaperService{
		papers:    papers,
		users:     users,
		reviews:   reviews,
		feedbacks: feedbacks,
		audit:     audit,
		logger:    logger,
	}
}

// Submit creates a new paper in PENDING_APPROVAL.
func (s *PaperService) Submit(ctx context.Context, in ports.SubmitPaperInput) (*domain.Paper, error) {
	now := time.Now().UTC()
	paper := &domain.Paper{
		Title:       in.Title,
		Abstract:    in.Abstract,
		Keywords:    in.Keywords,
		CoAuthors:   in.CoAuthors,
		FileURL:     in.FileURL,
		AuthorID:    in.AuthorID,
		Status:      domain.StatusPendingApproval,
		ReviewerIDs: []string{},
		SubmittedAt: now,
		UpdatedAt:   now,
	}

	created, err := s.papers.Create(ctx, paper)
	if err != nil {
		s.logger.Error().Err(err).Str("author_id", in.AuthorID).Msg("failed to create paper")
		return nil, err
	}

	s.enqueueAudit(created.ID, domain.AuditPaperSubmitted, in.AuthorID, "", created.Status)
	s.logger.Info().Str("paper_id", created.ID).Str("author_id", in.AuthorID).Msg("paper submitted")
	return created, nil
}

func (s *PaperService) ListByAuthor(ctx context.Context, authorID string) ([]domain.Paper, error) {
	return s.papers.ListByAuthor(ctx, authorID)
}

// GetForAuthor returns the full paper view, enforcing that the requester owns it.
func (s *PaperService) GetForAuthor(ctx context.Context, paperID, authorID string) (*ports.PaperDetail, error) {
	paper, err := s.papers.FindByID(ctx, paperID)
	if err != nil {
		return nil, err
	}
	if paper.AuthorID != authorID {
		return nil, domain.ErrForbidden
	}
	return s.buildDetail(ctx, paper)
}

// Resubmit replaces the paper file after a revision verdict and moves the
// paper to RESUBMITTED.
func (s *PaperService) Resubmit(ctx context.Context, paperID, authorID, fileURL string) (*domain.Paper, error) {
	paper, err := s.papers.FindByID(ctx, paperID)
	if err != nil {
		return nil, err
	}
	if paper.AuthorID != authorID {
		return nil, domain.ErrForbidden
	}
	if !paper.Status.CanTransitionTo(domain.StatusResubmitted) {
		return nil, fmt.Errorf("resubmit: %w (from %s)", domain.ErrInvalidTransition, paper.Status)
	}

	now := time.Now().UTC()
	if err := s.papers.UpdateFile(ctx, paperID, fileURL, domain.StatusResubmitted, now); err != nil {
		return nil, fmt.Errorf("resubmit: %w", err)
	}

	s.enqueueAudit(paperID, domain.AuditPaperResubmitted, authorID, paper.Status, domain.StatusResubmitted)
	s.logger.Info().Str("paper_id", paperID).Msg("paper resubmitted")

	paper.FileURL = fileURL
	paper.Status = domain.StatusResubmitted
	paper.UpdatedAt = now
	return paper, nil
}

// PostFeedback appends a message to the paper's discussion thread. Access is
// granted to the paper's author, its assigned reviewers, and admins.
func (s *PaperService) PostFeedback(ctx context.Context, in ports.PostFeedbackInput) (*domain.Feedback, error) {
	if in.Sender == nil {
		return nil, domain.ErrForbidden
	}

	paper, err := s.papers.FindByID(ctx, in.PaperID)
	if err != nil {
		return nil, err
	}
	if !canDiscuss(paper, in.Sender) {
		return nil, domain.ErrForbidden
	}

	fb := &domain.Feedback{
		PaperID:   in.PaperID,
		SenderID:  in.Sender.ID,
		Message:   in.Message,
		CreatedAt: time.Now().UTC(),
	}
	created, err := s.feedbacks.Create(ctx, fb)
	if err != nil {
		return nil, fmt.Errorf("post feedback: %w", err)
	}
	return created, nil
}

func (s *PaperService) ListAll(ctx context.Context) ([]domain.Paper, error) {
	return s.papers.ListAll(ctx)
}

func (s *PaperService) Get(ctx context.Context, paperID string) (*ports.PaperDetail, error) {
	paper, err := s.papers.FindByID(ctx, paperID)
	if err != nil {
		return nil, err
	}
	return s.buildDetail(ctx, paper)
}

// Approve moves PENDING_APPROVAL to PENDING_REVIEW.
func (s *PaperService) Approve(ctx context.Context, paperID, actorID string) (*domain.Paper, error) {
	return s.transition(ctx, paperID, actorID, domain.StatusPendingReview, domain.AuditPaperApproved)
}

// AssignReviewers attaches reviewers to a paper and moves it to UNDER_REVIEW.
// Every id must belong to a REVIEWER account.
func (s *PaperService) AssignReviewers(ctx context.Context, paperID, actorID string, reviewerIDs []string) (*domain.Paper, error) {
	if len(reviewerIDs) == 0 {
		return nil, domain.ErrUserNotFound
	}

	paper, err := s.papers.FindByID(ctx, paperID)
	if err != nil {
		return nil, err
	}
	if !paper.Status.CanTransitionTo(domain.StatusUnderReview) {
		return nil, fmt.Errorf("assign reviewers: %w (from %s)", domain.ErrInvalidTransition, paper.Status)
	}

	for _, id := range reviewerIDs {
		reviewer, err := s.users.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("assign reviewers: %w", err)
		}
		if reviewer.Role != domain.RoleReviewer {
			return nil, domain.ErrUserNotFound
		}
	}

	now := time.Now().UTC()
	if err := s.papers.SetReviewers(ctx, paperID, reviewerIDs, domain.StatusUnderReview, now); err != nil {
		return nil, fmt.Errorf("assign reviewers: %w", err)
	}

	s.enqueueAudit(paperID, domain.AuditReviewersAssigned, actorID, paper.Status, domain.StatusUnderReview)
	s.logger.Info().Str("paper_id", paperID).Int("reviewers", len(reviewerIDs)).Msg("reviewers assigned")

	paper.ReviewerIDs = reviewerIDs
	paper.Status = domain.StatusUnderReview
	paper.UpdatedAt = now
	return paper, nil
}

// SetFinalStatus records the admin's decision: ACCEPTED, REJECTED, or
// REVISION_REQUIRED.
func (s *PaperService) SetFinalStatus(ctx context.Context, paperID, actorID string, status domain.PaperStatus) (*domain.Paper, error) {
	if !status.IsFinal() {
		return nil, fmt.Errorf("set final status: %w (to %s)", domain.ErrInvalidTransition, status)
	}
	return s.transition(ctx, paperID, actorID, status, domain.AuditStatusSet)
}

// Delete removes the paper together with its reviews and feedback thread.
func (s *PaperService) Delete(ctx context.Context, paperID, actorID string) error {
	paper, err := s.papers.FindByID(ctx, paperID)
	if err != nil {
		return err
	}

	if err := s.reviews.DeleteByPaper(ctx, paperID); err != nil {
		return fmt.Errorf("delete paper reviews: %w", err)
	}
	if err := s.feedbacks.DeleteByPaper(ctx, paperID); err != nil {
		return fmt.Errorf("delete paper feedback: %w", err)
	}
	if err := s.papers.Delete(ctx, paperID); err != nil {
		return fmt.Errorf("delete paper: %w", err)
	}

	s.enqueueAudit(paperID, domain.AuditPaperDeleted, actorID, paper.Status, "")
	s.logger.Info().Str("paper_id", paperID).Str("actor_id", actorID).Msg("paper deleted")
	return nil
}

func (s *PaperService) transition(ctx context.Context, paperID, actorID string, next domain.PaperStatus, action domain.AuditAction) (*domain.Paper, error) {
	paper, err := s.papers.FindByID(ctx, paperID)
	if err != nil {
		return nil, err
	}
	if !paper.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%s: %w (from %s to %s)", action, domain.ErrInvalidTransition, paper.Status, next)
	}

	now := time.Now().UTC()
	if err := s.papers.UpdateStatus(ctx, paperID, next, now); err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}

	s.enqueueAudit(paperID, action, actorID, paper.Status, next)
	s.logger.Info().
		Str("paper_id", paperID).
		Str("from", string(paper.Status)).
		Str("to", string(next)).
		Msg("paper status changed")

	paper.Status = next
	paper.UpdatedAt = now
	return paper, nil
}

// buildDetail joins the paper with its reviews, feedback thread, and the
// public summaries of every participant. Missing accounts leave nil
// summaries rather than failing the whole view.
func (s *PaperService) buildDetail(ctx context.Context, paper *domain.Paper) (*ports.PaperDetail, error) {
	reviews, err := s.reviews.ListByPaper(ctx, paper.ID)
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	feedbacks, err := s.feedbacks.ListByPaper(ctx, paper.ID)
	if err != nil {
		return nil, fmt.Errorf("load feedback: %w", err)
	}

	summaries := map[string]*domain.UserSummary{}
	lookup := func(id string) *domain.UserSummary {
		if sum, ok := summaries[id]; ok {
			return sum
		}
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			if !errors.Is(err, domain.ErrUserNotFound) {
				s.logger.Warn().Err(err).Str("user_id", id).Msg("failed to load participant")
			}
			summaries[id] = nil
			return nil
		}
		summaries[id] = user.Summary()
		return summaries[id]
	}

	detail := &ports.PaperDetail{
		Paper:     *paper,
		Author:    lookup(paper.AuthorID),
		Reviews:   make([]ports.ReviewView, 0, len(reviews)),
		Feedbacks: make([]ports.FeedbackView, 0, len(feedbacks)),
	}
	for _, r := range reviews {
		detail.Reviews = append(detail.Reviews, ports.ReviewView{
			ID:             r.ID,
			PaperID:        r.PaperID,
			ReviewerID:     r.ReviewerID,
			Comments:       r.Comments,
			Recommendation: r.Recommendation,
			CreatedAt:      r.CreatedAt,
			UpdatedAt:      r.UpdatedAt,
			Reviewer:       lookup(r.ReviewerID),
		})
	}
	for _, f := range feedbacks {
		detail.Feedbacks = append(detail.Feedbacks, ports.FeedbackView{
			ID:        f.ID,
			PaperID:   f.PaperID,
			SenderID:  f.SenderID,
			Message:   f.Message,
			CreatedAt: f.CreatedAt,
			Sender:    lookup(f.SenderID),
		})
	}
	return detail, nil
}

func (s *PaperService) enqueueAudit(paperID string, action domain.AuditAction, actorID string, from, to domain.PaperStatus) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(ports.AuditEventInput{
		PaperID:    paperID,
		Action:     action,
		ActorID:    actorID,
		FromStatus: from,
		ToStatus:   to,
		Timestamp:  time.Now().UTC(),
	})
}

func canDiscuss(paper *domain.Paper, user *domain.User) bool {
	switch user.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleAuthor:
		return paper.AuthorID == user.ID
	case domain.RoleReviewer:
		for _, id := range paper.ReviewerIDs {
			if id == user.ID {
				return true
			}
		}
	}
	return false
}
