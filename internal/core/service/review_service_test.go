package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/icisct/conference-system/internal/core/domain"
	"github.com/icisct/conference-system/internal/core/ports"
)

type reviewFixture struct {
	*paperFixture
	svc *ReviewService
}

func newReviewFixture() *reviewFixture {
	pf := newPaperFixture()
	return &reviewFixture{
		paperFixture: pf,
		svc:          NewReviewService(pf.papers, pf.reviews, pf.svc, pf.audit, zerolog.Nop()),
	}
}

func (f *reviewFixture) underReview(t *testing.T, reviewerIDs ...string) *domain.Paper {
	t.Helper()
	ctx := context.Background()
	author := f.addUser(t, domain.RoleAuthor)
	admin := f.addUser(t, domain.RoleAdmin)
	paper := f.submit(t, author.ID)
	if _, err := f.paperFixture.svc.Approve(ctx, paper.ID, admin.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	assigned, err := f.paperFixture.svc.AssignReviewers(ctx, paper.ID, admin.ID, reviewerIDs)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	return assigned
}

func TestReviewService_ListAssigned(t *testing.T) {
	f := newReviewFixture()
	reviewer := f.addUser(t, domain.RoleReviewer)
	other := f.addUser(t, domain.RoleReviewer)
	paper := f.underReview(t, reviewer.ID)

	assigned, err := f.svc.ListAssigned(context.Background(), reviewer.ID)
	if err != nil {
		t.Fatalf("list assigned: %v", err)
	}
	if len(assigned) != 1 || assigned[0].ID != paper.ID {
		t.Fatalf("expected the assigned paper, got %+v", assigned)
	}

	none, err := f.svc.ListAssigned(context.Background(), other.ID)
	if err != nil {
		t.Fatalf("list assigned: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no papers for unassigned reviewer, got %d", len(none))
	}
}

func TestReviewService_GetForReviewer_RequiresAssignment(t *testing.T) {
	f := newReviewFixture()
	reviewer := f.addUser(t, domain.RoleReviewer)
	other := f.addUser(t, domain.RoleReviewer)
	paper := f.underReview(t, reviewer.ID)

	detail, err := f.svc.GetForReviewer(context.Background(), paper.ID, reviewer.ID)
	if err != nil {
		t.Fatalf("assigned reviewer should read the paper: %v", err)
	}
	if detail.ID != paper.ID {
		t.Fatalf("detail for wrong paper: %s", detail.ID)
	}

	if _, err := f.svc.GetForReviewer(context.Background(), paper.ID, other.ID); !errors.Is(err, domain.ErrNotAssigned) {
		t.Fatalf("expected ErrNotAssigned, got %v", err)
	}
}

func TestReviewService_SubmitReview(t *testing.T) {
	f := newReviewFixture()
	reviewer := f.addUser(t, domain.RoleReviewer)
	other := f.addUser(t, domain.RoleReviewer)
	paper := f.underReview(t, reviewer.ID)
	ctx := context.Background()

	// Unassigned reviewers cannot submit.
	if _, err := f.svc.SubmitReview(ctx, ports.SubmitReviewInput{
		PaperID:        paper.ID,
		ReviewerID:     other.ID,
		Comments:       "looks fine",
		Recommendation: domain.RecommendAccept,
	}); !errors.Is(err, domain.ErrNotAssigned) {
		t.Fatalf("expected ErrNotAssigned, got %v", err)
	}

	// Empty comments and unknown verdicts are rejected.
	if _, err := f.svc.SubmitReview(ctx, ports.SubmitReviewInput{
		PaperID:        paper.ID,
		ReviewerID:     reviewer.ID,
		Recommendation: domain.RecommendAccept,
	}); err == nil {
		t.Fatalf("expected error for empty comments")
	}
	if _, err := f.svc.SubmitReview(ctx, ports.SubmitReviewInput{
		PaperID:        paper.ID,
		ReviewerID:     reviewer.ID,
		Comments:       "fine",
		Recommendation: "MAYBE",
	}); err == nil {
		t.Fatalf("expected error for unknown recommendation")
	}

	first, err := f.svc.SubmitReview(ctx, ports.SubmitReviewInput{
		PaperID:        paper.ID,
		ReviewerID:     reviewer.ID,
		Comments:       "solid methodology",
		Recommendation: domain.RecommendMinorRevision,
	})
	if err != nil {
		t.Fatalf("submit review: %v", err)
	}

	// Resubmitting replaces the verdict instead of adding a second review.
	second, err := f.svc.SubmitReview(ctx, ports.SubmitReviewInput{
		PaperID:        paper.ID,
		ReviewerID:     reviewer.ID,
		Comments:       "revisions addressed",
		Recommendation: domain.RecommendAccept,
	})
	if err != nil {
		t.Fatalf("second submit review: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected upsert to keep id %s, got %s", first.ID, second.ID)
	}

	reviews, err := f.reviews.ListByPaper(ctx, paper.ID)
	if err != nil {
		t.Fatalf("list reviews: %v", err)
	}
	if len(reviews) != 1 {
		t.Fatalf("expected one review after upsert, got %d", len(reviews))
	}
	if reviews[0].Recommendation != domain.RecommendAccept {
		t.Fatalf("expected replaced recommendation, got %s", reviews[0].Recommendation)
	}
}
