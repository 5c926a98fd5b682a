package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/icisct/conference-system/internal/core/domain"
	"github.com/icisct/conference-system/internal/core/ports"
)

type stubPaperRepo struct {
	papers map[string]*domain.Paper
	nextID int
}

func newStubPaperRepo() *stubPaperRepo {
	return &stubPaperRepo{papers: make(map[string]*domain.Paper)}
}

func clonePaper(p *domain.Paper) *domain.Paper {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Keywords = append([]string(nil), p.Keywords...)
	clone.CoAuthors = append([]string(nil), p.CoAuthors...)
	clone.ReviewerIDs = append([]string(nil), p.ReviewerIDs...)
	return &clone
}

func (r *stubPaperRepo) Create(_ context.Context, paper *domain.Paper) (*domain.Paper, error) {
	r.nextID++
	copy := clonePaper(paper)
	copy.ID = "paper-" + strconv.Itoa(r.nextID)
	r.papers[copy.ID] = clonePaper(copy)
	return copy, nil
}

func (r *stubPaperRepo) FindByID(_ context.Context, id string) (*domain.Paper, error) {
	if p, ok := r.papers[id]; ok {
		return clonePaper(p), nil
	}
	return nil, domain.ErrPaperNotFound
}

func (r *stubPaperRepo) ListByAuthor(_ context.Context, authorID string) ([]domain.Paper, error) {
	var out []domain.Paper
	for _, p := range r.papers {
		if p.AuthorID == authorID {
			out = append(out, *clonePaper(p))
		}
	}
	return out, nil
}

func (r *stubPaperRepo) ListByReviewer(_ context.Context, reviewerID string) ([]domain.Paper, error) {
	var out []domain.Paper
	for _, p := range r.papers {
		for _, id := range p.ReviewerIDs {
			if id == reviewerID {
				out = append(out, *clonePaper(p))
				break
			}
		}
	}
	return out, nil
}

func (r *stubPaperRepo) ListAll(_ context.Context) ([]domain.Paper, error) {
	var out []domain.Paper
	for _, p := range r.papers {
		out = append(out, *clonePaper(p))
	}
	return out, nil
}

func (r *stubPaperRepo) UpdateStatus(_ context.Context, id string, status domain.PaperStatus, at time.Time) error {
	p, ok := r.papers[id]
	if !ok {
		return domain.ErrPaperNotFound
	}
	p.Status = status
	p.UpdatedAt = at
	return nil
}

func (r *stubPaperRepo) SetReviewers(_ context.Context, id string, reviewerIDs []string, status domain.PaperStatus, at time.Time) error {
	p, ok := r.papers[id]
	if !ok {
		return domain.ErrPaperNotFound
	}
	p.ReviewerIDs = append([]string(nil), reviewerIDs...)
	p.Status = status
	p.UpdatedAt = at
	return nil
}

func (r *stubPaperRepo) UpdateFile(_ context.Context, id, fileURL string, status domain.PaperStatus, at time.Time) error {
	p, ok := r.papers[id]
	if !ok {
		return domain.ErrPaperNotFound
	}
	p.FileURL = fileURL
	p.Status = status
	p.UpdatedAt = at
	return nil
}

func (r *stubPaperRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.papers[id]; !ok {
		return domain.ErrPaperNotFound
	}
	delete(r.papers, id)
	return nil
}

type stubReviewRepo struct {
	reviews map[string]*domain.Review // keyed by paperID+"/"+reviewerID
	nextID  int
}

func newStubReviewRepo() *stubReviewRepo {
	return &stubReviewRepo{reviews: make(map[string]*domain.Review)}
}

func (r *stubReviewRepo) Upsert(_ context.Context, review *domain.Review) (*domain.Review, error) {
	key := review.PaperID + "/" + review.ReviewerID
	if existing, ok := r.reviews[key]; ok {
		existing.Comments = review.Comments
		existing.Recommendation = review.Recommendation
		existing.UpdatedAt = review.UpdatedAt
		clone := *existing
		return &clone, nil
	}
	r.nextID++
	copy := *review
	copy.ID = "review-" + strconv.Itoa(r.nextID)
	r.reviews[key] = &copy
	clone := copy
	return &clone, nil
}

func (r *stubReviewRepo) ListByPaper(_ context.Context, paperID string) ([]domain.Review, error) {
	var out []domain.Review
	for _, rev := range r.reviews {
		if rev.PaperID == paperID {
			out = append(out, *rev)
		}
	}
	return out, nil
}

func (r *stubReviewRepo) DeleteByPaper(_ context.Context, paperID string) error {
	for key, rev := range r.reviews {
		if rev.PaperID == paperID {
			delete(r.reviews, key)
		}
	}
	return nil
}

type stubFeedbackRepo struct {
	feedbacks []domain.Feedback
	nextID    int
}

func (r *stubFeedbackRepo) Create(_ context.Context, fb *domain.Feedback) (*domain.Feedback, error) {
	r.nextID++
	copy := *fb
	copy.ID = "fb-" + strconv.Itoa(r.nextID)
	r.feedbacks = append(r.feedbacks, copy)
	clone := copy
	return &clone, nil
}

func (r *stubFeedbackRepo) ListByPaper(_ context.Context, paperID string) ([]domain.Feedback, error) {
	var out []domain.Feedback
	for _, fb := range r.feedbacks {
		if fb.PaperID == paperID {
			out = append(out, fb)
		}
	}
	return out, nil
}

func (r *stubFeedbackRepo) DeleteByPaper(_ context.Context, paperID string) error {
	var kept []domain.Feedback
	for _, fb := range r.feedbacks {
		if fb.PaperID != paperID {
			kept = append(kept, fb)
		}
	}
	r.feedbacks = kept
	return nil
}

type captureEnqueuer struct {
	events []ports.AuditEventInput
}

func (c *captureEnqueuer) Enqueue(event ports.AuditEventInput) {
	c.events = append(c.events, event)
}

type paperFixture struct {
	svc       *PaperService
	papers    *stubPaperRepo
	users     *stubUserRepo
	reviews   *stubReviewRepo
	feedbacks *stubFeedbackRepo
	audit     *captureEnqueuer
}

func newPaperFixture() *paperFixture {
	f := &paperFixture{
		papers:    newStubPaperRepo(),
		users:     newStubUserRepo(),
		reviews:   newStubReviewRepo(),
		feedbacks: &stubFeedbackRepo{},
		audit:     &captureEnqueuer{},
	}
	f.svc = NewPaperService(f.papers, f.users, f.reviews, f.feedbacks, f.audit, zerolog.Nop())
	return f
}

func (f *paperFixture) addUser(t *testing.T, role string) *domain.User {
	t.Helper()
	user, err := f.users.Create(context.Background(), &domain.User{
		FirstName: "Test",
		LastName:  role,
		Email:     role + strconv.Itoa(f.users.nextID) + "@example.com",
		Role:      role,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func (f *paperFixture) submit(t *testing.T, authorID string) *domain.Paper {
	t.Helper()
	paper, err := f.svc.Submit(context.Background(), ports.SubmitPaperInput{
		AuthorID: authorID,
		Title:    "Secure Routing in Sensor Networks",
		Abstract: "We study routing.",
		Keywords: []string{"routing", "security"},
		FileURL:  "https://files.example.com/paper.pdf",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return paper
}

func TestPaperService_Submit(t *testing.T) {
	f := newPaperFixture()
	author := f.addUser(t, domain.RoleAuthor)

	paper := f.submit(t, author.ID)
	if paper.Status != domain.StatusPendingApproval {
		t.Fatalf("new paper status = %s, want PENDING_APPROVAL", paper.Status)
	}
	if len(f.audit.events) != 1 || f.audit.events[0].Action != domain.AuditPaperSubmitted {
		t.Fatalf("expected one paper_submitted audit event, got %+v", f.audit.events)
	}
}

func TestPaperService_GetForAuthor_Ownership(t *testing.T) {
	f := newPaperFixture()
	author := f.addUser(t, domain.RoleAuthor)
	other := f.addUser(t, domain.RoleAuthor)
	paper := f.submit(t, author.ID)

	if _, err := f.svc.GetForAuthor(context.Background(), paper.ID, author.ID); err != nil {
		t.Fatalf("owner should read their paper: %v", err)
	}
	if _, err := f.svc.GetForAuthor(context.Background(), paper.ID, other.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
	if _, err := f.svc.GetForAuthor(context.Background(), "paper-missing", author.ID); !errors.Is(err, domain.ErrPaperNotFound) {
		t.Fatalf("expected ErrPaperNotFound, got %v", err)
	}
}

func TestPaperService_WorkflowHappyPath(t *testing.T) {
	f := newPaperFixture()
	author := f.addUser(t, domain.RoleAuthor)
	admin := f.addUser(t, domain.RoleAdmin)
	reviewer := f.addUser(t, domain.RoleReviewer)
	paper := f.submit(t, author.ID)

	approved, err := f.svc.Approve(context.Background(), paper.ID, admin.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != domain.StatusPendingReview {
		t.Fatalf("approved status = %s, want PENDING_REVIEW", approved.Status)
	}

	assigned, err := f.svc.AssignReviewers(context.Background(), paper.ID, admin.ID, []string{reviewer.ID})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if assigned.Status != domain.StatusUnderReview {
		t.Fatalf("assigned status = %s, want UNDER_REVIEW", assigned.Status)
	}

	decided, err := f.svc.SetFinalStatus(context.Background(), paper.ID, admin.ID, domain.StatusAccepted)
	if err != nil {
		t.Fatalf("set final status: %v", err)
	}
	if decided.Status != domain.StatusAccepted {
		t.Fatalf("decided status = %s, want ACCEPTED", decided.Status)
	}

	// Every step left an ordered audit trail for this paper.
	var actions []domain.AuditAction
	for _, e := range f.audit.events {
		actions = append(actions, e.Action)
	}
	want := []domain.AuditAction{
		domain.AuditPaperSubmitted,
		domain.AuditPaperApproved,
		domain.AuditReviewersAssigned,
		domain.AuditStatusSet,
	}
	if len(actions) != len(want) {
		t.Fatalf("audit actions = %v, want %v", actions, want)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Fatalf("audit actions = %v, want %v", actions, want)
		}
	}
}

func TestPaperService_InvalidTransitions(t *testing.T) {
	f := newPaperFixture()
	author := f.addUser(t, domain.RoleAuthor)
	admin := f.addUser(t, domain.RoleAdmin)
	reviewer := f.addUser(t, domain.RoleReviewer)
	paper := f.submit(t, author.ID)

	// Cannot decide before review.
	if _, err := f.svc.SetFinalStatus(context.Background(), paper.ID, admin.ID, domain.StatusAccepted); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	// Cannot assign reviewers before approval.
	if _, err := f.svc.AssignReviewers(context.Background(), paper.ID, admin.ID, []string{reviewer.ID}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	// Non-final targets are rejected outright.
	if _, err := f.svc.SetFinalStatus(context.Background(), paper.ID, admin.ID, domain.StatusUnderReview); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for non-final target, got %v", err)
	}
	// Approving twice fails the second time.
	if _, err := f.svc.Approve(context.Background(), paper.ID, admin.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := f.svc.Approve(context.Background(), paper.ID, admin.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on double approve, got %v", err)
	}
}

func TestPaperService_AssignReviewers_Validation(t *testing.T) {
	f := newPaperFixture()
	author := f.addUser(t, domain.RoleAuthor)
	admin := f.addUser(t, domain.RoleAdmin)
	paper := f.submit(t, author.ID)
	if _, err := f.svc.Approve(context.Background(), paper.ID, admin.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	if _, err := f.svc.AssignReviewers(context.Background(), paper.ID, admin.ID, nil); err == nil {
		t.Fatalf("expected error for empty reviewer list")
	}
	// Assigning a non-reviewer account must fail.
	if _, err := f.svc.AssignReviewers(context.Background(), paper.ID, admin.ID, []string{author.ID}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for non-reviewer id, got %v", err)
	}
	if _, err := f.svc.AssignReviewers(context.Background(), paper.ID, admin.ID, []string{"user-missing"}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for unknown id, got %v", err)
	}
}

func TestPaperService_Resubmit(t *testing.T) {
	f := newPaperFixture()
	author := f.addUser(t, domain.RoleAuthor)
	admin := f.addUser(t, domain.RoleAdmin)
	reviewer := f.addUser(t, domain.RoleReviewer)
	paper := f.submit(t, author.ID)

	// Resubmitting before a revision verdict is invalid.
	if _, err := f.svc.Resubmit(context.Background(), paper.ID, author.ID, "https://files.example.com/v2.pdf"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	ctx := context.Background()
	if _, err := f.svc.Approve(ctx, paper.ID, admin.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := f.svc.AssignReviewers(ctx, paper.ID, admin.ID, []string{reviewer.ID}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := f.svc.SetFinalStatus(ctx, paper.ID, admin.ID, domain.StatusRevisionRequired); err != nil {
		t.Fatalf("set final status: %v", err)
	}

	// Only the owner may resubmit.
	if _, err := f.svc.Resubmit(ctx, paper.ID, "someone-else", "https://files.example.com/v2.pdf"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	updated, err := f.svc.Resubmit(ctx, paper.ID, author.ID, "https://files.example.com/v2.pdf")
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if updated.Status != domain.StatusResubmitted {
		t.Fatalf("resubmitted status = %s, want RESUBMITTED", updated.Status)
	}
	if updated.FileURL != "https://files.example.com/v2.pdf" {
		t.Fatalf("file url not updated: %s", updated.FileURL)
	}
}

func TestPaperService_PostFeedback_Access(t *testing.T) {
	f := newPaperFixture()
	author := f.addUser(t, domain.RoleAuthor)
	otherAuthor := f.addUser(t, domain.RoleAuthor)
	admin := f.addUser(t, domain.RoleAdmin)
	assigned := f.addUser(t, domain.RoleReviewer)
	unassigned := f.addUser(t, domain.RoleReviewer)
	paper := f.submit(t, author.ID)

	ctx := context.Background()
	if _, err := f.svc.Approve(ctx, paper.ID, admin.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := f.svc.AssignReviewers(ctx, paper.ID, admin.ID, []string{assigned.ID}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	post := func(sender *domain.User) error {
		_, err := f.svc.PostFeedback(ctx, ports.PostFeedbackInput{
			PaperID: paper.ID,
			Sender:  sender,
			Message: "please clarify section 3",
		})
		return err
	}

	if err := post(author); err != nil {
		t.Fatalf("author should post feedback: %v", err)
	}
	if err := post(admin); err != nil {
		t.Fatalf("admin should post feedback: %v", err)
	}
	if err := post(assigned); err != nil {
		t.Fatalf("assigned reviewer should post feedback: %v", err)
	}
	if err := post(otherAuthor); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for other author, got %v", err)
	}
	if err := post(unassigned); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for unassigned reviewer, got %v", err)
	}
	if err := post(nil); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for nil sender, got %v", err)
	}
}

func TestPaperService_Delete_Cascades(t *testing.T) {
	f := newPaperFixture()
	author := f.addUser(t, domain.RoleAuthor)
	admin := f.addUser(t, domain.RoleAdmin)
	reviewer := f.addUser(t, domain.RoleReviewer)
	paper := f.submit(t, author.ID)

	ctx := context.Background()
	if _, err := f.svc.Approve(ctx, paper.ID, admin.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := f.svc.AssignReviewers(ctx, paper.ID, admin.ID, []string{reviewer.ID}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := f.reviews.Upsert(ctx, &domain.Review{PaperID: paper.ID, ReviewerID: reviewer.ID, Comments: "ok", Recommendation: domain.RecommendAccept}); err != nil {
		t.Fatalf("seed review: %v", err)
	}
	if _, err := f.svc.PostFeedback(ctx, ports.PostFeedbackInput{PaperID: paper.ID, Sender: author, Message: "hello"}); err != nil {
		t.Fatalf("seed feedback: %v", err)
	}

	if err := f.svc.Delete(ctx, paper.ID, admin.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.papers.FindByID(ctx, paper.ID); !errors.Is(err, domain.ErrPaperNotFound) {
		t.Fatalf("paper should be gone, got %v", err)
	}
	if reviews, _ := f.reviews.ListByPaper(ctx, paper.ID); len(reviews) != 0 {
		t.Fatalf("reviews should be gone, got %d", len(reviews))
	}
	if feedbacks, _ := f.feedbacks.ListByPaper(ctx, paper.ID); len(feedbacks) != 0 {
		t.Fatalf("feedback should be gone, got %d", len(feedbacks))
	}
}

func TestPaperService_Detail_MissingParticipants(t *testing.T) {
	f := newPaperFixture()
	author := f.addUser(t, domain.RoleAuthor)
	paper := f.submit(t, author.ID)

	ctx := context.Background()
	if _, err := f.reviews.Upsert(ctx, &domain.Review{PaperID: paper.ID, ReviewerID: "user-gone", Comments: "fine", Recommendation: domain.RecommendAccept}); err != nil {
		t.Fatalf("seed review: %v", err)
	}

	detail, err := f.svc.Get(ctx, paper.ID)
	if err != nil {
		t.Fatalf("get detail: %v", err)
	}
	if detail.Author == nil || detail.Author.ID != author.ID {
		t.Fatalf("expected author summary, got %+v", detail.Author)
	}
	if len(detail.Reviews) != 1 {
		t.Fatalf("expected one review, got %d", len(detail.Reviews))
	}
	// A deleted reviewer account leaves a nil summary, not an error.
	if detail.Reviews[0].Reviewer != nil {
		t.Fatalf("expected nil reviewer summary for missing account")
	}
}
