package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/icisct/conference-system/internal/core/domain"
	"github.com/icisct/conference-system/internal/core/ports"
)

type stubAuditRepo struct {
	events    []domain.AuditEvent
	insertErr error
}

func (r *stubAuditRepo) Insert(_ context.Context, event *domain.AuditEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.events = append(r.events, *event)
	return nil
}

func (r *stubAuditRepo) ListByPaper(_ context.Context, paperID string) ([]domain.AuditEvent, error) {
	var out []domain.AuditEvent
	for _, e := range r.events {
		if e.PaperID == paperID {
			out = append(out, e)
		}
	}
	return out, nil
}

type stubDedup struct {
	seen     map[string]bool
	checkErr error
}

func newStubDedup() *stubDedup {
	return &stubDedup{seen: make(map[string]bool)}
}

func (d *stubDedup) key(event ports.AuditEventInput) string {
	return event.PaperID + "/" + string(event.Action)
}

func (d *stubDedup) IsDuplicate(_ context.Context, event ports.AuditEventInput) (bool, error) {
	if d.checkErr != nil {
		return false, d.checkErr
	}
	return d.seen[d.key(event)], nil
}

func (d *stubDedup) Mark(_ context.Context, event ports.AuditEventInput) error {
	d.seen[d.key(event)] = true
	return nil
}

func auditEvent() ports.AuditEventInput {
	return ports.AuditEventInput{
		PaperID:    "paper-1",
		Action:     domain.AuditPaperApproved,
		ActorID:    "admin-1",
		FromStatus: domain.StatusPendingApproval,
		ToStatus:   domain.StatusPendingReview,
		Timestamp:  time.Now().UTC(),
	}
}

func TestAuditService_Process(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, newStubDedup(), zerolog.Nop())

	if err := svc.Process(context.Background(), auditEvent()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(repo.events) != 1 {
		t.Fatalf("expected one stored event, got %d", len(repo.events))
	}
	stored := repo.events[0]
	if stored.Action != domain.AuditPaperApproved || stored.ToStatus != domain.StatusPendingReview {
		t.Fatalf("unexpected stored event: %+v", stored)
	}
}

func TestAuditService_Process_SkipsDuplicates(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, newStubDedup(), zerolog.Nop())
	event := auditEvent()

	if err := svc.Process(context.Background(), event); err != nil {
		t.Fatalf("first process: %v", err)
	}
	if err := svc.Process(context.Background(), event); err != nil {
		t.Fatalf("duplicate process: %v", err)
	}
	if len(repo.events) != 1 {
		t.Fatalf("duplicate was stored, have %d events", len(repo.events))
	}
}

func TestAuditService_Process_DedupFailureIsNotFatal(t *testing.T) {
	repo := &stubAuditRepo{}
	dedup := newStubDedup()
	dedup.checkErr = errors.New("redis down")
	svc := NewAuditService(repo, dedup, zerolog.Nop())

	if err := svc.Process(context.Background(), auditEvent()); err != nil {
		t.Fatalf("process with broken dedup: %v", err)
	}
	if len(repo.events) != 1 {
		t.Fatalf("event should be stored despite dedup failure")
	}
}

func TestAuditService_Process_InsertFailure(t *testing.T) {
	repo := &stubAuditRepo{insertErr: errors.New("write failed")}
	svc := NewAuditService(repo, newStubDedup(), zerolog.Nop())

	if err := svc.Process(context.Background(), auditEvent()); err == nil {
		t.Fatalf("expected error when storage fails")
	}
}
