package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/icisct/conference-system/internal/core/domain"
	"github.com/icisct/conference-system/internal/core/ports"
)

// AuditDedup abstracts the idempotency store (Redis).
type AuditDedup interface {
	IsDuplicate(ctx context.Context, event ports.AuditEventInput) (bool, error)
	Mark(ctx context.Context, event ports.AuditEventInput) error
}

type auditService struct {
	repo  ports.AuditRepository
	dedup AuditDedup
	log   zerolog.Logger
}

// NewAuditService returns an AuditService implementation.
func NewAuditService(repo ports.AuditRepository, dedup AuditDedup, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, dedup: dedup, log: log}
}

// Process deduplicates and persists a single workflow audit event.
func (s *auditService) Process(ctx context.Context, in ports.AuditEventInput) error {
	// Idempotency check. Duplicates are silently skipped.
	isDup, err := s.dedup.IsDuplicate(ctx, in)
	if err != nil {
		s.log.Warn().Err(err).Str("paper_id", in.PaperID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		s.log.Debug().Str("paper_id", in.PaperID).Str("action", string(in.Action)).Msg("duplicate audit event skipped")
		return nil
	}

	// Mark before writing so a retried delivery is not recorded twice.
	if markErr := s.dedup.Mark(ctx, in); markErr != nil {
		s.log.Warn().Err(markErr).Str("paper_id", in.PaperID).Msg("failed to set dedup key")
	}

	event := &domain.AuditEvent{
		PaperID:    in.PaperID,
		Action:     in.Action,
		ActorID:    in.ActorID,
		FromStatus: in.FromStatus,
		ToStatus:   in.ToStatus,
		Timestamp:  in.Timestamp,
	}
	if err := s.repo.Insert(ctx, event); err != nil {
		return fmt.Errorf("process audit event: %w", err)
	}

	s.log.Info().
		Str("paper_id", in.PaperID).
		Str("action", string(in.Action)).
		Str("actor_id", in.ActorID).
		Msg("audit event recorded")
	return nil
}
