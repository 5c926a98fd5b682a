package ports

import (
	"context"
	"time"

	"github.com/icisct/conference-system/internal/core/domain"
)

// AuditEventInput is the DTO handed from services to the audit pipeline.
type AuditEventInput struct {
	PaperID    string
	Action     domain.AuditAction
	ActorID    string
	FromStatus domain.PaperStatus
	ToStatus   domain.PaperStatus
	Timestamp  time.Time
}

// AuditService processes a single workflow audit event.
type AuditService interface {
	Process(ctx context.Context, event AuditEventInput) error
}

// AuditEnqueuer is the fire-and-forget side services use; the dispatcher
// implements it. Enqueue must never block the request path beyond the
// channel buffer.
type AuditEnqueuer interface {
	Enqueue(event AuditEventInput)
}
