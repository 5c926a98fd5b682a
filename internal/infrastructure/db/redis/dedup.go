package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/icisct/conference-system/internal/core/ports"
)

const dedupTTL = time.Hour

// AuditDedup provides idempotency checks for audit events backed by Redis.
// Key format: audit:<paper_id>:<action>:<unix_timestamp>
type AuditDedup struct {
	client *redis.Client
}

// NewAuditDedup creates an AuditDedup wrapping the given Redis client.
func NewAuditDedup(client *redis.Client) *AuditDedup {
	return &AuditDedup{client: client}
}

// IsDuplicate reports whether this exact audit event has already been recorded.
func (d *AuditDedup) IsDuplicate(ctx context.Context, event ports.AuditEventInput) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(event)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this event has been processed (expires after dedupTTL).
func (d *AuditDedup) Mark(ctx context.Context, event ports.AuditEventInput) error {
	return d.client.Set(ctx, d.key(event), "1", dedupTTL).Err()
}

func (d *AuditDedup) key(event ports.AuditEventInput) string {
	return fmt.Sprintf("audit:%s:%s:%d", event.PaperID, event.Action, event.Timestamp.Unix())
}
