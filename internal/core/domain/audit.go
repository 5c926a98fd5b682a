package domain

import "time"

// AuditAction identifies a workflow mutation recorded on the audit trail.
type AuditAction string

const (
	AuditPaperSubmitted    AuditAction = "paper_submitted"
	AuditPaperApproved     AuditAction = "paper_approved"
	AuditReviewersAssigned AuditAction = "reviewers_assigned"
	AuditStatusSet         AuditAction = "status_set"
	AuditPaperResubmitted  AuditAction = "paper_resubmitted"
	AuditPaperDeleted      AuditAction = "paper_deleted"
	AuditReviewSubmitted   AuditAction = "review_submitted"
)

// AuditEvent records a single workflow action for a paper.
type AuditEvent struct {
	ID         string      `json:"id" bson:"_id,omitempty"`
	PaperID    string      `json:"paperId" bson:"paper_id"`
	Action     AuditAction `json:"action" bson:"action"`
	ActorID    string      `json:"actorId" bson:"actor_id"`
	FromStatus PaperStatus `json:"fromStatus,omitempty" bson:"from_status,omitempty"`
	ToStatus   PaperStatus `json:"toStatus,omitempty" bson:"to_status,omitempty"`
	Timestamp  time.Time   `json:"timestamp" bson:"timestamp"`
}
