package domain

import (
	"errors"
	"time"
)

// PaperStatus represents the lifecycle state of a paper submission.
type PaperStatus string

const (
	StatusPendingApproval  PaperStatus = "PENDING_APPROVAL"
	StatusPendingReview    PaperStatus = "PENDING_REVIEW"
	StatusUnderReview      PaperStatus = "UNDER_REVIEW"
	StatusResubmitted      PaperStatus = "RESUBMITTED"
	StatusAccepted         PaperStatus = "ACCEPTED"
	StatusRejected         PaperStatus = "REJECTED"
	StatusRevisionRequired PaperStatus = "REVISION_REQUIRED"

	// Legacy revision verdicts still present on older papers. They behave
	// like REVISION_REQUIRED: the author may resubmit.
	StatusMinorRevision PaperStatus = "MINOR_REVISION"
	StatusMajorRevision PaperStatus = "MAJOR_REVISION"
)

// validTransitions defines the allowed state machine transitions.
var validTransitions = map[PaperStatus][]PaperStatus{
	StatusPendingApproval:  {StatusPendingReview},
	StatusPendingReview:    {StatusUnderReview},
	StatusUnderReview:      {StatusAccepted, StatusRejected, StatusRevisionRequired},
	StatusResubmitted:      {StatusAccepted, StatusRejected, StatusRevisionRequired},
	StatusRevisionRequired: {StatusResubmitted},
	StatusMinorRevision:    {StatusResubmitted},
	StatusMajorRevision:    {StatusResubmitted},
	// Admins may revise a final decision.
	StatusAccepted: {StatusRejected, StatusRevisionRequired},
	StatusRejected: {StatusAccepted, StatusRevisionRequired},
}

var ErrPaperNotFound = errors.New("paper not found")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrForbidden = errors.New("access forbidden")
var ErrNotAssigned = errors.New("reviewer not assigned to paper")

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s PaperStatus) CanTransitionTo(next PaperStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsFinal reports whether the status is an admin's final decision.
func (s PaperStatus) IsFinal() bool {
	switch s {
	case StatusAccepted, StatusRejected, StatusRevisionRequired:
		return true
	}
	return false
}

// NeedsRevision reports whether the author is expected to resubmit.
func (s PaperStatus) NeedsRevision() bool {
	switch s {
	case StatusRevisionRequired, StatusMinorRevision, StatusMajorRevision:
		return true
	}
	return false
}

// Paper is the core aggregate root of the submission workflow.
type Paper struct {
	ID          string      `json:"id" bson:"_id,omitempty"`
	Title       string      `json:"title" bson:"title"`
	Abstract    string      `json:"abstract" bson:"abstract"`
	Keywords    []string    `json:"keywords" bson:"keywords"`
	CoAuthors   []string    `json:"coAuthors" bson:"co_authors"`
	FileURL     string      `json:"fileUrl" bson:"file_url"`
	AuthorID    string      `json:"authorId" bson:"author_id"`
	Status      PaperStatus `json:"status" bson:"status"`
	ReviewerIDs []string    `json:"reviewerIds" bson:"reviewer_ids"`
	SubmittedAt time.Time   `json:"submittedAt" bson:"submitted_at"`
	UpdatedAt   time.Time   `json:"updatedAt" bson:"updated_at"`
}
