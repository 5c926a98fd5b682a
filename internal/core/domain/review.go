package domain

import (
	"errors"
	"time"
)

// Recommendation is a reviewer's verdict on a paper.
type Recommendation string

const (
	RecommendAccept        Recommendation = "ACCEPT"
	RecommendMinorRevision Recommendation = "MINOR_REVISION"
	RecommendMajorRevision Recommendation = "MAJOR_REVISION"
	RecommendReject        Recommendation = "REJECT"
)

// ValidRecommendation reports whether r is one of the closed verdict set.
func ValidRecommendation(r Recommendation) bool {
	switch r {
	case RecommendAccept, RecommendMinorRevision, RecommendMajorRevision, RecommendReject:
		return true
	}
	return false
}

var ErrReviewNotFound = errors.New("review not found")

// Review is a single reviewer's assessment. A reviewer holds at most one
// review per paper; submitting again replaces the comments and verdict.
type Review struct {
	ID             string         `json:"id" bson:"_id,omitempty"`
	PaperID        string         `json:"paperId" bson:"paper_id"`
	ReviewerID     string         `json:"reviewerId" bson:"reviewer_id"`
	Comments       string         `json:"comments" bson:"comments"`
	Recommendation Recommendation `json:"recommendation" bson:"recommendation"`
	CreatedAt      time.Time      `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time      `json:"updatedAt" bson:"updated_at"`
}

// Feedback is one message in the discussion thread attached to a paper.
type Feedback struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	PaperID   string    `json:"paperId" bson:"paper_id"`
	SenderID  string    `json:"senderId" bson:"sender_id"`
	Message   string    `json:"message" bson:"message"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}
