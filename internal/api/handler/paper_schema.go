package handler

// --- Request types shared by the paper endpoints ---

type submitPaperRequest struct {
	Title     string   `json:"title"     validate:"required"`
	Abstract  string   `json:"abstract"  validate:"required"`
	Keywords  []string `json:"keywords"  validate:"required,min=1"`
	CoAuthors []string `json:"coAuthors"`
	FileURL   string   `json:"fileUrl"   validate:"required,url"`
}

type resubmitRequest struct {
	FileURL string `json:"fileUrl" validate:"required,url"`
}

type feedbackRequest struct {
	Message string `json:"message" validate:"required"`
}

type submitReviewRequest struct {
	Comments       string `json:"comments"       validate:"required"`
	Recommendation string `json:"recommendation" validate:"required,oneof=ACCEPT MINOR_REVISION MAJOR_REVISION REJECT"`
}

type assignReviewersRequest struct {
	ReviewerIDs []string `json:"reviewerIds" validate:"required,min=1"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACCEPTED REJECTED REVISION_REQUIRED"`
}

type registerReviewerRequest struct {
	FirstName   string `json:"firstName"   validate:"required"`
	LastName    string `json:"lastName"    validate:"required"`
	Email       string `json:"email"       validate:"required,email"`
	Affiliation string `json:"affiliation"`
	Password    string `json:"password"    validate:"required,min=6"`
}
