package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/icisct/conference-system/internal/api/metrics"
	"github.com/icisct/conference-system/internal/core/domain"
	"github.com/icisct/conference-system/internal/core/ports"
)

// ReviewerHandler serves the /reviewer endpoints.
type ReviewerHandler struct {
	reviews ports.ReviewService
	papers  ports.PaperService
}

func NewReviewerHandler(reviews ports.ReviewService, papers ports.PaperService) *ReviewerHandler {
	return &ReviewerHandler{reviews: reviews, papers: papers}
}

// List handles GET /reviewer/papers.
//
// @Summary      List papers assigned to the reviewer
// @Tags         reviewer
// @Produce      json
// @Success      200  {array}  domain.Paper
// @Router       /reviewer/papers [get]
func (h *ReviewerHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	papers, err := h.reviews.ListAssigned(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, papers)
}

// Get handles GET /reviewer/papers/:id.
//
// @Summary      Get an assigned paper with reviews and feedback
// @Tags         reviewer
// @Produce      json
// @Param        id   path      string  true  "Paper id"
// @Success      200  {object}  ports.PaperDetail
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /reviewer/papers/{id} [get]
func (h *ReviewerHandler) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	detail, err := h.reviews.GetForReviewer(c.Request().Context(), c.Param("id"), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// Review handles POST /reviewer/papers/:id/review.
//
// @Summary      Submit or update the reviewer's verdict
// @Tags         reviewer
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Paper id"
// @Param        body  body      submitReviewRequest  true  "Review"
// @Success      201   {object}  domain.Review
// @Failure      403   {object}  map[string]string
// @Router       /reviewer/papers/{id}/review [post]
func (h *ReviewerHandler) Review(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req submitReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	review, err := h.reviews.SubmitReview(c.Request().Context(), ports.SubmitReviewInput{
		PaperID:        c.Param("id"),
		ReviewerID:     user.ID,
		Comments:       req.Comments,
		Recommendation: domain.Recommendation(req.Recommendation),
	})
	if err != nil {
		return err
	}

	metrics.ReviewsSubmittedTotal.WithLabelValues(string(review.Recommendation)).Inc()
	return c.JSON(http.StatusCreated, review)
}

// Feedback handles POST /reviewer/papers/:id/feedback.
//
// @Summary      Post a feedback message on an assigned paper
// @Tags         reviewer
// @Accept       json
// @Produce      json
// @Param        id    path      string           true  "Paper id"
// @Param        body  body      feedbackRequest  true  "Message"
// @Success      201   {object}  domain.Feedback
// @Failure      403   {object}  map[string]string
// @Router       /reviewer/papers/{id}/feedback [post]
func (h *ReviewerHandler) Feedback(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req feedbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fb, err := h.papers.PostFeedback(c.Request().Context(), ports.PostFeedbackInput{
		PaperID: c.Param("id"),
		Sender:  user,
		Message: req.Message,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, fb)
}
