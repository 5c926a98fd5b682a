package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/icisct/conference-system/internal/api/metrics"
	"github.com/icisct/conference-system/internal/core/ports"
)

// AuthorHandler serves the /author endpoints.
type AuthorHandler struct {
	papers ports.PaperService
}

func NewAuthorHandler(papers ports.PaperService) *AuthorHandler {
	return &AuthorHandler{papers: papers}
}

// Submit handles POST /author/papers.
//
// @Summary      Submit a new paper
// @Tags         author
// @Accept       json
// @Produce      json
// @Param        body  body      submitPaperRequest  true  "Paper details"
// @Success      201   {object}  domain.Paper
// @Failure      400   {object}  map[string]string
// @Router       /author/papers [post]
func (h *AuthorHandler) Submit(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req submitPaperRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	paper, err := h.papers.Submit(c.Request().Context(), ports.SubmitPaperInput{
		AuthorID:  user.ID,
		Title:     req.Title,
		Abstract:  req.Abstract,
		Keywords:  req.Keywords,
		CoAuthors: req.CoAuthors,
		FileURL:   req.FileURL,
	})
	if err != nil {
		return err
	}

	metrics.PapersSubmittedTotal.Inc()
	return c.JSON(http.StatusCreated, paper)
}

// List handles GET /author/papers.
//
// @Summary      List own papers
// @Tags         author
// @Produce      json
// @Success      200  {array}  domain.Paper
// @Router       /author/papers [get]
func (h *AuthorHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	papers, err := h.papers.ListByAuthor(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, papers)
}

// Get handles GET /author/papers/:id.
//
// @Summary      Get one of the author's papers with reviews and feedback
// @Tags         author
// @Produce      json
// @Param        id   path      string  true  "Paper id"
// @Success      200  {object}  ports.PaperDetail
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /author/papers/{id} [get]
func (h *AuthorHandler) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	detail, err := h.papers.GetForAuthor(c.Request().Context(), c.Param("id"), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// Feedback handles POST /author/papers/:id/feedback.
//
// @Summary      Post a feedback message on an own paper
// @Tags         author
// @Accept       json
// @Produce      json
// @Param        id    path      string           true  "Paper id"
// @Param        body  body      feedbackRequest  true  "Message"
// @Success      201   {object}  domain.Feedback
// @Failure      403   {object}  map[string]string
// @Router       /author/papers/{id}/feedback [post]
func (h *AuthorHandler) Feedback(c echo.Context) error {
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

// Resubmit handles POST /author/papers/:id/resubmit.
//
// @Summary      Resubmit a revised paper
// @Tags         author
// @Accept       json
// @Produce      json
// @Param        id    path      string           true  "Paper id"
// @Param        body  body      resubmitRequest  true  "New file reference"
// @Success      200   {object}  domain.Paper
// @Failure      422   {object}  map[string]string
// @Router       /author/papers/{id}/resubmit [post]
func (h *AuthorHandler) Resubmit(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req resubmitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	paper, err := h.papers.Resubmit(c.Request().Context(), c.Param("id"), user.ID, req.FileURL)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, paper)
}
