package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/icisct/conference-system/internal/api/metrics"
	"github.com/icisct/conference-system/internal/core/domain"
	"github.com/icisct/conference-system/internal/core/ports"
)

// AdminHandler serves the /admin endpoints.
type AdminHandler struct {
	papers ports.PaperService
	auth   ports.AuthService
	users  ports.UserRepository
	audit  ports.AuditRepository
}

func NewAdminHandler(papers ports.PaperService, auth ports.AuthService, users ports.UserRepository, audit ports.AuditRepository) *AdminHandler {
	return &AdminHandler{papers: papers, auth: auth, users: users, audit: audit}
}

// ListPapers handles GET /admin/papers.
//
// @Summary      List all papers
// @Tags         admin
// @Produce      json
// @Success      200  {array}  domain.Paper
// @Router       /admin/papers [get]
func (h *AdminHandler) ListPapers(c echo.Context) error {
	papers, err := h.papers.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, papers)
}

// GetPaper handles GET /admin/papers/:id.
//
// @Summary      Get any paper with reviews and feedback
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Paper id"
// @Success      200  {object}  ports.PaperDetail
// @Failure      404  {object}  map[string]string
// @Router       /admin/papers/{id} [get]
func (h *AdminHandler) GetPaper(c echo.Context) error {
	detail, err := h.papers.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// Approve handles PATCH /admin/papers/:id/approve.
//
// @Summary      Approve a pending paper for review
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Paper id"
// @Success      200  {object}  domain.Paper
// @Failure      422  {object}  map[string]string
// @Router       /admin/papers/{id}/approve [patch]
func (h *AdminHandler) Approve(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	paper, err := h.papers.Approve(c.Request().Context(), c.Param("id"), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, paper)
}

// Assign handles POST /admin/papers/:id/assign.
//
// @Summary      Assign reviewers to a paper
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string                  true  "Paper id"
// @Param        body  body      assignReviewersRequest  true  "Reviewer ids"
// @Success      200   {object}  domain.Paper
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /admin/papers/{id}/assign [post]
func (h *AdminHandler) Assign(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req assignReviewersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	paper, err := h.papers.AssignReviewers(c.Request().Context(), c.Param("id"), user.ID, req.ReviewerIDs)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, paper)
}

// SetStatus handles PATCH /admin/papers/:id/status.
//
// @Summary      Set the final decision on a paper
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string            true  "Paper id"
// @Param        body  body      setStatusRequest  true  "Final status"
// @Success      200   {object}  domain.Paper
// @Failure      422   {object}  map[string]string
// @Router       /admin/papers/{id}/status [patch]
func (h *AdminHandler) SetStatus(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	paper, err := h.papers.SetFinalStatus(c.Request().Context(), c.Param("id"), user.ID, domain.PaperStatus(req.Status))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, paper)
}

// DeletePaper handles DELETE /admin/papers/:id.
//
// @Summary      Delete a paper with its reviews and feedback
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Paper id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/papers/{id} [delete]
func (h *AdminHandler) DeletePaper(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.papers.Delete(c.Request().Context(), c.Param("id"), user.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "paper deleted"})
}

// AuditTrail handles GET /admin/papers/:id/audit.
//
// @Summary      List the workflow audit trail of a paper
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Paper id"
// @Success      200  {array}  domain.AuditEvent
// @Failure      404  {object}  map[string]string
// @Router       /admin/papers/{id}/audit [get]
func (h *AdminHandler) AuditTrail(c echo.Context) error {
	// Confirm the paper exists so unknown ids return 404, not an empty list.
	if _, err := h.papers.Get(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	events, err := h.audit.ListByPaper(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// ListReviewers handles GET /admin/reviewers.
//
// @Summary      List reviewer accounts
// @Tags         admin
// @Produce      json
// @Success      200  {array}  domain.User
// @Router       /admin/reviewers [get]
func (h *AdminHandler) ListReviewers(c echo.Context) error {
	reviewers, err := h.users.ListByRole(c.Request().Context(), domain.RoleReviewer)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviewers)
}

// RegisterReviewer handles POST /admin/reviewers. Unlike public
// registration, no session is established for the new account.
//
// @Summary      Register a reviewer account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      registerReviewerRequest  true  "Reviewer details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /admin/reviewers [post]
func (h *AdminHandler) RegisterReviewer(c echo.Context) error {
	var req registerReviewerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	reviewer, err := h.auth.CreateAccount(c.Request().Context(), ports.RegisterInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Affiliation: req.Affiliation,
		Password:    req.Password,
		Role:        domain.RoleReviewer,
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(reviewer.Role).Inc()
	return c.JSON(http.StatusCreated, reviewer)
}
