package handlers

import (
	"errors"
	"net/http"
	"strings"

	"legalintake-backend/models"
	"legalintake-backend/repository"
	"legalintake-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IntakeHandler handles HTTP requests for intakes
type IntakeHandler struct {
	intakeService *service.IntakeService
	log           *zap.SugaredLogger
}

// NewIntakeHandler creates a new intake handler
func NewIntakeHandler(intakeService *service.IntakeService, log *zap.SugaredLogger) *IntakeHandler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &IntakeHandler{
		intakeService: intakeService,
		log:           log,
	}
}

// CreateIntakeRequest represents the request body for creating an intake
type CreateIntakeRequest struct {
	ShareWithMarketplace bool              `json:"shareWithMarketplace"`
	Form                 models.IntakeForm `json:"form"`
}

// validateForm re-checks the client-side invariants server-side
func validateForm(form models.IntakeForm) string {
	switch {
	case strings.TrimSpace(form.FullName) == "":
		return "fullName is required"
	case strings.TrimSpace(form.Email) == "":
		return "email is required"
	case strings.TrimSpace(form.Summary) == "":
		return "summary is required"
	}
	return ""
}

// CreateIntake handles POST /api/intakes
func (h *IntakeHandler) CreateIntake(c *gin.Context) {
	var req CreateIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if msg := validateForm(req.Form); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	result, err := h.intakeService.SubmitIntake(c.Request.Context(), service.SubmitIntakeRequest{
		Form:                 req.Form,
		ShareWithMarketplace: req.ShareWithMarketplace,
	})
	if err != nil {
		h.log.Errorw("failed to create intake", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create intake"})
		return
	}

	c.JSON(http.StatusCreated, result.Intake)
}

// ListIntakes handles GET /api/intakes
func (h *IntakeHandler) ListIntakes(c *gin.Context) {
	result, err := h.intakeService.ListIntakes(c.Request.Context())
	if err != nil {
		h.log.Errorw("failed to list intakes", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch intakes"})
		return
	}

	intakes := result.Intakes
	if intakes == nil {
		intakes = []*models.IntakeRecord{}
	}

	c.JSON(http.StatusOK, intakes)
}

// DeleteIntake handles DELETE /api/intakes/:id
func (h *IntakeHandler) DeleteIntake(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// Malformed ids are indistinguishable from never-existing ones
		c.JSON(http.StatusNotFound, gin.H{"error": "Intake not found"})
		return
	}

	err = h.intakeService.DeleteIntake(c.Request.Context(), service.DeleteIntakeRequest{ID: id})
	if err != nil {
		if errors.Is(err, repository.ErrIntakeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Intake not found"})
			return
		}
		h.log.Errorw("failed to delete intake", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete intake"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
