package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atlas-sports/site-api/internal/dto"
	"github.com/atlas-sports/site-api/internal/models"
	appErrors "github.com/atlas-sports/site-api/pkg/errors"
	"github.com/atlas-sports/site-api/pkg/response"
)

type settingsService interface {
	All(ctx context.Context) models.SiteSettings
	UpdateRegistrationStatus(ctx context.Context, req dto.RegistrationStatusRequest) (*models.RegistrationStatus, error)
	UpdateContactInfo(ctx context.Context, req dto.ContactInfoRequest) (*models.ContactInfo, error)
}

// SettingsHandler exposes the admin settings endpoints.
type SettingsHandler struct {
	service settingsService
}

// NewSettingsHandler constructs a settings handler.
func NewSettingsHandler(svc settingsService) *SettingsHandler {
	return &SettingsHandler{service: svc}
}

// Get godoc
// @Summary Get site settings
// @Tags Admin Settings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	response.OK(c, h.service.All(c.Request.Context()))
}

// UpdateRegistration godoc
// @Summary Update the registration banner
// @Tags Admin Settings
// @Accept json
// @Produce json
// @Param payload body dto.RegistrationStatusRequest true "Registration banner"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /admin/settings/registration [put]
func (h *SettingsHandler) UpdateRegistration(c *gin.Context) {
	var req dto.RegistrationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	status, err := h.service.UpdateRegistrationStatus(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, status)
}

// UpdateContact godoc
// @Summary Update the contact block
// @Tags Admin Settings
// @Accept json
// @Produce json
// @Param payload body dto.ContactInfoRequest true "Contact info"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/settings/contact [put]
func (h *SettingsHandler) UpdateContact(c *gin.Context) {
	var req dto.ContactInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	info, err := h.service.UpdateContactInfo(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, info)
}
