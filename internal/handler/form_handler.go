package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atlas-sports/site-api/internal/form"
	appErrors "github.com/atlas-sports/site-api/pkg/errors"
	"github.com/atlas-sports/site-api/pkg/response"
)

// FormHandler evaluates admin form snapshots with the browser form rules.
type FormHandler struct{}

// NewFormHandler constructs a form handler.
func NewFormHandler() *FormHandler {
	return &FormHandler{}
}

// Validate godoc
// @Summary Evaluate an admin form snapshot
// @Description Returns derived values (slug), visible errors, validity and whether the view should scroll to the top
// @Tags Admin Forms
// @Accept json
// @Produce json
// @Param kind path string true "program, event or announcement"
// @Param payload body form.Snapshot true "Form snapshot"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/forms/{kind}/validate [post]
func (h *FormHandler) Validate(c *gin.Context) {
	kind := form.Kind(c.Param("kind"))
	if _, ok := form.SchemaFor(kind); !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "unknown form"))
		return
	}
	var snap form.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	report, err := form.Check(kind, snap)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, err.Error()))
		return
	}
	response.OK(c, report)
}
