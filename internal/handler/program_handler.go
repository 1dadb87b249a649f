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

type programService interface {
	ListAll(ctx context.Context) ([]models.Program, error)
	Get(ctx context.Context, id string) (*models.Program, error)
	Create(ctx context.Context, req dto.ProgramRequest) (*models.Program, error)
	Update(ctx context.Context, id string, req dto.ProgramRequest) (*models.Program, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, req dto.ReorderProgramsRequest) error
	Move(ctx context.Context, req dto.MoveProgramRequest) (*dto.MoveProgramResponse, error)
}

// ProgramHandler exposes the admin program endpoints.
type ProgramHandler struct {
	service programService
}

// NewProgramHandler constructs a program handler.
func NewProgramHandler(svc programService) *ProgramHandler {
	return &ProgramHandler{service: svc}
}

// List godoc
// @Summary List all programs
// @Tags Admin Programs
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /admin/programs [get]
func (h *ProgramHandler) List(c *gin.Context) {
	programs, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, programs)
}

// Get godoc
// @Summary Get program
// @Tags Admin Programs
// @Produce json
// @Param id path string true "Program ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/programs/{id} [get]
func (h *ProgramHandler) Get(c *gin.Context) {
	program, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, program)
}

// Create godoc
// @Summary Create program
// @Tags Admin Programs
// @Accept json
// @Produce json
// @Param payload body dto.ProgramRequest true "Program payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/programs [post]
func (h *ProgramHandler) Create(c *gin.Context) {
	var req dto.ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	program, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, program)
}

// Update godoc
// @Summary Update program
// @Tags Admin Programs
// @Accept json
// @Produce json
// @Param id path string true "Program ID"
// @Param payload body dto.ProgramRequest true "Program payload"
// @Success 200 {object} response.Envelope
// @Router /admin/programs/{id} [put]
func (h *ProgramHandler) Update(c *gin.Context) {
	var req dto.ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	program, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, program)
}

// Delete godoc
// @Summary Delete program
// @Tags Admin Programs
// @Param id path string true "Program ID"
// @Success 204
// @Router /admin/programs/{id} [delete]
func (h *ProgramHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Reorder godoc
// @Summary Persist full program order
// @Tags Admin Programs
// @Accept json
// @Produce json
// @Param payload body dto.ReorderProgramsRequest true "Every program id, in display order"
// @Success 204
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /admin/programs/reorder [post]
func (h *ProgramHandler) Reorder(c *gin.Context) {
	var req dto.ReorderProgramsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.service.Reorder(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Move godoc
// @Summary Drag one program to a new position
// @Description On a failed write the previous order is restored and returned alongside the error.
// @Tags Admin Programs
// @Accept json
// @Produce json
// @Param payload body dto.MoveProgramRequest true "Drag source and drop target"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /admin/programs/move [post]
func (h *ProgramHandler) Move(c *gin.Context) {
	var req dto.MoveProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	resp, err := h.service.Move(c.Request.Context(), req)
	if err != nil {
		if resp != nil {
			appErr := appErrors.FromError(err)
			c.Header("Cache-Control", "no-store")
			c.JSON(appErr.Status, response.Envelope{Data: resp, Error: appErr})
			return
		}
		response.Error(c, err)
		return
	}
	response.OK(c, resp)
}
