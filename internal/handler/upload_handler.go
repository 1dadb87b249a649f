package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/atlas-sports/site-api/internal/dto"
	appErrors "github.com/atlas-sports/site-api/pkg/errors"
	"github.com/atlas-sports/site-api/pkg/response"
)

// multipartOverhead is the allowance for multipart framing on top of the
// image size limit.
const multipartOverhead = 64 * 1024

type uploadService interface {
	Upload(ctx context.Context, folder string, declaredSize int64, r io.Reader) (*dto.UploadResponse, error)
}

// UploadHandler accepts image uploads from the admin forms.
type UploadHandler struct {
	service  uploadService
	maxBytes int64
}

// NewUploadHandler constructs an upload handler.
func NewUploadHandler(svc uploadService, maxBytes int64) *UploadHandler {
	return &UploadHandler{service: svc, maxBytes: maxBytes}
}

// Upload godoc
// @Summary Upload an image
// @Description Stores a logo or announcement image and returns its public URL
// @Tags Admin Uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Param folder formData string false "Target folder"
// @Success 201 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Failure 415 {object} response.Envelope
// @Router /admin/uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrPayloadTooLarge.Code, appErrors.ErrPayloadTooLarge.Status, fmt.Sprintf("Images must be %d MB or smaller", h.maxBytes/(1024*1024))))
			return
		}
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "File is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read upload"))
		return
	}
	defer file.Close()

	uploaded, err := h.service.Upload(c.Request.Context(), c.PostForm("folder"), fileHeader.Size, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, uploaded)
}
