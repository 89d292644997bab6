package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eboard-api/internal/dto"
	"github.com/noah-isme/eboard-api/internal/models"
	"github.com/noah-isme/eboard-api/internal/service"
	appErrors "github.com/noah-isme/eboard-api/pkg/errors"
	"github.com/noah-isme/eboard-api/pkg/response"
)

type noticeService interface {
	List(ctx context.Context, filter models.NoticeFilter) ([]models.Notice, error)
	Get(ctx context.Context, id int64) (*models.Notice, error)
	Create(ctx context.Context, req dto.CreateNoticeRequest, upload *service.Upload) (*dto.CreatedNoticeResponse, error)
	Update(ctx context.Context, id int64, req dto.UpdateNoticeRequest, upload *service.Upload) (string, error)
	Delete(ctx context.Context, id int64) (string, error)
	Archive(ctx context.Context, id int64) (string, error)
}

type noticeExporter interface {
	Export(ctx context.Context, filter models.NoticeFilter, format string) (*service.ExportFile, error)
}

// NoticeHandler serves the notice endpoints.
type NoticeHandler struct {
	service  noticeService
	exporter noticeExporter
}

// NewNoticeHandler constructs the handler. exporter may be nil.
func NewNoticeHandler(service noticeService, exporter noticeExporter) *NoticeHandler {
	return &NoticeHandler{service: service, exporter: exporter}
}

// List godoc
// @Summary List notices
// @Tags Notices
// @Produce json
// @Param category query string false "Category filter"
// @Param priority query bool false "Urgent only (true) or normal only (false)"
// @Param search query string false "Case-insensitive substring of title or content"
// @Param archived query bool false "List archived notices instead of active ones"
// @Success 200 {array} models.Notice
// @Failure 400 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /notices [get]
func (h *NoticeHandler) List(c *gin.Context) {
	filter, err := listFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	notices, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notices)
}

// Get godoc
// @Summary Get notice
// @Tags Notices
// @Produce json
// @Param id path int true "Notice ID"
// @Success 200 {object} models.Notice
// @Failure 404 {object} response.ErrorBody
// @Router /notices/{id} [get]
func (h *NoticeHandler) Get(c *gin.Context) {
	id, err := noticeIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	notice, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notice)
}

// Create godoc
// @Summary Create notice
// @Tags Notices
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param title_ta formData string false "Title (Tamil)"
// @Param content formData string true "Content"
// @Param content_ta formData string false "Content (Tamil)"
// @Param category formData string true "Category"
// @Param priority formData bool false "Urgent"
// @Param expiry_date formData string true "Expiry date (YYYY-MM-DD)"
// @Param link formData string false "Related link"
// @Param file formData file false "Attachment"
// @Success 200 {object} dto.CreatedNoticeResponse
// @Failure 400 {object} response.ErrorBody
// @Router /notices [post]
func (h *NoticeHandler) Create(c *gin.Context) {
	var req dto.CreateNoticeRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notice payload"))
		return
	}
	upload, closer, err := attachmentFromRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closer.Close()

	created, err := h.service.Create(c.Request.Context(), req, upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, created)
}

// Update godoc
// @Summary Update notice
// @Description Applies only the supplied fields. Updating an unknown id succeeds without effect.
// @Tags Notices
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Notice ID"
// @Param title formData string false "Title"
// @Param title_ta formData string false "Title (Tamil); empty clears"
// @Param content formData string false "Content"
// @Param content_ta formData string false "Content (Tamil); empty clears"
// @Param category formData string false "Category"
// @Param priority formData bool false "Urgent"
// @Param expiry_date formData string false "Expiry date (YYYY-MM-DD)"
// @Param link formData string false "Related link; empty clears"
// @Param file formData file false "Replacement attachment"
// @Success 200 {object} response.MessageBody
// @Failure 400 {object} response.ErrorBody
// @Router /notices/{id} [put]
func (h *NoticeHandler) Update(c *gin.Context) {
	id, err := noticeIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateNoticeRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notice payload"))
		return
	}
	upload, closer, err := attachmentFromRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closer.Close()

	msg, err := h.service.Update(c.Request.Context(), id, req, upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, msg)
}

// Delete godoc
// @Summary Delete notice
// @Tags Notices
// @Produce json
// @Param id path int true "Notice ID"
// @Success 200 {object} response.MessageBody
// @Router /notices/{id} [delete]
func (h *NoticeHandler) Delete(c *gin.Context) {
	h.mutate(c, h.service.Delete)
}

// Archive godoc
// @Summary Archive notice
// @Tags Notices
// @Produce json
// @Param id path int true "Notice ID"
// @Success 200 {object} response.MessageBody
// @Router /notices/{id}/archive [put]
func (h *NoticeHandler) Archive(c *gin.Context) {
	h.mutate(c, h.service.Archive)
}

// Export godoc
// @Summary Export notices for printing
// @Tags Notices
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Param category query string false "Category filter"
// @Param priority query bool false "Priority filter"
// @Param search query string false "Search term"
// @Param archived query bool false "Archived notices"
// @Success 200 {file} file
// @Failure 400 {object} response.ErrorBody
// @Router /notices/export [get]
func (h *NoticeHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "export not configured"))
		return
	}
	var query dto.NoticeExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query"))
		return
	}
	file, err := h.exporter.Export(c.Request.Context(), query.ToFilter(), query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Body)
}

func (h *NoticeHandler) mutate(c *gin.Context, op func(ctx context.Context, id int64) (string, error)) {
	id, err := noticeIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	msg, err := op(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, msg)
}

func listFilter(c *gin.Context) (models.NoticeFilter, error) {
	var query dto.NoticeListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		return models.NoticeFilter{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query")
	}
	return query.ToFilter(), nil
}
