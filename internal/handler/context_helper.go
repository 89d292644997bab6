package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eboard-api/internal/service"
	appErrors "github.com/noah-isme/eboard-api/pkg/errors"
)

const attachmentField = "file"

func noticeIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid notice id")
	}
	return id, nil
}

// attachmentFromRequest opens the optional file part. The returned closer
// must be called once the service is done with the upload.
func attachmentFromRequest(c *gin.Context) (*service.Upload, io.Closer, error) {
	header, err := c.FormFile(attachmentField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nopCloser{}, nil
		}
		return nil, nopCloser{}, appErrors.Clone(appErrors.ErrValidation, "invalid file upload")
	}
	return openUpload(header)
}

func openUpload(header *multipart.FileHeader) (*service.Upload, io.Closer, error) {
	src, err := header.Open()
	if err != nil {
		return nil, nopCloser{}, appErrors.Internal(err, "failed to open upload")
	}
	return &service.Upload{
		Field:    attachmentField,
		Filename: header.Filename,
		Size:     header.Size,
		Content:  src,
	}, src, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
