package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eboard-api/internal/dto"
	"github.com/noah-isme/eboard-api/internal/models"
	"github.com/noah-isme/eboard-api/internal/service"
	appErrors "github.com/noah-isme/eboard-api/pkg/errors"
)

type noticeServiceMock struct {
	notices    []models.Notice
	filter     models.NoticeFilter
	getErr     error
	createReq  dto.CreateNoticeRequest
	updateReq  dto.UpdateNoticeRequest
	uploadName string
	uploadBody string
	lastID     int64
	err        error
}

func (m *noticeServiceMock) List(ctx context.Context, filter models.NoticeFilter) ([]models.Notice, error) {
	m.filter = filter
	if m.err != nil {
		return nil, m.err
	}
	return m.notices, nil
}

func (m *noticeServiceMock) Get(ctx context.Context, id int64) (*models.Notice, error) {
	m.lastID = id
	if m.getErr != nil {
		return nil, m.getErr
	}
	return &models.Notice{ID: id, Title: "Water", DatePosted: models.MustParseDate("2025-08-13"), ExpiryDate: models.MustParseDate("2025-08-17")}, nil
}

func (m *noticeServiceMock) capture(upload *service.Upload) {
	if upload == nil {
		return
	}
	m.uploadName = upload.Filename
	body, _ := io.ReadAll(upload.Content)
	m.uploadBody = string(body)
}

func (m *noticeServiceMock) Create(ctx context.Context, req dto.CreateNoticeRequest, upload *service.Upload) (*dto.CreatedNoticeResponse, error) {
	m.createReq = req
	m.capture(upload)
	if m.err != nil {
		return nil, m.err
	}
	return &dto.CreatedNoticeResponse{ID: 5, Message: "Notice created successfully"}, nil
}

func (m *noticeServiceMock) Update(ctx context.Context, id int64, req dto.UpdateNoticeRequest, upload *service.Upload) (string, error) {
	m.lastID = id
	m.updateReq = req
	m.capture(upload)
	return "Notice updated successfully", m.err
}

func (m *noticeServiceMock) Delete(ctx context.Context, id int64) (string, error) {
	m.lastID = id
	return "Notice deleted successfully", m.err
}

func (m *noticeServiceMock) Archive(ctx context.Context, id int64) (string, error) {
	m.lastID = id
	return "Notice archived successfully", m.err
}

type exporterMock struct {
	format string
}

func (e *exporterMock) Export(ctx context.Context, filter models.NoticeFilter, format string) (*service.ExportFile, error) {
	e.format = format
	return &service.ExportFile{Filename: "notices-2025-08-14.csv", ContentType: "text/csv; charset=utf-8", Body: []byte("ID\n1\n")}, nil
}

func newNoticeRouter(svc *noticeServiceMock, exporter noticeExporter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewNoticeHandler(svc, exporter)
	api := r.Group("/api")
	api.GET("/notices", h.List)
	api.GET("/notices/export", h.Export)
	api.GET("/notices/:id", h.Get)
	api.POST("/notices", h.Create)
	api.PUT("/notices/:id", h.Update)
	api.DELETE("/notices/:id", h.Delete)
	api.PUT("/notices/:id/archive", h.Archive)
	return r
}

func multipartBody(t *testing.T, fields map[string]string, fileName, fileContent string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte(fileContent))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestNoticeHandlerListCoercesQuery(t *testing.T) {
	svc := &noticeServiceMock{notices: []models.Notice{{ID: 1, Title: "Tender"}}}
	r := newNoticeRouter(svc, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/notices?category=tender&priority=true&search=%20road%20&archived=true", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.filter.Category)
	assert.Equal(t, "tender", *svc.filter.Category)
	require.NotNil(t, svc.filter.Priority)
	assert.True(t, *svc.filter.Priority)
	require.NotNil(t, svc.filter.Search)
	assert.Equal(t, "road", *svc.filter.Search)
	assert.True(t, svc.filter.Archived)

	var notices []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notices))
	require.Len(t, notices, 1)
	assert.Equal(t, "Tender", notices[0]["title"])
}

func TestNoticeHandlerListDefaultsToActive(t *testing.T) {
	svc := &noticeServiceMock{notices: []models.Notice{}}
	r := newNoticeRouter(svc, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/notices?category=&search=", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.NoticeFilter{}, svc.filter)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestNoticeHandlerListFlagsOnlyHonourTrue(t *testing.T) {
	svc := &noticeServiceMock{}
	r := newNoticeRouter(svc, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/notices?priority=maybe&archived=1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.filter.Priority)
	assert.False(t, *svc.filter.Priority)
	assert.False(t, svc.filter.Archived)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/notices?priority=TRUE&archived=True", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.filter.Priority)
	assert.True(t, *svc.filter.Priority)
	assert.True(t, svc.filter.Archived)
}

func TestNoticeHandlerListHidesInternalErrors(t *testing.T) {
	svc := &noticeServiceMock{err: appErrors.Internal(errors.New("dial tcp: refused"), "failed to list notices")}
	r := newNoticeRouter(svc, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/notices", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

func TestNoticeHandlerGet(t *testing.T) {
	svc := &noticeServiceMock{}
	r := newNoticeRouter(svc, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/notices/7", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), svc.lastID)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "2025-08-17", body["expiry_date"])
	assert.Nil(t, body["title_ta"])
}

func TestNoticeHandlerGetNotFound(t *testing.T) {
	svc := &noticeServiceMock{getErr: appErrors.Clone(appErrors.ErrNotFound, "Notice not found")}
	r := newNoticeRouter(svc, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/notices/404", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Notice not found"}`, w.Body.String())
}

func TestNoticeHandlerRejectsNonNumericID(t *testing.T) {
	r := newNoticeRouter(&noticeServiceMock{}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/notices/abc", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNoticeHandlerCreateMultipart(t *testing.T) {
	svc := &noticeServiceMock{}
	r := newNoticeRouter(svc, nil)

	body, contentType := multipartBody(t, map[string]string{
		"title":       "Health camp",
		"title_ta":    "சுகாதார முகாம்",
		"content":     "Free camp",
		"category":    "event",
		"priority":    "false",
		"expiry_date": "2025-08-23",
	}, "camp.pdf", "%PDF-1.4")
	req := httptest.NewRequest(http.MethodPost, "/api/notices", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":5,"message":"Notice created successfully"}`, w.Body.String())
	assert.Equal(t, "Health camp", svc.createReq.Title)
	require.NotNil(t, svc.createReq.TitleTA)
	assert.Equal(t, "சுகாதார முகாம்", *svc.createReq.TitleTA)
	assert.Nil(t, svc.createReq.ContentTA)
	assert.Equal(t, "2025-08-23", svc.createReq.ExpiryDate)
	assert.Equal(t, "camp.pdf", svc.uploadName)
	assert.Equal(t, "%PDF-1.4", svc.uploadBody)
}

func TestNoticeHandlerCreateWithoutFile(t *testing.T) {
	svc := &noticeServiceMock{}
	r := newNoticeRouter(svc, nil)

	body, contentType := multipartBody(t, map[string]string{"title": "t", "content": "c", "category": "general", "expiry_date": "2025-09-01"}, "", "")
	req := httptest.NewRequest(http.MethodPost, "/api/notices", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, svc.uploadName)
}

func TestNoticeHandlerCreateValidationError(t *testing.T) {
	svc := &noticeServiceMock{err: appErrors.Clone(appErrors.ErrValidation, "title is required")}
	r := newNoticeRouter(svc, nil)

	body, contentType := multipartBody(t, map[string]string{"content": "c"}, "", "")
	req := httptest.NewRequest(http.MethodPost, "/api/notices", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"title is required"}`, w.Body.String())
}

func TestNoticeHandlerUpdatePassesOnlySuppliedFields(t *testing.T) {
	svc := &noticeServiceMock{}
	r := newNoticeRouter(svc, nil)

	body, contentType := multipartBody(t, map[string]string{"priority": "true", "content_ta": ""}, "", "")
	req := httptest.NewRequest(http.MethodPut, "/api/notices/3", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Notice updated successfully"}`, w.Body.String())
	assert.Equal(t, int64(3), svc.lastID)
	require.NotNil(t, svc.updateReq.Priority)
	assert.Equal(t, "true", *svc.updateReq.Priority)
	require.NotNil(t, svc.updateReq.ContentTA)
	assert.Equal(t, "", *svc.updateReq.ContentTA)
	assert.Nil(t, svc.updateReq.Title)
	assert.Nil(t, svc.updateReq.ExpiryDate)
}

func TestNoticeHandlerDeleteAndArchive(t *testing.T) {
	svc := &noticeServiceMock{}
	r := newNoticeRouter(svc, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/notices/9", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Notice deleted successfully"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/notices/9/archive", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Notice archived successfully"}`, w.Body.String())
	assert.Equal(t, int64(9), svc.lastID)
}

func TestNoticeHandlerExport(t *testing.T) {
	exporter := &exporterMock{}
	r := newNoticeRouter(&noticeServiceMock{}, exporter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/notices/export?format=csv", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", exporter.format)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "notices-2025-08-14.csv")
	assert.Equal(t, "ID\n1\n", w.Body.String())
}

type memoryNoticeStore struct {
	notices     map[int64]models.Notice
	lastChanges models.NoticeChanges
}

func (s *memoryNoticeStore) List(ctx context.Context, filter models.NoticeFilter) ([]models.Notice, error) {
	return []models.Notice{}, nil
}

func (s *memoryNoticeStore) GetByID(ctx context.Context, id int64) (*models.Notice, error) {
	n, ok := s.notices[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &n, nil
}

func (s *memoryNoticeStore) Create(ctx context.Context, notice *models.Notice) (int64, error) {
	notice.ID = int64(len(s.notices) + 1)
	s.notices[notice.ID] = *notice
	return notice.ID, nil
}

func (s *memoryNoticeStore) Update(ctx context.Context, id int64, changes models.NoticeChanges) (int64, error) {
	s.lastChanges = changes
	if _, ok := s.notices[id]; !ok {
		return 0, nil
	}
	return 1, nil
}

func (s *memoryNoticeStore) Delete(ctx context.Context, id int64) (int64, error) {
	return 0, nil
}

func (s *memoryNoticeStore) Archive(ctx context.Context, id int64) (int64, error) {
	return 0, nil
}

func TestNoticeHandlerBlankLinkFromForm(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &memoryNoticeStore{notices: map[int64]models.Notice{}}
	svc := service.NewNoticeService(store, nil, nil, nil, nil, nil, service.NoticeServiceConfig{})
	r := gin.New()
	h := NewNoticeHandler(svc, nil)
	r.POST("/api/notices", h.Create)
	r.PUT("/api/notices/:id", h.Update)

	body, contentType := multipartBody(t, map[string]string{
		"title":       "Road works",
		"content":     "Blocks 1-5",
		"category":    "tender",
		"expiry_date": "2025-09-01",
		"link":        "",
	}, "", "")
	req := httptest.NewRequest(http.MethodPost, "/api/notices", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, store.notices, int64(1))
	assert.Nil(t, store.notices[1].Link)

	body, contentType = multipartBody(t, map[string]string{"link": ""}, "", "")
	req = httptest.NewRequest(http.MethodPut, "/api/notices/1", body)
	req.Header.Set("Content-Type", contentType)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"Notice updated successfully"}`, w.Body.String())
	assert.True(t, store.lastChanges.ClearLink)
	assert.Nil(t, store.lastChanges.Link)

	body, contentType = multipartBody(t, map[string]string{"link": "not a url"}, "", "")
	req = httptest.NewRequest(http.MethodPut, "/api/notices/1", body)
	req.Header.Set("Content-Type", contentType)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"link must be a valid URL"}`, w.Body.String())
}
