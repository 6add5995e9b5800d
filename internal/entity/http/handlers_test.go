package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	entityDomain "github.com/allisson/tablegate/internal/entity/domain"
	"github.com/allisson/tablegate/internal/entity/http/dto"
	entityUseCase "github.com/allisson/tablegate/internal/entity/usecase"
)

// mockEntityUseCase is a mock implementation of EntityUseCase for testing.
type mockEntityUseCase struct {
	mock.Mock
}

func (m *mockEntityUseCase) Query(
	ctx context.Context,
	opts entityUseCase.TableOptions,
	query entityDomain.Query,
) ([]entityDomain.Record, error) {
	args := m.Called(ctx, opts, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entityDomain.Record), args.Error(1)
}

func (m *mockEntityUseCase) Get(
	ctx context.Context,
	opts entityUseCase.TableOptions,
	partitionKey, rowKey string,
) (entityDomain.Record, error) {
	args := m.Called(ctx, opts, partitionKey, rowKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entityDomain.Record), args.Error(1)
}

func (m *mockEntityUseCase) Publish(
	ctx context.Context,
	opts entityUseCase.TableOptions,
	payload string,
) (entityDomain.Record, error) {
	args := m.Called(ctx, opts, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entityDomain.Record), args.Error(1)
}

func (m *mockEntityUseCase) Stage(payload string) (*entityUseCase.StageOutput, error) {
	args := m.Called(payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entityUseCase.StageOutput), args.Error(1)
}

func (m *mockEntityUseCase) PublishStaged(
	ctx context.Context,
	opts entityUseCase.TableOptions,
	stagingID string,
) (entityDomain.Record, error) {
	args := m.Called(ctx, opts, stagingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entityDomain.Record), args.Error(1)
}

func (m *mockEntityUseCase) Delete(
	ctx context.Context,
	opts entityUseCase.TableOptions,
	partitionKey, rowKey string,
) error {
	args := m.Called(ctx, opts, partitionKey, rowKey)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func performJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestQueryHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(uc *mockEntityUseCase) *gin.Engine {
		router := gin.New()
		router.POST("/v1/query", NewQueryHandler(uc, testLogger()).QueryHandler)
		return router
	}

	t.Run("Success_FilterAndProjection", func(t *testing.T) {
		uc := &mockEntityUseCase{}
		records := []entityDomain.Record{
			{entityDomain.RowKeyField: "v1", "color": "blue"},
		}
		uc.On("Query", mock.Anything,
			entityUseCase.TableOptions{Table: "inventory"},
			entityDomain.Query{Filter: "color eq 'blue'", Fields: []string{"RowKey", "color"}}).
			Return(records, nil).
			Once()

		w := performJSON(newRouter(uc), "/v1/query", gin.H{
			"table":  "inventory",
			"filter": "color eq 'blue'",
			"fields": []string{"RowKey", "color"},
		})
		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.QueryResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, records, resp.Results)
		uc.AssertExpectations(t)
	})

	t.Run("Error_InvalidFilterIsBadRequest", func(t *testing.T) {
		uc := &mockEntityUseCase{}
		uc.On("Query", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, entityDomain.ErrInvalidFilter).
			Once()

		w := performJSON(newRouter(uc), "/v1/query", gin.H{"filter": "color like 'blue'"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_UnsupportedDriverRejected", func(t *testing.T) {
		uc := &mockEntityUseCase{}
		w := performJSON(newRouter(uc), "/v1/query", gin.H{"driver": "sqlite"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		uc.AssertNotCalled(t, "Query")
	})
}

func TestEntryHandler_Get(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(uc *mockEntityUseCase) *gin.Engine {
		router := gin.New()
		handler := NewEntryHandler(uc, testLogger())
		router.POST("/v1/get", handler.GetHandler)
		return router
	}

	t.Run("Success_Found", func(t *testing.T) {
		uc := &mockEntityUseCase{}
		record := entityDomain.Record{
			entityDomain.PartitionKeyField: "pkey",
			entityDomain.RowKeyField:       "v1",
			"color":                        "blue",
		}
		uc.On("Get", mock.Anything, entityUseCase.TableOptions{}, "", "v1").
			Return(record, nil).
			Once()

		w := performJSON(newRouter(uc), "/v1/get", gin.H{"row_key": "v1"})
		assert.Equal(t, http.StatusOK, w.Code)

		var got dto.EntryResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, record, got.Entry)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		uc := &mockEntityUseCase{}
		uc.On("Get", mock.Anything, mock.Anything, "", "ghost").
			Return(nil, entityDomain.ErrEntityNotFound).
			Once()

		w := performJSON(newRouter(uc), "/v1/get", gin.H{"row_key": "ghost"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error_RemoteFailureIsNotNotFound", func(t *testing.T) {
		uc := &mockEntityUseCase{}
		uc.On("Get", mock.Anything, mock.Anything, "", "v1").
			Return(nil, context.DeadlineExceeded).
			Once()

		w := performJSON(newRouter(uc), "/v1/get", gin.H{"row_key": "v1"})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("Error_MissingRowKey", func(t *testing.T) {
		uc := &mockEntityUseCase{}
		w := performJSON(newRouter(uc), "/v1/get", gin.H{"partition_key": "pkey"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		uc.AssertNotCalled(t, "Get")
	})
}

func TestEntryHandler_Delete(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(uc *mockEntityUseCase) *gin.Engine {
		router := gin.New()
		router.POST("/v1/delete", NewEntryHandler(uc, testLogger()).DeleteHandler)
		return router
	}

	t.Run("Success_Deleted", func(t *testing.T) {
		uc := &mockEntityUseCase{}
		uc.On("Delete", mock.Anything, entityUseCase.TableOptions{}, "pkey", "v1").
			Return(nil).
			Once()

		w := performJSON(newRouter(uc), "/v1/delete", gin.H{"partition_key": "pkey", "row_key": "v1"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "entry deleted")
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		uc := &mockEntityUseCase{}
		uc.On("Delete", mock.Anything, mock.Anything, "", "ghost").
			Return(entityDomain.ErrEntityNotFound).
			Once()

		w := performJSON(newRouter(uc), "/v1/delete", gin.H{"row_key": "ghost"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func multipartBody(t *testing.T, fields map[string]string, fileContent string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	part, err := writer.CreateFormFile("file", "payload.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte(fileContent))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestPublishHandler_Upload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(uc *mockEntityUseCase, maxBytes int64) *gin.Engine {
		router := gin.New()
		router.POST("/v1/upload", NewPublishHandler(uc, maxBytes, testLogger()).UploadHandler)
		return router
	}

	t.Run("Success_MultipartFile", func(t *testing.T) {
		uc := &mockEntityUseCase{}
		record := entityDomain.Record{
			entityDomain.PartitionKeyField: "pkey",
			entityDomain.RowKeyField:       "v1",
			"prefix":                       "v1",
		}
		uc.On("Stage", "prefix = v1").
			Return(&entityUseCase.StageOutput{
				ID:        "handle-1",
				ExpiresAt: time.Now().UTC().Add(5 * time.Minute),
				Record:    record,
			}, nil).
			Once()

		body, contentType := multipartBody(t, nil, "prefix = v1")
		req := httptest.NewRequest(http.MethodPost, "/v1/upload", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		newRouter(uc, 1<<20).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp dto.StageResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "handle-1", resp.StagingID)
		assert.False(t, resp.ExpiresAt.IsZero())
	})

	t.Run("Success_RawBody", func(t *testing.T) {
		uc := &mockEntityUseCase{}
		uc.On("Stage", "prefix = v1").
			Return(&entityUseCase.StageOutput{ID: "handle-2"}, nil).
			Once()

		req := httptest.NewRequest(http.MethodPost, "/v1/upload", strings.NewReader("prefix = v1"))
		req.Header.Set("Content-Type", "text/plain")
		w := httptest.NewRecorder()
		newRouter(uc, 1<<20).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Error_PayloadTooLarge", func(t *testing.T) {
		uc := &mockEntityUseCase{}

		req := httptest.NewRequest(http.MethodPost, "/v1/upload", strings.NewReader("prefix = v1"))
		req.Header.Set("Content-Type", "text/plain")
		w := httptest.NewRecorder()
		newRouter(uc, 4).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		uc.AssertNotCalled(t, "Stage")
	})

	t.Run("Error_MalformedPayload", func(t *testing.T) {
		uc := &mockEntityUseCase{}
		uc.On("Stage", "no pairs here").
			Return(nil, entityDomain.ErrMalformedPayload).
			Once()

		req := httptest.NewRequest(http.MethodPost, "/v1/upload", strings.NewReader("no pairs here"))
		req.Header.Set("Content-Type", "text/plain")
		w := httptest.NewRecorder()
		newRouter(uc, 1<<20).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPublishHandler_Publish(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(uc *mockEntityUseCase) *gin.Engine {
		router := gin.New()
		router.POST("/v1/publish", NewPublishHandler(uc, 1<<20, testLogger()).PublishHandler)
		return router
	}

	t.Run("Success_DirectMultipart", func(t *testing.T) {
		uc := &mockEntityUseCase{}
		record := entityDomain.Record{
			entityDomain.PartitionKeyField: "pkey",
			entityDomain.RowKeyField:       "v1",
		}
		uc.On("Publish", mock.Anything,
			entityUseCase.TableOptions{Table: "inventory"}, "prefix = v1").
			Return(record, nil).
			Once()

		body, contentType := multipartBody(t, map[string]string{"table": "inventory"}, "prefix = v1")
		req := httptest.NewRequest(http.MethodPost, "/v1/publish", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		newRouter(uc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		uc.AssertExpectations(t)
	})

	t.Run("Success_StagedByHandle", func(t *testing.T) {
		uc := &mockEntityUseCase{}
		record := entityDomain.Record{
			entityDomain.PartitionKeyField: "pkey",
			entityDomain.RowKeyField:       "v1",
		}
		uc.On("PublishStaged", mock.Anything, entityUseCase.TableOptions{}, "handle-1").
			Return(record, nil).
			Once()

		w := performJSON(newRouter(uc), "/v1/publish", gin.H{"staging_id": "handle-1"})
		assert.Equal(t, http.StatusCreated, w.Code)

		var resp dto.PublishResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "pkey", resp.PartitionKey)
		assert.Equal(t, "v1", resp.RowKey)
	})

	t.Run("Error_UnknownStagingHandle", func(t *testing.T) {
		uc := &mockEntityUseCase{}
		uc.On("PublishStaged", mock.Anything, mock.Anything, "ghost").
			Return(nil, entityDomain.ErrStagingNotFound).
			Once()

		w := performJSON(newRouter(uc), "/v1/publish", gin.H{"staging_id": "ghost"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error_MissingStagingID", func(t *testing.T) {
		uc := &mockEntityUseCase{}
		w := performJSON(newRouter(uc), "/v1/publish", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		uc.AssertNotCalled(t, "PublishStaged")
	})
}
