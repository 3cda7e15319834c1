package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/annotation-layers/backend/internal/auth"
	"github.com/annotation-layers/backend/internal/config"
	"github.com/annotation-layers/backend/internal/i18n"
	"github.com/annotation-layers/backend/internal/models"
	"github.com/annotation-layers/backend/internal/service"
	"github.com/annotation-layers/backend/internal/timerange"
)

// MockStore implements Store for testing
type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListLayers(ctx context.Context) ([]models.AnnotationLayer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AnnotationLayer), args.Error(1)
}

func (m *MockStore) GetLayer(ctx context.Context, id string) (*models.AnnotationLayer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnnotationLayer), args.Error(1)
}

func (m *MockStore) CreateLayer(ctx context.Context, req models.CreateLayerRequest) (*models.AnnotationLayer, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnnotationLayer), args.Error(1)
}

func (m *MockStore) UpdateLayer(ctx context.Context, id string, req models.UpdateLayerRequest) (*models.AnnotationLayer, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnnotationLayer), args.Error(1)
}

func (m *MockStore) DeleteLayer(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) ListAnnotations(ctx context.Context) ([]models.Annotation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Annotation), args.Error(1)
}

func (m *MockStore) GetAnnotation(ctx context.Context, id string) (*models.Annotation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Annotation), args.Error(1)
}

func (m *MockStore) CreateAnnotation(ctx context.Context, req models.CreateAnnotationRequest) (*models.Annotation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Annotation), args.Error(1)
}

func (m *MockStore) UpdateAnnotation(ctx context.Context, id string, req models.UpdateAnnotationRequest) (*models.Annotation, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Annotation), args.Error(1)
}

func (m *MockStore) DeleteAnnotation(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

const (
	layerID      = "4f1c2b4e-7a51-4c9e-9a51-2f0b8f0c6d11"
	annotationID = "9a0d7c3e-1b2f-4e5a-8c6d-7e8f9a0b1c2d"
)

type testServer struct {
	engine *gin.Engine
	store  *MockStore
	token  string
}

func setupTestRouter(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authn := auth.New(&config.Config{
		SecretKey:     "test-secret",
		SessionTTL:    time.Hour,
		AdminUsername: "admin",
		AdminPassword: "hunter2",
		Environment:   "development",
	}, zap.NewNop())
	token, err := authn.Issue("admin")
	require.NoError(t, err)

	store := new(MockStore)
	h := NewHandler(store, authn, i18n.New("en"), zap.NewNop())

	engine := gin.New()
	h.RegisterRoutes(engine.Group("/api/v1"))

	return &testServer{engine: engine, store: store, token: token}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func day(d int) *time.Time {
	t := time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func sampleAnnotation() *models.Annotation {
	return &models.Annotation{
		ID:         annotationID,
		Layer:      models.LayerRef{ID: layerID, Name: "Deploys"},
		ShortDescr: "release 1.2",
		StartDttm:  day(1),
		EndDttm:    day(2),
	}
}

func TestRequiresAuthentication(t *testing.T) {
	s := setupTestRouter(t)
	s.token = ""

	w := s.do(http.MethodGet, "/api/v1/annotation/", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	s.store.AssertNotCalled(t, "ListAnnotations", mock.Anything)
}

func TestRequiresAuthentication_Localized(t *testing.T) {
	s := setupTestRouter(t)
	s.token = ""

	w := s.do(http.MethodGet, "/api/v1/annotation/?lang=fr", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Jeton d'authentification manquant.", decode(t, w)["message"])
}

func TestLogin(t *testing.T) {
	s := setupTestRouter(t)
	s.token = ""

	w := s.do(http.MethodPost, "/api/v1/security/login", `{"username":"admin","password":"hunter2"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.Contains(t, w.Header().Get("Set-Cookie"), auth.CookieName+"=")

	s.token = resp.AccessToken
	s.store.On("ListLayers", mock.Anything).Return([]models.AnnotationLayer{}, nil)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/annotationlayer/", "").Code)
}

func TestLogin_BadCredentials(t *testing.T) {
	s := setupTestRouter(t)
	s.token = ""

	w := s.do(http.MethodPost, "/api/v1/security/login", `{"username":"admin","password":"nope"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Header().Get("Set-Cookie"))
}

func TestListAnnotations(t *testing.T) {
	s := setupTestRouter(t)
	s.store.On("ListAnnotations", mock.Anything).Return([]models.Annotation{*sampleAnnotation()}, nil)

	w := s.do(http.MethodGet, "/api/v1/annotation/", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, []string{annotationID}, resp.IDs)
	assert.Equal(t, []string{"layer.id", "layer.name", "short_descr", "start_dttm", "end_dttm"}, resp.ListColumns)
	assert.Equal(t, "List Annotation", resp.ListTitle)
	assert.Equal(t, "Short Descr", resp.LabelColumns["short_descr"])

	require.Len(t, resp.Result, 1)
	assert.Equal(t, layerID, resp.Result[0]["layer.id"])
	assert.Equal(t, "Deploys", resp.Result[0]["layer.name"])
	assert.Equal(t, "2024-01-01T00:00:00Z", resp.Result[0]["start_dttm"])
	assert.NotContains(t, resp.Result[0], "long_descr")
}

func TestGetAnnotation(t *testing.T) {
	s := setupTestRouter(t)
	s.store.On("GetAnnotation", mock.Anything, annotationID).Return(sampleAnnotation(), nil)

	w := s.do(http.MethodGet, "/api/v1/annotation/"+annotationID, "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.ItemResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, annotationID, resp.ID)
	assert.Equal(t, "Deploys", resp.Result["layer.name"])
	assert.Equal(t, "Show Annotation", resp.ShowTitle)
}

func TestGetAnnotation_NotFound(t *testing.T) {
	s := setupTestRouter(t)
	s.store.On("GetAnnotation", mock.Anything, "missing").Return(nil, service.ErrNotFound)

	w := s.do(http.MethodGet, "/api/v1/annotation/missing", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decode(t, w)["error"])
}

func TestCreateAnnotation_OnlyEndGiven(t *testing.T) {
	s := setupTestRouter(t)

	created := sampleAnnotation()
	created.StartDttm = day(2)
	s.store.On("CreateAnnotation", mock.Anything, mock.MatchedBy(func(req models.CreateAnnotationRequest) bool {
		return req.Layer == layerID && req.StartDttm == nil && req.EndDttm != nil && req.EndDttm.Equal(*day(2))
	})).Return(created, nil)

	w := s.do(http.MethodPost, "/api/v1/annotation/",
		`{"layer":"`+layerID+`","short_descr":"release 1.2","end_dttm":"2024-01-02T00:00:00Z"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp models.CreatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, annotationID, resp.ID)
	assert.Equal(t, resp.Result["start_dttm"], resp.Result["end_dttm"])
	s.store.AssertExpectations(t)
}

func TestCreateAnnotation_NaiveTimestamps(t *testing.T) {
	for _, end := range []string{"2024-01-02T00:00", "2024-01-02T00:00:00", "2024-01-02 00:00:00"} {
		t.Run(end, func(t *testing.T) {
			s := setupTestRouter(t)
			s.store.On("CreateAnnotation", mock.Anything, mock.MatchedBy(func(req models.CreateAnnotationRequest) bool {
				return req.StartDttm == nil && req.EndDttm != nil && req.EndDttm.Equal(*day(2))
			})).Return(sampleAnnotation(), nil)

			w := s.do(http.MethodPost, "/api/v1/annotation/", `{"layer":"`+layerID+`","end_dttm":"`+end+`"}`)

			assert.Equal(t, http.StatusCreated, w.Code)
			s.store.AssertExpectations(t)
		})
	}
}

func TestCreateAnnotation_UnreadableTimestamp(t *testing.T) {
	s := setupTestRouter(t)

	w := s.do(http.MethodPost, "/api/v1/annotation/", `{"layer":"`+layerID+`","end_dttm":"next tuesday"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	s.store.AssertNotCalled(t, "CreateAnnotation", mock.Anything, mock.Anything)
}

func TestCreateAnnotation_RangeRejected(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		message string
	}{
		{"english", "/api/v1/annotation/", timerange.MsgEndBeforeStart},
		{"french", "/api/v1/annotation/?lang=fr", "L'heure de fin de l'annotation ne peut pas précéder l'heure de début."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupTestRouter(t)
			s.store.On("CreateAnnotation", mock.Anything, mock.Anything).Return(nil, &service.ValidationError{
				Fields: map[string][]string{timerange.Field: {timerange.MsgEndBeforeStart}},
			})

			w := s.do(http.MethodPost, tt.path,
				`{"layer":"`+layerID+`","start_dttm":"2024-01-02T00:00:00Z","end_dttm":"2024-01-01T00:00:00Z"}`)

			require.Equal(t, http.StatusUnprocessableEntity, w.Code)
			var resp models.ValidationErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, []string{tt.message}, resp.Message[timerange.Field])
		})
	}
}

func TestCreateAnnotation_BindingErrors(t *testing.T) {
	s := setupTestRouter(t)

	w := s.do(http.MethodPost, "/api/v1/annotation/", `{"short_descr":"no layer"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp models.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Missing data for required field."}, resp.Message["layer"])

	w = s.do(http.MethodPost, "/api/v1/annotation/", `{"layer":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.store.AssertNotCalled(t, "CreateAnnotation", mock.Anything, mock.Anything)
}

func TestUpdateAnnotation_ExplicitNullClearsStart(t *testing.T) {
	s := setupTestRouter(t)

	updated := sampleAnnotation()
	updated.StartDttm = day(2)
	s.store.On("UpdateAnnotation", mock.Anything, annotationID, mock.MatchedBy(func(req models.UpdateAnnotationRequest) bool {
		return req.StartDttm.Set && req.StartDttm.Value == nil && !req.EndDttm.Set && req.ShortDescr == nil
	})).Return(updated, nil)

	w := s.do(http.MethodPut, "/api/v1/annotation/"+annotationID, `{"start_dttm":null}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.UpdatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2024-01-02T00:00:00Z", resp.Result["start_dttm"])
	s.store.AssertExpectations(t)
}

func TestUpdateAnnotation_NaiveTimestamp(t *testing.T) {
	s := setupTestRouter(t)
	s.store.On("UpdateAnnotation", mock.Anything, annotationID, mock.MatchedBy(func(req models.UpdateAnnotationRequest) bool {
		return req.StartDttm.Set && req.StartDttm.Value != nil && req.StartDttm.Value.Equal(*day(1))
	})).Return(sampleAnnotation(), nil)

	w := s.do(http.MethodPut, "/api/v1/annotation/"+annotationID, `{"start_dttm":"2024-01-01T00:00"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	s.store.AssertExpectations(t)
}

func TestUpdateAnnotation_BlankMetadataClears(t *testing.T) {
	s := setupTestRouter(t)
	s.store.On("UpdateAnnotation", mock.Anything, annotationID, mock.MatchedBy(func(req models.UpdateAnnotationRequest) bool {
		return req.JSONMetadata != nil && *req.JSONMetadata == ""
	})).Return(sampleAnnotation(), nil)

	w := s.do(http.MethodPut, "/api/v1/annotation/"+annotationID, `{"json_metadata":""}`)

	assert.Equal(t, http.StatusOK, w.Code)
	s.store.AssertExpectations(t)
}

func TestUpdateAnnotation_BadMetadata(t *testing.T) {
	s := setupTestRouter(t)

	w := s.do(http.MethodPut, "/api/v1/annotation/"+annotationID, `{"json_metadata":"{not json"}`)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp models.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Not a valid JSON."}, resp.Message["json_metadata"])
	s.store.AssertNotCalled(t, "UpdateAnnotation", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateAnnotation_RangeRejected(t *testing.T) {
	s := setupTestRouter(t)
	s.store.On("UpdateAnnotation", mock.Anything, annotationID, mock.Anything).Return(nil, &service.ValidationError{
		Fields: map[string][]string{timerange.Field: {timerange.MsgEndBeforeStart}},
	})

	w := s.do(http.MethodPut, "/api/v1/annotation/"+annotationID, `{"end_dttm":"2023-12-31T00:00:00Z"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestDeleteAnnotation(t *testing.T) {
	s := setupTestRouter(t)
	s.store.On("DeleteAnnotation", mock.Anything, annotationID).Return(nil)

	w := s.do(http.MethodDelete, "/api/v1/annotation/"+annotationID, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", decode(t, w)["message"])
}

func TestAnnotationInfo(t *testing.T) {
	s := setupTestRouter(t)

	w := s.do(http.MethodGet, "/api/v1/annotation/_info", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.InfoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Add Annotation", resp.AddTitle)

	byName := map[string]models.InfoColumn{}
	for _, col := range resp.EditColumns {
		byName[col.Name] = col
	}
	assert.True(t, byName["layer"].Required)
	assert.Contains(t, byName["json_metadata"].Description, "additional metadata")
}

func TestCreateLayer(t *testing.T) {
	s := setupTestRouter(t)
	s.store.On("CreateLayer", mock.Anything, models.CreateLayerRequest{Name: "Deploys", Descr: "prod"}).
		Return(&models.AnnotationLayer{ID: layerID, Name: "Deploys", Descr: "prod"}, nil)

	w := s.do(http.MethodPost, "/api/v1/annotationlayer/", `{"name":"Deploys","descr":"prod"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp models.CreatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, layerID, resp.ID)
	assert.Equal(t, models.Record{"name": "Deploys", "descr": "prod"}, resp.Result)
}

func TestGetLayer_Localized(t *testing.T) {
	s := setupTestRouter(t)
	s.store.On("GetLayer", mock.Anything, layerID).Return(&models.AnnotationLayer{ID: layerID, Name: "Deploys"}, nil)

	w := s.do(http.MethodGet, "/api/v1/annotationlayer/"+layerID+"?lang=es", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.ItemResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Mostrar capa de anotación", resp.ShowTitle)
	assert.Equal(t, "Nombre", resp.LabelColumns["name"])
}

func TestDeleteLayer_InUse(t *testing.T) {
	s := setupTestRouter(t)
	s.store.On("DeleteLayer", mock.Anything, layerID).Return(service.ErrLayerInUse)

	w := s.do(http.MethodDelete, "/api/v1/annotationlayer/"+layerID, "")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "conflict", decode(t, w)["error"])
}

func TestListLayers_StoreFailure(t *testing.T) {
	s := setupTestRouter(t)
	s.store.On("ListLayers", mock.Anything).Return(nil, errors.New("connection reset"))

	w := s.do(http.MethodGet, "/api/v1/annotationlayer/", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal_error", decode(t, w)["error"])
}

func TestMenu(t *testing.T) {
	s := setupTestRouter(t)

	w := s.do(http.MethodGet, "/api/v1/menu/", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.MenuResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Result, 1)
	assert.Equal(t, "Manage", resp.Result[0].Name)
	require.Len(t, resp.Result[0].Childs, 2)
	assert.Equal(t, "/annotationlayermodelview/list/", resp.Result[0].Childs[0].URL)
	assert.Equal(t, "/annotationmodelview/list/", resp.Result[0].Childs[1].URL)
}
