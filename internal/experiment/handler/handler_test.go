package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"laurelin/internal/experiment/handler/mocks"
	"laurelin/internal/experiment/models"
	dErrors "laurelin/pkg/domain-errors"
	"laurelin/pkg/requestcontext"
)

type ExperimentHandlerSuite struct {
	suite.Suite
}

func TestExperimentHandlerSuite(t *testing.T) {
	suite.Run(t, new(ExperimentHandlerSuite))
}

func newTestHandler(t *testing.T) (*Handler, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := New(mockService, logger, nil, nil)
	r := chi.NewRouter()
	handler.Register(r)
	return handler, mockService
}

// withRouteParam attaches a chi URL parameter so handlers invoked directly
// can still resolve {name}.
func withRouteParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func withUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(requestcontext.WithUserID(req.Context(), userID))
}

func (s *ExperimentHandlerSuite) TestHandleCreateExperiment() {
	handler, mockService := newTestHandler(s.T())
	mockService.EXPECT().CreateExperiment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *models.Experiment) error {
			s.Equal("model_comparison", e.Name)
			s.Equal(map[string]float64{"openai": 0.5, "google": 0.5}, e.Variants)
			e.Status = models.StatusActive
			e.CreatedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
			e.UpdatedAt = e.CreatedAt
			return nil
		})

	body, err := json.Marshal(CreateExperimentRequest{
		Name:     "model_comparison",
		Variants: map[string]float64{"openai": 0.5, "google": 0.5},
	})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/experiments", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.handleCreateExperiment(w, req)

	assert.Equal(s.T(), http.StatusCreated, w.Code, w.Body.String())
	var resp ExperimentEnvelope
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(s.T(), resp.Success)
	assert.Equal(s.T(), "model_comparison", resp.Experiment.Name)
	assert.Equal(s.T(), "active", resp.Experiment.Status)
}

func (s *ExperimentHandlerSuite) TestHandleCreateExperiment_Conflict() {
	handler, mockService := newTestHandler(s.T())
	mockService.EXPECT().CreateExperiment(gomock.Any(), gomock.Any()).
		Return(dErrors.New(dErrors.CodeConflict, "experiment already exists"))

	body, err := json.Marshal(CreateExperimentRequest{
		Name:     "model_comparison",
		Variants: map[string]float64{"openai": 0.5, "google": 0.5},
	})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/experiments", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.handleCreateExperiment(w, req)

	assert.Equal(s.T(), http.StatusConflict, w.Code)
}

func (s *ExperimentHandlerSuite) TestHandleCreateExperiment_InvalidJSON() {
	handler, _ := newTestHandler(s.T())

	req := httptest.NewRequest(http.MethodPost, "/experiments", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()
	handler.handleCreateExperiment(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *ExperimentHandlerSuite) TestHandleGetExperiment() {
	handler, mockService := newTestHandler(s.T())
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mockService.EXPECT().GetExperiment(gomock.Any(), "model_comparison").Return(&models.Experiment{
		Name:      "model_comparison",
		Variants:  map[string]float64{"openai": 0.5, "google": 0.5},
		Status:    models.StatusActive,
		CreatedAt: created,
		UpdatedAt: created,
	}, nil)

	req := withRouteParam(httptest.NewRequest(http.MethodGet, "/experiments/model_comparison", nil), "name", "model_comparison")
	w := httptest.NewRecorder()
	handler.handleGetExperiment(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	var resp ExperimentEnvelope
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "model_comparison", resp.Experiment.Name)
	assert.Equal(s.T(), 0.5, resp.Experiment.Variants["openai"])
}

func (s *ExperimentHandlerSuite) TestHandleGetExperiment_NotFound() {
	handler, mockService := newTestHandler(s.T())
	mockService.EXPECT().GetExperiment(gomock.Any(), "missing").
		Return(nil, dErrors.New(dErrors.CodeNotFound, "experiment not found"))

	req := withRouteParam(httptest.NewRequest(http.MethodGet, "/experiments/missing", nil), "name", "missing")
	w := httptest.NewRecorder()
	handler.handleGetExperiment(w, req)

	assert.Equal(s.T(), http.StatusNotFound, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "not_found", resp["error"])
}

func (s *ExperimentHandlerSuite) TestHandleListExperiments() {
	handler, mockService := newTestHandler(s.T())
	mockService.EXPECT().ListExperiments(gomock.Any()).Return([]*models.Experiment{
		{Name: "a", Variants: map[string]float64{"control": 1}, Status: models.StatusActive},
		{Name: "b", Variants: map[string]float64{"control": 1}, Status: models.StatusPaused},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/experiments", nil)
	w := httptest.NewRecorder()
	handler.handleListExperiments(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var resp ListExperimentsResponse
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(s.T(), resp.Success)
	assert.Len(s.T(), resp.Experiments, 2)
}

func (s *ExperimentHandlerSuite) TestHandleSetStatus() {
	handler, mockService := newTestHandler(s.T())
	mockService.EXPECT().SetExperimentStatus(gomock.Any(), "model_comparison", models.StatusPaused).Return(nil)

	body, err := json.Marshal(SetStatusRequest{Status: "paused"})
	require.NoError(s.T(), err)

	req := withRouteParam(httptest.NewRequest(http.MethodPut, "/experiments/model_comparison/status", bytes.NewReader(body)), "name", "model_comparison")
	w := httptest.NewRecorder()
	handler.handleSetStatus(w, req)

	assert.Equal(s.T(), http.StatusNoContent, w.Code)
}

func (s *ExperimentHandlerSuite) TestHandleSetStatus_InvalidStatus() {
	handler, mockService := newTestHandler(s.T())
	mockService.EXPECT().SetExperimentStatus(gomock.Any(), "model_comparison", models.ExperimentStatus("archived")).
		Return(dErrors.New(dErrors.CodeValidation, "invalid status"))

	body, err := json.Marshal(SetStatusRequest{Status: "archived"})
	require.NoError(s.T(), err)

	req := withRouteParam(httptest.NewRequest(http.MethodPut, "/experiments/model_comparison/status", bytes.NewReader(body)), "name", "model_comparison")
	w := httptest.NewRecorder()
	handler.handleSetStatus(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *ExperimentHandlerSuite) TestHandleAssign() {
	handler, mockService := newTestHandler(s.T())
	mockService.EXPECT().Assign(gomock.Any(), "user123", "model_comparison").Return("openai", nil)

	req := httptest.NewRequest(http.MethodPost, "/experiments/model_comparison/assign", nil)
	req = withRouteParam(req, "name", "model_comparison")
	req = withUser(req, "user123")
	w := httptest.NewRecorder()
	handler.handleAssign(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	var resp AssignResponse
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(s.T(), resp.Success)
	assert.Equal(s.T(), "model_comparison", resp.ExperimentName)
	assert.Equal(s.T(), "openai", resp.Variant)
	assert.Equal(s.T(), "user123", resp.UserID)
}

func (s *ExperimentHandlerSuite) TestHandleAssign_MissingUser() {
	handler, _ := newTestHandler(s.T())

	req := withRouteParam(httptest.NewRequest(http.MethodPost, "/experiments/model_comparison/assign", nil), "name", "model_comparison")
	w := httptest.NewRecorder()
	handler.handleAssign(w, req)

	assert.Equal(s.T(), http.StatusInternalServerError, w.Code)
}

func (s *ExperimentHandlerSuite) TestHandleTrack() {
	handler, mockService := newTestHandler(s.T())
	mockService.EXPECT().Track(
		gomock.Any(), "user123", "model_comparison", "message_sent",
		map[string]any{"tokens": float64(42)},
	).Return(nil)

	body, err := json.Marshal(TrackEventRequest{
		EventType: "message_sent",
		EventData: map[string]any{"tokens": 42},
	})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/experiments/model_comparison/track", bytes.NewReader(body))
	req = withRouteParam(req, "name", "model_comparison")
	req = withUser(req, "user123")
	w := httptest.NewRecorder()
	handler.handleTrack(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	var resp TrackResponse
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(s.T(), resp.Success)
	assert.Equal(s.T(), "Event tracked successfully", resp.Message)
}

func (s *ExperimentHandlerSuite) TestHandleTrack_MissingEventType() {
	handler, mockService := newTestHandler(s.T())
	mockService.EXPECT().Track(gomock.Any(), "user123", "model_comparison", "", gomock.Any()).
		Return(dErrors.New(dErrors.CodeBadRequest, "event_type is required"))

	body, err := json.Marshal(TrackEventRequest{})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/experiments/model_comparison/track", bytes.NewReader(body))
	req = withRouteParam(req, "name", "model_comparison")
	req = withUser(req, "user123")
	w := httptest.NewRecorder()
	handler.handleTrack(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *ExperimentHandlerSuite) TestHandleResults() {
	handler, mockService := newTestHandler(s.T())
	mockService.EXPECT().ComputeResults(gomock.Any(), "model_comparison").Return(&models.Results{
		ExperimentName: "model_comparison",
		VariantCounts:  map[string]int{"openai": 3, "google": 2},
		EventCounts: map[string]map[string]int{
			"openai": {"message_sent": 4},
			"google": {"message_sent": 1},
		},
		TotalUsers:  5,
		TotalEvents: 5,
	}, nil)

	req := withRouteParam(httptest.NewRequest(http.MethodGet, "/experiments/model_comparison/results", nil), "name", "model_comparison")
	w := httptest.NewRecorder()
	handler.handleResults(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), true, resp["success"])
	results := resp["results"].(map[string]any)
	assignments := results["variant_assignments"].(map[string]any)
	assert.Equal(s.T(), float64(3), assignments["openai"])
	assert.Equal(s.T(), float64(5), results["total_users"])
}

func (s *ExperimentHandlerSuite) TestHandleResults_StorageUnavailable() {
	handler, mockService := newTestHandler(s.T())
	mockService.EXPECT().ComputeResults(gomock.Any(), "model_comparison").
		Return(nil, dErrors.New(dErrors.CodeUnavailable, "event storage unavailable"))

	req := withRouteParam(httptest.NewRequest(http.MethodGet, "/experiments/model_comparison/results", nil), "name", "model_comparison")
	w := httptest.NewRecorder()
	handler.handleResults(w, req)

	assert.Equal(s.T(), http.StatusServiceUnavailable, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	_, hasDescription := resp["error_description"]
	assert.False(s.T(), hasDescription)
}
