package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"laurelin/internal/experiment/models"
	platformmetrics "laurelin/internal/platform/metrics"
	"laurelin/internal/platform/middleware"
	dErrors "laurelin/pkg/domain-errors"
	"laurelin/pkg/platform/httputil"
	"laurelin/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/experiment-mocks.go -package=mocks Service

// Service defines the interface for experiment operations.
type Service interface {
	CreateExperiment(ctx context.Context, experiment *models.Experiment) error
	GetExperiment(ctx context.Context, name string) (*models.Experiment, error)
	ListExperiments(ctx context.Context) ([]*models.Experiment, error)
	SetExperimentStatus(ctx context.Context, name string, status models.ExperimentStatus) error
	Assign(ctx context.Context, userID, experimentName string) (string, error)
	Track(ctx context.Context, userID, experimentName, eventType string, eventData map[string]any) error
	ComputeResults(ctx context.Context, experimentName string) (*models.Results, error)
}

// Handler wires experiment endpoints to the experiment service.
type Handler struct {
	service      Service
	logger       *slog.Logger
	metrics      *platformmetrics.Metrics
	jwtValidator middleware.JWTValidator
}

// New constructs an experiment Handler.
func New(service Service, logger *slog.Logger, metrics *platformmetrics.Metrics, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		service:      service,
		logger:       logger,
		metrics:      metrics,
		jwtValidator: jwtValidator,
	}
}

// Register registers the experiment routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	expRouter := chi.NewRouter()
	expRouter.Use(middleware.Recovery(h.logger))
	expRouter.Use(middleware.RequestID)
	expRouter.Use(middleware.Logger(h.logger))
	expRouter.Use(middleware.Timeout(30 * time.Second))
	expRouter.Use(middleware.ContentTypeJSON)
	if h.metrics != nil {
		expRouter.Use(middleware.Latency(h.metrics))
	}
	expRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

	expRouter.Get("/experiments", h.handleListExperiments)
	expRouter.Post("/experiments", h.handleCreateExperiment)
	expRouter.Get("/experiments/{name}", h.handleGetExperiment)
	expRouter.Put("/experiments/{name}/status", h.handleSetStatus)
	expRouter.Post("/experiments/{name}/assign", h.handleAssign)
	expRouter.Post("/experiments/{name}/track", h.handleTrack)
	expRouter.Get("/experiments/{name}/results", h.handleResults)

	r.Mount("/", expRouter)
}

func (h *Handler) handleListExperiments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	experiments, err := h.service.ListExperiments(ctx)
	if err != nil {
		h.logError(ctx, "failed to list experiments", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ListExperimentsResponse{
		Success:     true,
		Experiments: toExperimentResponses(experiments),
	})
}

func (h *Handler) handleCreateExperiment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeJSON[CreateExperimentRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}

	experiment := req.ToModel()
	if err := h.service.CreateExperiment(ctx, experiment); err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) || dErrors.HasCode(err, dErrors.CodeConflict) {
			httputil.WriteError(w, err)
			return
		}
		h.logError(ctx, "failed to create experiment", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, ExperimentEnvelope{
		Success:    true,
		Experiment: toExperimentResponse(experiment),
	})
}

func (h *Handler) handleGetExperiment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	experiment, err := h.service.GetExperiment(ctx, name)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logError(ctx, "failed to load experiment", err)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ExperimentEnvelope{
		Success:    true,
		Experiment: toExperimentResponse(experiment),
	})
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeJSON[SetStatusRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}

	if err := h.service.SetExperimentStatus(ctx, name, models.ExperimentStatus(req.Status)); err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) && !dErrors.HasCode(err, dErrors.CodeValidation) {
			h.logError(ctx, "failed to update experiment status", err)
		}
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}

	variant, err := h.service.Assign(ctx, userID, name)
	if err != nil {
		h.logError(ctx, "failed to assign variant", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, AssignResponse{
		Success:        true,
		ExperimentName: name,
		Variant:        variant,
		UserID:         userID,
	})
}

func (h *Handler) handleTrack(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")
	requestID := requestcontext.RequestID(ctx)

	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}

	req, decoded := httputil.DecodeJSON[TrackEventRequest](w, r, h.logger, requestID)
	if !decoded {
		return
	}

	if err := h.service.Track(ctx, userID, name, req.EventType, req.EventData); err != nil {
		if !dErrors.HasCode(err, dErrors.CodeBadRequest) {
			h.logError(ctx, "failed to track event", err)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TrackResponse{
		Success: true,
		Message: "Event tracked successfully",
	})
}

func (h *Handler) handleResults(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	results, err := h.service.ComputeResults(ctx, name)
	if err != nil {
		h.logError(ctx, "failed to compute results", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ResultsResponse{
		Success: true,
		Results: results,
	})
}

// requireUser reads the authenticated user from context. The auth middleware
// guarantees presence; a miss means broken route wiring, not a client error.
func (h *Handler) requireUser(w http.ResponseWriter, ctx context.Context) (string, bool) {
	userID := requestcontext.UserID(ctx)
	if userID == "" {
		h.logger.ErrorContext(ctx, "userID missing from context despite auth middleware",
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return "", false
	}
	return userID, true
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err.Error(),
	)
}
