package handler

import (
	"time"

	"laurelin/internal/experiment/models"
)

// CreateExperimentRequest is the administrative experiment creation payload.
type CreateExperimentRequest struct {
	Name        string             `json:"name"`
	Variants    map[string]float64 `json:"variants"`
	Status      string             `json:"status,omitempty"`
	Description string             `json:"description,omitempty"`
}

// ToModel converts the request into a domain experiment. Validation happens in
// the service so HTTP and any future transports share one rule set.
func (r CreateExperimentRequest) ToModel() *models.Experiment {
	return &models.Experiment{
		Name:        r.Name,
		Variants:    r.Variants,
		Status:      models.ExperimentStatus(r.Status),
		Description: r.Description,
	}
}

// SetStatusRequest toggles an experiment between active and paused.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// TrackEventRequest is the event tracking payload.
type TrackEventRequest struct {
	EventType string         `json:"event_type"`
	EventData map[string]any `json:"event_data,omitempty"`
}

// ExperimentResponse mirrors the experiment data model field-for-field.
type ExperimentResponse struct {
	Name        string             `json:"name"`
	Variants    map[string]float64 `json:"variants"`
	Status      string             `json:"status"`
	Description string             `json:"description"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ExperimentEnvelope wraps a single experiment.
type ExperimentEnvelope struct {
	Success    bool               `json:"success"`
	Experiment ExperimentResponse `json:"experiment"`
}

// ListExperimentsResponse wraps the experiment listing.
type ListExperimentsResponse struct {
	Success     bool                 `json:"success"`
	Experiments []ExperimentResponse `json:"experiments"`
}

// AssignResponse reports the variant the caller landed in.
type AssignResponse struct {
	Success        bool   `json:"success"`
	ExperimentName string `json:"experiment_name"`
	Variant        string `json:"variant"`
	UserID         string `json:"user_id"`
}

// TrackResponse acknowledges a tracked event.
type TrackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ResultsResponse wraps aggregated experiment results.
type ResultsResponse struct {
	Success bool            `json:"success"`
	Results *models.Results `json:"results"`
}

func toExperimentResponse(e *models.Experiment) ExperimentResponse {
	return ExperimentResponse{
		Name:        e.Name,
		Variants:    e.Variants,
		Status:      string(e.Status),
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toExperimentResponses(experiments []*models.Experiment) []ExperimentResponse {
	out := make([]ExperimentResponse, 0, len(experiments))
	for _, e := range experiments {
		out = append(out, toExperimentResponse(e))
	}
	return out
}
