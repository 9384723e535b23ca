// Package models defines the experiment domain entities shared by stores,
// services, and handlers.
package models

import (
	"time"

	dErrors "laurelin/pkg/domain-errors"
)

// ExperimentStatus gates whether new assignments are bucketed for an experiment.
type ExperimentStatus string

const (
	StatusActive ExperimentStatus = "active"
	StatusPaused ExperimentStatus = "paused"
)

// IsValid reports whether the status is one of the known values.
func (s ExperimentStatus) IsValid() bool {
	return s == StatusActive || s == StatusPaused
}

// ControlVariant is the sentinel returned when an experiment is absent, paused,
// or storage is unavailable. It is never persisted as a real assignment.
const ControlVariant = "control"

// UnknownVariant tags events tracked for users without a prior assignment.
const UnknownVariant = "unknown"

// Experiment defines a named test and its variant weight split. Weights need
// not sum to 1; the bucketer normalizes over the cumulative sum.
type Experiment struct {
	Name        string             `json:"name"`
	Variants    map[string]float64 `json:"variants"`
	Status      ExperimentStatus   `json:"status"`
	Description string             `json:"description"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// Validate enforces the invariants required before an experiment may be stored:
// non-empty name, at least one variant, no negative weights.
func (e *Experiment) Validate() error {
	if e.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "experiment name is required")
	}
	if len(e.Variants) == 0 {
		return dErrors.New(dErrors.CodeValidation, "experiment requires at least one variant")
	}
	total := 0.0
	for name, weight := range e.Variants {
		if name == "" {
			return dErrors.New(dErrors.CodeValidation, "variant name must not be empty")
		}
		if weight < 0 {
			return dErrors.New(dErrors.CodeValidation, "variant weight must not be negative")
		}
		total += weight
	}
	if total == 0 {
		return dErrors.New(dErrors.CodeValidation, "variant weights must not all be zero")
	}
	return nil
}

// IsActive reports whether the experiment accepts new bucketed assignments.
func (e *Experiment) IsActive() bool {
	return e.Status == StatusActive
}

// Assignment records the variant a user received for an experiment. The
// (UserID, ExperimentName) pair is a natural key; rows are immutable once created.
type Assignment struct {
	UserID         string    `json:"user_id"`
	ExperimentName string    `json:"experiment_name"`
	Variant        string    `json:"variant"`
	AssignedAt     time.Time `json:"assigned_at"`
}

// Event is an append-only record of a tracked interaction. Variant is
// denormalized from the user's assignment at write time.
type Event struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	ExperimentName string         `json:"experiment_name"`
	EventType      string         `json:"event_type"`
	EventData      map[string]any `json:"event_data"`
	Variant        string         `json:"variant"`
	Timestamp      time.Time      `json:"timestamp"`
}

// Results aggregates an experiment's assignments and events.
type Results struct {
	ExperimentName string                    `json:"experiment_name"`
	VariantCounts  map[string]int            `json:"variant_assignments"`
	EventCounts    map[string]map[string]int `json:"event_counts"`
	TotalUsers     int                       `json:"total_users"`
	TotalEvents    int                       `json:"total_events"`
}
