// Copyright (c) 2025 Tag Sense
// Licensed under the MIT License. See LICENSE file in the project root for details.

package model

import "encoding/json"

// Health is the state of a service as seen by a status check.
type Health int

const (
	// Unreachable means the service itself did not answer.
	Unreachable Health = iota
	// Degraded means the service answered but a dependency it needs is down.
	Degraded
	// Healthy means the service and its dependencies are up.
	Healthy
)

func (h Health) String() string {
	switch h {
	case Healthy:
		return "healthy"
	case Degraded:
		return "degraded"
	default:
		return "unreachable"
	}
}

// Status is the result of a status check. The zero value is Unreachable
// with no reason. Construct with HealthyStatus, DegradedStatus or
// UnreachableStatus; a degraded-but-unreachable value cannot be built.
type Status struct {
	health Health
	reason string
}

func HealthyStatus() Status                  { return Status{health: Healthy} }
func DegradedStatus(reason string) Status    { return Status{health: Degraded, reason: reason} }
func UnreachableStatus(reason string) Status { return Status{health: Unreachable, reason: reason} }

func (s Status) Health() Health { return s.health }

// Connected reports whether the service answered.
func (s Status) Connected() bool { return s.health != Unreachable }

// DependencyConnected reports whether the service's dependency is up.
func (s Status) DependencyConnected() bool { return s.health == Healthy }

// ErrorMessage returns the explanation for a non-healthy status.
func (s Status) ErrorMessage() (string, bool) {
	if s.health == Healthy || s.reason == "" {
		return "", false
	}
	return s.reason, true
}

type statusWire struct {
	Connected           bool    `json:"connected" yaml:"connected"`
	DependencyConnected bool    `json:"dependencyConnected" yaml:"dependencyConnected"`
	ErrorMessage        *string `json:"errorMessage,omitempty" yaml:"errorMessage,omitempty"`
}

func (s Status) wire() statusWire {
	w := statusWire{Connected: s.Connected(), DependencyConnected: s.DependencyConnected()}
	if msg, ok := s.ErrorMessage(); ok {
		w.ErrorMessage = &msg
	}
	return w
}

func (s Status) MarshalJSON() ([]byte, error) { return json.Marshal(s.wire()) }

// MarshalYAML implements yaml.Marshaler.
func (s Status) MarshalYAML() (any, error) { return s.wire(), nil }

// Services pairs the status of both local services.
type Services struct {
	Inference Status `json:"inference" yaml:"inference"`
	Backend   Status `json:"backend" yaml:"backend"`
}
