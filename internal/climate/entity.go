// Package climate exposes AC units and zones as climate entities: read
// accessors in canonical vocabulary, and commands that become partial
// updates on the controller.
package climate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"aircon-bridge/internal/coordinator"
	"aircon-bridge/internal/logger"
	"aircon-bridge/internal/model"
	"aircon-bridge/internal/vocab"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnknownEntity   = errors.New("unknown entity")
	ErrUnknownService  = errors.New("unknown service")
	ErrUnsupported     = errors.New("operation not supported by entity")
)

// Temperature limits and precision shared by every entity, in Celsius.
const (
	MinTemp         = 16.0
	MaxTemp         = 32.0
	TempStep        = 1.0
	TemperatureUnit = "°C"
)

// Feature names a supported capability.
type Feature string

const (
	FeatureTargetTemperature Feature = "target_temperature"
	FeatureFanMode           Feature = "fan_mode"
)

// Kind distinguishes AC units from zones.
type Kind string

const (
	KindAircon Kind = "aircon"
	KindZone   Kind = "zone"
)

// SnapshotSource gives read access to the latest snapshot.
type SnapshotSource interface {
	Snapshot() *model.System
}

// Changer submits a partial update and refreshes the snapshot before returning.
type Changer interface {
	Change(ctx context.Context, change model.Change) error
}

// Recorder persists the outcome of each command.
type Recorder interface {
	RecordCommand(ctx context.Context, rec model.CommandRecord) error
}

// Deps are the collaborators every entity needs. Recorder may be nil.
type Deps struct {
	Source   SnapshotSource
	Changer  Changer
	Recorder Recorder
}

// Entity is the common surface of AC and zone entities.
type Entity interface {
	ID() string
	Name() string
	Kind() Kind
	HVACModes() []vocab.HVACMode
	State() State
	SetHVACMode(ctx context.Context, mode vocab.HVACMode) error
	SetTemperature(ctx context.Context, temp float64) error
}

// FanController is implemented by entities with a selectable fan speed.
type FanController interface {
	FanModes() []vocab.FanMode
	SetFanMode(ctx context.Context, fan vocab.FanMode) error
}

// MyZoneSetter is implemented by zones that can become their unit's MyZone.
type MyZoneSetter interface {
	SetMyZone(ctx context.Context) error
}

// State is the observable state of an entity.
type State struct {
	EntityID           string           `json:"entityId"`
	Name               string           `json:"name"`
	Kind               Kind             `json:"kind"`
	Available          bool             `json:"available"`
	HVACMode           vocab.HVACMode   `json:"hvacMode,omitempty"`
	HVACModes          []vocab.HVACMode `json:"hvacModes"`
	FanMode            vocab.FanMode    `json:"fanMode,omitempty"`
	FanModes           []vocab.FanMode  `json:"fanModes,omitempty"`
	CurrentTemperature *float64         `json:"currentTemperature,omitempty"`
	TargetTemperature  *float64         `json:"targetTemperature,omitempty"`
	MinTemp            float64          `json:"minTemp"`
	MaxTemp            float64          `json:"maxTemp"`
	TargetTempStep     float64          `json:"targetTempStep"`
	TemperatureUnit    string           `json:"temperatureUnit"`
	SupportedFeatures  []Feature        `json:"supportedFeatures"`
}

// entity carries what both variants share. mu keeps at most one command in
// flight per entity.
type entity struct {
	id    string
	name  string
	acKey string
	deps  Deps
	mu    sync.Mutex
}

func (e *entity) ID() string   { return e.id }
func (e *entity) Name() string { return e.name }

func (e *entity) snapshot() *model.System {
	return e.deps.Source.Snapshot()
}

func (e *entity) baseState(kind Kind, modes []vocab.HVACMode, features []Feature) State {
	return State{
		EntityID:          e.id,
		Name:              e.name,
		Kind:              kind,
		HVACModes:         modes,
		MinTemp:           MinTemp,
		MaxTemp:           MaxTemp,
		TargetTempStep:    TempStep,
		TemperatureUnit:   TemperatureUnit,
		SupportedFeatures: features,
	}
}

// change submits c and records the outcome.
func (e *entity) change(ctx context.Context, command, argument string, c model.Change) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	err := e.deps.Changer.Change(ctx, c)

	payload, encErr := c.Encode()
	if encErr != nil {
		payload = nil
	}
	rec := model.CommandRecord{
		Command:        command,
		Argument:       argument,
		Payload:        string(payload),
		Outcome:        outcomeOf(err),
		IssuedAt:       start.UTC(),
		DurationMillis: time.Since(start).Milliseconds(),
	}
	if err != nil {
		rec.Error = err.Error()
		logger.Warn("%s %s(%s) failed: %v", e.id, command, argument, err)
	} else {
		logger.Info("%s %s(%s) applied", e.id, command, argument)
	}
	e.record(ctx, rec)
	return err
}

// reject records a command refused before anything was sent.
func (e *entity) reject(ctx context.Context, command, argument string, err error) error {
	logger.Warn("%s %s(%s) rejected: %v", e.id, command, argument, err)
	e.record(ctx, model.CommandRecord{
		Command:  command,
		Argument: argument,
		Outcome:  model.OutcomeRejected,
		Error:    err.Error(),
		IssuedAt: time.Now().UTC(),
	})
	return err
}

func (e *entity) record(ctx context.Context, rec model.CommandRecord) {
	if e.deps.Recorder == nil {
		return
	}
	rec.ID = uuid.NewString()
	rec.EntityID = e.id
	if err := e.deps.Recorder.RecordCommand(ctx, rec); err != nil {
		logger.Warn("failed to record command %s for %s: %v", rec.Command, e.id, err)
	}
}

func outcomeOf(err error) model.CommandOutcome {
	switch {
	case err == nil:
		return model.OutcomeApplied
	case errors.Is(err, coordinator.ErrStateUnknown):
		return model.OutcomeStateUnknown
	default:
		return model.OutcomeFailed
	}
}
