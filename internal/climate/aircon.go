package climate

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"aircon-bridge/internal/device"
	"aircon-bridge/internal/logger"
	"aircon-bridge/internal/model"
	"aircon-bridge/internal/vocab"
)

var airconHVACModes = []vocab.HVACMode{
	vocab.HVACModeOff,
	vocab.HVACModeCool,
	vocab.HVACModeHeat,
	vocab.HVACModeFanOnly,
	vocab.HVACModeDry,
}

var airconFanModes = []vocab.FanMode{vocab.FanAuto, vocab.FanLow, vocab.FanMedium, vocab.FanHigh}

var airconFeatures = []Feature{FeatureTargetTemperature, FeatureFanMode}

// Aircon is the climate entity for a whole AC unit.
type Aircon struct {
	entity
	hvacModes []vocab.HVACMode
}

// NewAircon builds the entity for acKey. The auto mode capability is read
// once here and never re-evaluated.
func NewAircon(deps Deps, rid, acKey string, ac model.Aircon) *Aircon {
	modes := slices.Clone(airconHVACModes)
	if device.AutoModeSupported(ac) {
		modes = append(modes, vocab.HVACModeAuto)
	}
	return &Aircon{
		entity: entity{
			id:    fmt.Sprintf("%s-%s", rid, acKey),
			name:  ac.Info.Name,
			acKey: acKey,
			deps:  deps,
		},
		hvacModes: modes,
	}
}

func (a *Aircon) Kind() Kind { return KindAircon }

// HVACModes returns the modes this unit accepts.
func (a *Aircon) HVACModes() []vocab.HVACMode { return slices.Clone(a.hvacModes) }

// FanModes returns the fan speeds this unit accepts.
func (a *Aircon) FanModes() []vocab.FanMode { return slices.Clone(airconFanModes) }

func (a *Aircon) State() State {
	st := a.baseState(KindAircon, a.HVACModes(), airconFeatures)
	st.FanModes = a.FanModes()

	ac, err := device.Aircon(a.snapshot(), a.acKey)
	if err != nil {
		logger.Debug("%s unavailable: %v", a.id, err)
		return st
	}
	st.Available = true
	st.HVACMode = a.hvacMode(ac)
	if fan, ok := device.AirconFanMode(ac); ok {
		st.FanMode = fan
	}
	st.TargetTemperature = model.Ptr(ac.Info.SetTemp)
	return st
}

func (a *Aircon) hvacMode(ac model.Aircon) vocab.HVACMode {
	mode, ok := device.AirconHVACMode(ac)
	if !ok {
		logger.Debug("%s reports unrecognised mode %q, showing off", a.id, ac.Info.Mode)
		return vocab.HVACModeOff
	}
	return mode
}

// SetHVACMode powers the unit off, or on in the given mode.
func (a *Aircon) SetHVACMode(ctx context.Context, mode vocab.HVACMode) error {
	const command = "set_hvac_mode"
	if !slices.Contains(a.hvacModes, mode) {
		return a.reject(ctx, command, string(mode), fmt.Errorf("%w: hvac mode %q not supported by %s", ErrInvalidArgument, mode, a.id))
	}

	if mode == vocab.HVACModeOff {
		return a.change(ctx, command, string(mode), model.InfoChange(a.acKey, model.AirconInfoUpdate{
			State: model.Ptr(vocab.StateOff),
		}))
	}

	remote, ok := vocab.ModeToRemote(mode)
	if !ok {
		return a.reject(ctx, command, string(mode), fmt.Errorf("%w: hvac mode %q has no controller mode", ErrInvalidArgument, mode))
	}
	return a.change(ctx, command, string(mode), model.InfoChange(a.acKey, model.AirconInfoUpdate{
		State: model.Ptr(vocab.StateOn),
		Mode:  model.Ptr(remote),
	}))
}

// SetFanMode changes the fan speed without touching power or mode.
func (a *Aircon) SetFanMode(ctx context.Context, fan vocab.FanMode) error {
	const command = "set_fan_mode"
	remote, ok := vocab.FanToRemote(fan)
	if !ok || !slices.Contains(airconFanModes, fan) {
		return a.reject(ctx, command, string(fan), fmt.Errorf("%w: fan mode %q not supported by %s", ErrInvalidArgument, fan, a.id))
	}
	return a.change(ctx, command, string(fan), model.InfoChange(a.acKey, model.AirconInfoUpdate{
		Fan: model.Ptr(remote),
	}))
}

// SetTemperature forwards temp unchanged; the controller enforces its range.
func (a *Aircon) SetTemperature(ctx context.Context, temp float64) error {
	return a.change(ctx, "set_temperature", formatTemp(temp), model.InfoChange(a.acKey, model.AirconInfoUpdate{
		SetTemp: model.Ptr(temp),
	}))
}

func formatTemp(t float64) string {
	return strconv.FormatFloat(t, 'f', -1, 64)
}
