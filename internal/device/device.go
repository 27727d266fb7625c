// Package device provides typed lookups and topology rules over a snapshot.
package device

import (
	"errors"
	"fmt"

	"aircon-bridge/internal/model"
	"aircon-bridge/internal/vocab"
)

// ErrNotFound is returned when a key is absent from the snapshot.
var ErrNotFound = errors.New("record not found in snapshot")

// Aircon looks up the AC unit acKey.
func Aircon(sys *model.System, acKey string) (model.Aircon, error) {
	if sys == nil {
		return model.Aircon{}, fmt.Errorf("aircon %q: no snapshot: %w", acKey, ErrNotFound)
	}
	ac, ok := sys.Aircons[acKey]
	if !ok {
		return model.Aircon{}, fmt.Errorf("aircon %q: %w", acKey, ErrNotFound)
	}
	return ac, nil
}

// Zone looks up zoneKey under the AC unit acKey.
func Zone(sys *model.System, acKey, zoneKey string) (model.Zone, error) {
	ac, err := Aircon(sys, acKey)
	if err != nil {
		return model.Zone{}, err
	}
	z, ok := ac.Zones[zoneKey]
	if !ok {
		return model.Zone{}, fmt.Errorf("zone %q of aircon %q: %w", zoneKey, acKey, ErrNotFound)
	}
	return z, nil
}

// AirconHVACMode derives the canonical mode of an AC unit. The controller
// keeps the last mode while powered off, so anything other than "on" reads
// as off. ok is false only when the unit is on with an unrecognised mode.
func AirconHVACMode(ac model.Aircon) (vocab.HVACMode, bool) {
	if ac.Info.State != vocab.StateOn {
		return vocab.HVACModeOff, true
	}
	return vocab.ModeFromRemote(ac.Info.Mode)
}

// AirconFanMode derives the canonical fan mode of an AC unit.
func AirconFanMode(ac model.Aircon) (vocab.FanMode, bool) {
	return vocab.FanFromRemote(ac.Info.Fan)
}

// ZoneHVACMode maps the damper state: open is fan only, anything else is off.
func ZoneHVACMode(z model.Zone) vocab.HVACMode {
	if z.State == vocab.StateOpen {
		return vocab.HVACModeFanOnly
	}
	return vocab.HVACModeOff
}

// ClimateControlled reports whether the zone has its own temperature sensor.
func ClimateControlled(z model.Zone) bool {
	return z.Type == 0
}

// AutoModeSupported reports whether the unit offers the myauto mode.
func AutoModeSupported(ac model.Aircon) bool {
	return ac.Info.MyAutoModeEnabled
}
