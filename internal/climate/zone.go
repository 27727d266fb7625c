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

var zoneHVACModes = []vocab.HVACMode{vocab.HVACModeOff, vocab.HVACModeFanOnly}

var zoneFeatures = []Feature{FeatureTargetTemperature}

// Zone is the climate entity for a temperature-controlled zone. A zone has
// no operating mode of its own, only an open or closed damper.
type Zone struct {
	entity
	zoneKey string
}

// NewZone builds the entity for zoneKey under acKey.
func NewZone(deps Deps, rid, acKey, zoneKey string, z model.Zone) *Zone {
	return &Zone{
		entity: entity{
			id:    fmt.Sprintf("%s-%s-%s", rid, acKey, zoneKey),
			name:  z.Name,
			acKey: acKey,
			deps:  deps,
		},
		zoneKey: zoneKey,
	}
}

func (z *Zone) Kind() Kind { return KindZone }

func (z *Zone) HVACModes() []vocab.HVACMode { return slices.Clone(zoneHVACModes) }

func (z *Zone) State() State {
	st := z.baseState(KindZone, z.HVACModes(), zoneFeatures)

	zone, err := device.Zone(z.snapshot(), z.acKey, z.zoneKey)
	if err != nil {
		logger.Debug("%s unavailable: %v", z.id, err)
		return st
	}
	st.Available = true
	st.HVACMode = device.ZoneHVACMode(zone)
	st.CurrentTemperature = model.Ptr(zone.MeasuredTemp)
	st.TargetTemperature = model.Ptr(zone.SetTemp)
	return st
}

// SetHVACMode closes the damper for off and opens it for fan only.
func (z *Zone) SetHVACMode(ctx context.Context, mode vocab.HVACMode) error {
	const command = "set_hvac_mode"

	var damper string
	switch mode {
	case vocab.HVACModeOff:
		damper = vocab.StateClose
	case vocab.HVACModeFanOnly:
		damper = vocab.StateOpen
	default:
		return z.reject(ctx, command, string(mode), fmt.Errorf("%w: hvac mode %q not supported by %s", ErrInvalidArgument, mode, z.id))
	}
	return z.change(ctx, command, string(mode), model.ZoneChange(z.acKey, z.zoneKey, model.ZoneUpdate{
		State: model.Ptr(damper),
	}))
}

// SetTemperature forwards temp unchanged to the zone.
func (z *Zone) SetTemperature(ctx context.Context, temp float64) error {
	return z.change(ctx, "set_temperature", formatTemp(temp), model.ZoneChange(z.acKey, z.zoneKey, model.ZoneUpdate{
		SetTemp: model.Ptr(temp),
	}))
}

// SetMyZone makes this zone its unit's MyZone. The change is addressed to
// the unit, using the zone's number from the current snapshot.
func (z *Zone) SetMyZone(ctx context.Context) error {
	const command = ServiceSetMyZone

	zone, err := device.Zone(z.snapshot(), z.acKey, z.zoneKey)
	if err != nil {
		return z.reject(ctx, command, "", err)
	}
	return z.change(ctx, command, strconv.Itoa(zone.Number), model.InfoChange(z.acKey, model.AirconInfoUpdate{
		MyZone: model.Ptr(zone.Number),
	}))
}
