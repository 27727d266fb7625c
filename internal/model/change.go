package model

import (
	"encoding/json"
	"sort"
)

// Change is a partial update keyed by AC key. Only populated fields are
// serialised; the controller merges them into its current state.
type Change map[string]AirconChange

// AirconChange addresses either the unit itself (Info) or some of its zones.
type AirconChange struct {
	Info  *AirconInfoUpdate     `json:"info,omitempty"`
	Zones map[string]ZoneUpdate `json:"zones,omitempty"`
}

// AirconInfoUpdate holds the unit-level fields a command may change.
type AirconInfoUpdate struct {
	State   *string  `json:"state,omitempty"`
	Mode    *string  `json:"mode,omitempty"`
	Fan     *string  `json:"fan,omitempty"`
	SetTemp *float64 `json:"setTemp,omitempty"`
	MyZone  *int     `json:"myZone,omitempty"`
}

// ZoneUpdate holds the zone-level fields a command may change.
type ZoneUpdate struct {
	State   *string  `json:"state,omitempty"`
	SetTemp *float64 `json:"setTemp,omitempty"`
}

// InfoChange builds a unit-level change for acKey.
func InfoChange(acKey string, info AirconInfoUpdate) Change {
	return Change{acKey: {Info: &info}}
}

// ZoneChange builds a zone-level change for zoneKey under acKey.
func ZoneChange(acKey, zoneKey string, zone ZoneUpdate) Change {
	return Change{acKey: {Zones: map[string]ZoneUpdate{zoneKey: zone}}}
}

// Encode renders the wire payload.
func (c Change) Encode() ([]byte, error) {
	return json.Marshal(c)
}

// AirconKeys lists the AC keys touched by the change, sorted.
func (c Change) AirconKeys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
