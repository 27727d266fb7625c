package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeEncode(t *testing.T) {
	testCases := []struct {
		name     string
		change   Change
		expected string
	}{
		{
			name:     "power off only",
			change:   InfoChange("ac1", AirconInfoUpdate{State: Ptr("off")}),
			expected: `{"ac1":{"info":{"state":"off"}}}`,
		},
		{
			name:     "power on with mode",
			change:   InfoChange("ac1", AirconInfoUpdate{State: Ptr("on"), Mode: Ptr("cool")}),
			expected: `{"ac1":{"info":{"state":"on","mode":"cool"}}}`,
		},
		{
			name:     "whole-degree temperature stays a plain number",
			change:   InfoChange("ac1", AirconInfoUpdate{SetTemp: Ptr(24.0)}),
			expected: `{"ac1":{"info":{"setTemp":24}}}`,
		},
		{
			name:     "myzone",
			change:   InfoChange("ac1", AirconInfoUpdate{MyZone: Ptr(3)}),
			expected: `{"ac1":{"info":{"myZone":3}}}`,
		},
		{
			name:     "zone damper",
			change:   ZoneChange("ac1", "z1", ZoneUpdate{State: Ptr("close")}),
			expected: `{"ac1":{"zones":{"z1":{"state":"close"}}}}`,
		},
		{
			name:     "zone temperature",
			change:   ZoneChange("ac2", "z04", ZoneUpdate{SetTemp: Ptr(21.5)}),
			expected: `{"ac2":{"zones":{"z04":{"setTemp":21.5}}}}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			payload, err := tc.change.Encode()
			require.NoError(t, err)
			assert.JSONEq(t, tc.expected, string(payload))
			assert.Equal(t, tc.expected, string(payload))
		})
	}
}

func TestChangeAirconKeys(t *testing.T) {
	c := Change{"ac2": {}, "ac1": {}}
	assert.Equal(t, []string{"ac1", "ac2"}, c.AirconKeys())
}

func TestSystemDecode(t *testing.T) {
	raw := `{
		"system": {"rid": "R1", "name": "Home"},
		"aircons": {
			"ac1": {
				"info": {"name": "Main", "state": "on", "mode": "vent", "fan": "low", "setTemp": 23, "myZone": 1, "myAutoModeEnabled": true},
				"zones": {
					"z01": {"name": "Lounge", "state": "open", "type": 0, "measuredTemp": 21.3, "setTemp": 22, "number": 1},
					"z02": {"name": "Hall", "state": "close", "type": 1, "number": 2}
				}
			}
		}
	}`

	var sys System
	require.NoError(t, json.Unmarshal([]byte(raw), &sys))

	assert.Equal(t, "R1", sys.RID())
	ac := sys.Aircons["ac1"]
	assert.Equal(t, "Main", ac.Info.Name)
	assert.True(t, ac.Info.MyAutoModeEnabled)
	assert.Equal(t, 23.0, ac.Info.SetTemp)
	assert.Equal(t, 21.3, ac.Zones["z01"].MeasuredTemp)
	assert.Equal(t, 1, ac.Zones["z02"].Type)
}

func TestSystemRID_Nil(t *testing.T) {
	var sys *System
	assert.Equal(t, "", sys.RID())
}
