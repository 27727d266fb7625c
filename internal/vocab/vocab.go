// Package vocab translates between the controller's mode and fan strings and
// the canonical climate vocabulary.
package vocab

// HVACMode is a canonical climate operating mode.
type HVACMode string

const (
	HVACModeOff     HVACMode = "off"
	HVACModeHeat    HVACMode = "heat"
	HVACModeCool    HVACMode = "cool"
	HVACModeFanOnly HVACMode = "fan_only"
	HVACModeDry     HVACMode = "dry"
	HVACModeAuto    HVACMode = "auto"
)

// FanMode is a canonical fan speed selector.
type FanMode string

const (
	FanAuto   FanMode = "auto"
	FanLow    FanMode = "low"
	FanMedium FanMode = "medium"
	FanHigh   FanMode = "high"
)

// State strings used by the controller for power and damper fields.
const (
	StateOn    = "on"
	StateOff   = "off"
	StateOpen  = "open"
	StateClose = "close"
)

var remoteToMode = map[string]HVACMode{
	"heat":   HVACModeHeat,
	"cool":   HVACModeCool,
	"vent":   HVACModeFanOnly,
	"dry":    HVACModeDry,
	"myauto": HVACModeAuto,
}

var modeToRemote = invert(remoteToMode)

var remoteToFan = map[string]FanMode{
	"auto":   FanAuto,
	"low":    FanLow,
	"medium": FanMedium,
	"high":   FanHigh,
}

var fanToRemote = invert(remoteToFan)

// FanSpeeds maps fan levels to a percentage for callers that want a
// continuous representation. Nothing on the send path uses it.
var FanSpeeds = map[FanMode]int{
	FanLow:    30,
	FanMedium: 60,
	FanHigh:   100,
}

func invert[V comparable](m map[string]V) map[V]string {
	out := make(map[V]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// ModeFromRemote returns the canonical mode for a controller mode string.
func ModeFromRemote(remote string) (HVACMode, bool) {
	mode, ok := remoteToMode[remote]
	return mode, ok
}

// ModeToRemote returns the controller string for a canonical mode. Off has
// no controller mode; it is expressed through the power state instead.
func ModeToRemote(mode HVACMode) (string, bool) {
	remote, ok := modeToRemote[mode]
	return remote, ok
}

// FanFromRemote returns the canonical fan mode for a controller fan string.
func FanFromRemote(remote string) (FanMode, bool) {
	fan, ok := remoteToFan[remote]
	return fan, ok
}

// FanToRemote returns the controller string for a canonical fan mode.
func FanToRemote(fan FanMode) (string, bool) {
	remote, ok := fanToRemote[fan]
	return remote, ok
}
