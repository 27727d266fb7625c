package model

// System is one snapshot of the controller's state tree as returned by
// getSystemData. A published *System is never mutated; every refresh
// decodes a fresh one.
type System struct {
	Info    SystemInfo        `json:"system"`
	Aircons map[string]Aircon `json:"aircons"`
}

// SystemInfo identifies the controller.
type SystemInfo struct {
	RID  string `json:"rid"`
	Name string `json:"name"`
}

// RID returns the controller's unique remote identifier.
func (s *System) RID() string {
	if s == nil {
		return ""
	}
	return s.Info.RID
}

// Aircon is a single AC unit and its zones.
type Aircon struct {
	Info  AirconInfo      `json:"info"`
	Zones map[string]Zone `json:"zones"`
}

// AirconInfo carries the unit-level fields.
type AirconInfo struct {
	Name              string  `json:"name"`
	State             string  `json:"state"`
	Mode              string  `json:"mode"`
	Fan               string  `json:"fan"`
	SetTemp           float64 `json:"setTemp"`
	MyZone            int     `json:"myZone"`
	MyAutoModeEnabled bool    `json:"myAutoModeEnabled"`
}

// Zone is a damper-controlled zone under an AC unit.
type Zone struct {
	Name         string  `json:"name"`
	State        string  `json:"state"`
	Type         int     `json:"type"`
	MeasuredTemp float64 `json:"measuredTemp"`
	SetTemp      float64 `json:"setTemp"`
	Number       int     `json:"number"`
}
