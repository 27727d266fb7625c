package coordinator

// AckResponse models the controller's reply to setAircon.
type AckResponse struct {
	Ack     bool   `json:"ack"`
	Request string `json:"request"`
	Reason  string `json:"reason"`
}

const (
	pathSystemData = "/getSystemData"
	pathSetAircon  = "/setAircon"
)
