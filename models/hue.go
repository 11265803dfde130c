package models

// Light is the dashboard view of one Hue light.
type Light struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	On        *bool  `json:"on"`
	Bri       *int   `json:"bri"`
	Reachable *bool  `json:"reachable"`
}

// LightState is the payload for PUT /api/lights/:id/state. Unset fields are
// not sent to the bridge.
type LightState struct {
	On  *bool `json:"on"`
	Bri *int  `json:"bri"`
	Hue *int  `json:"hue"`
	Sat *int  `json:"sat"`
}

// AllState is the payload for PUT /api/all.
type AllState struct {
	On *bool `json:"on" binding:"required"`
}
