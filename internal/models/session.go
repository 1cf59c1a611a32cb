package models

// Session is the caller context passed into every adapter call:
// the acting agent and the customer being served.
type Session struct {
	User     User     `json:"user"`
	Customer Customer `json:"customer"`
}
