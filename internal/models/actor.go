package models

// Actor is the authenticated user performing a request. A nil *Actor means
// the request is anonymous.
type Actor struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}
