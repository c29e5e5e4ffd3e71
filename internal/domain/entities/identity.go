package entities

// Identity is the authenticated caller for a single request. It is resolved
// by the auth middleware and passed explicitly into every use case.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
}
