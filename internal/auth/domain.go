package auth

import "github.com/chalani/chalani/internal/shared"

// State is a step of the per-request auth gate.
type State int

// Gate states. Every request starts Unverified and ends Verified or
// Unauthenticated.
const (
	StateUnverified State = iota
	StateVerifying
	StateVerified
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateUnverified:
		return "unverified"
	case StateVerifying:
		return "verifying"
	case StateVerified:
		return "verified"
	case StateUnauthenticated:
		return "unauthenticated"
	}
	return "unknown"
}

// Terminal reports whether the gate stops in s.
func (s State) Terminal() bool {
	return s == StateVerified || s == StateUnauthenticated
}

// Result is the outcome of a gate check.
type Result struct {
	State State
	User  shared.CurrentUser
	Token string
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Access string `json:"access"`
	Token  string `json:"token"`
}

type meResponse struct {
	shared.CurrentUser
	Data *shared.CurrentUser `json:"data"`
}
