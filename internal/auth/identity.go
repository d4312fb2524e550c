package auth

// Identity is the authenticated caller of a single request, derived from a
// live session. It is never persisted.
type Identity struct {
	SessionID string
	Username  string
	IsAdmin   bool // only populated by the admin policy
}
