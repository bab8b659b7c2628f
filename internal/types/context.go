package types

type contextKey string

// SessionKey is the request-context key under which the auth middleware
// stores the caller's model.Session.
const SessionKey contextKey = "session"
