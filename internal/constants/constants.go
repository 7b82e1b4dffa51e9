package constants

// ContextKeyUserID is the key under which the authenticated user ID is stored
// in both the session and the gin context.
const ContextKeyUserID = "user_id"

// SessionCookieName is the name of the session cookie.
const SessionCookieName = "vicharak_session"

// Pagination limits
const (
	MinPageSize     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Field limits
const (
	MinPasswordLength = 8
	MaxTitleLength    = 50
	MaxRoleNameLength = 50
)
