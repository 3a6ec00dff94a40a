package constants

// Session
const (
	SessionCookieName    = "task_session"
	ContextKeyUserID     = "user_id"
	SessionKeyOAuthState = "oauth_state"
)

// Field limits, matching the database schema
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50

	MinProjectNameLength  = 3
	MaxProjectNameLength  = 100
	MaxProjectDescription = 500
	MaxProjectColorLength = 30
	MaxProjectIconLength  = 50
)
