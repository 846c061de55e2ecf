package constants

const (
	// SessionCookieName is the cookie holding the session.
	SessionCookieName = "tasktracker_session"

	// ContextKeyIdentityID is the key under which the signed-in identity id is
	// stored in both the session and the gin context.
	ContextKeyIdentityID = "identity_id"
)

const (
	// UpcomingTaskLimit caps the upcoming-task list on the dashboard.
	UpcomingTaskLimit = 5

	// DashboardGoalLimit caps the active-goal list on the dashboard.
	DashboardGoalLimit = 3

	// ConsistencyWindowDays is the lookback window for habit consistency.
	ConsistencyWindowDays = 30

	// TrendWindowDays is the lookback window for per-day analytics series.
	TrendWindowDays = 7
)
