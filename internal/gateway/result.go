package gateway

// Severity classifies a gateway action outcome for the client UI.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityDanger  Severity = "danger"
)

// Result is the structured outcome of a friend-request action. Clients use
// Severity to style the banner and NotificationCount to refresh the badge
// without a follow-up request.
type Result struct {
	Severity          Severity `json:"severity"`
	Message           string   `json:"message"`
	NotificationCount int      `json:"notification_count"`
}

func danger(message string) Result {
	return Result{Severity: SeverityDanger, Message: message}
}

func success(message string, count int) Result {
	return Result{Severity: SeveritySuccess, Message: message, NotificationCount: count}
}
