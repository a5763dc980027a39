package observability

// EventEnvelope wraps a socket lifecycle payload. EventType groups the
// stream ("ws_events"), EventName is connected, disconnected or error.
type EventEnvelope struct {
	EventType string      `json:"event_type"`
	EventName string      `json:"event_name"`
	Payload   interface{} `json:"payload"`
}

// BuildHeaders builds the AMQP headers linking an event back to the HTTP
// upgrade request and its trace.
func BuildHeaders(requestID, traceID string) map[string]string {
	headers := map[string]string{}
	if requestID != "" {
		headers["x-request-id"] = requestID
	}
	if traceID != "" {
		headers["trace_id"] = traceID
	}
	return headers
}
