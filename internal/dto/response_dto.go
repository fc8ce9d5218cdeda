package dto

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// ReceivedResponse acknowledges a payment webhook. Warning is set on
// degraded paths that were absorbed rather than surfaced to the sender.
type ReceivedResponse struct {
	Received bool   `json:"received"`
	Warning  string `json:"warning,omitempty"`
}

type SyncResponse struct {
	Message   string `json:"message"`
	ProductID string `json:"productId"`
}

type SignupResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
