package dto

// EngineResponse describes the configured recognition engine
type EngineResponse struct {
	Name             string   `json:"name" example:"whisper_cpp"`
	Model            string   `json:"model,omitempty" example:"ggml-base.en.bin"`
	Reentrant        bool     `json:"reentrant"`
	RequiresInternet bool     `json:"requires_internet"`
	Available        []string `json:"available"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string `json:"status" example:"healthy"`
	Engine    string `json:"engine" example:"whisper_cpp"`
	Timestamp int64  `json:"timestamp"`
	Error     string `json:"error,omitempty"`
}

// Health statuses
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)
