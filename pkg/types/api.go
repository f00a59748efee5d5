package types

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: keywords is required
	Error string `json:"error" example:"keywords is required"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// InfoResponse is returned by GET /.
type InfoResponse struct {
	// example: Domain Hunter LLM Service
	Service string `json:"service" example:"Domain Hunter LLM Service"`
	// example: 1.0.0
	Version string `json:"version" example:"1.0.0"`
	// example: running
	Status string `json:"status" example:"running"`
	// Recommended model identifiers.
	AvailableModels []string `json:"available_models"`
}

// HealthResponse is returned by GET /health. It never carries an error status;
// an unreachable backend is reported as Status "unhealthy".
type HealthResponse struct {
	// Either "healthy" or "unhealthy".
	// example: healthy
	Status string `json:"status" example:"healthy"`
	// Whether the inference backend answered the status query.
	// example: true
	OllamaRunning bool `json:"ollama_running" example:"true"`
	// Models installed on the backend. Present, possibly empty, when healthy;
	// absent when unhealthy.
	InstalledModels *[]string `json:"installed_models,omitempty" swaggertype:"array,string"`
	// Hint for the operator (unhealthy only).
	// example: Ollama is not running. Start it with: ollama serve
	Message string `json:"message,omitempty" example:"Ollama is not running. Start it with: ollama serve"`
}

// ModelsResponse is returned by GET /models.
type ModelsResponse struct {
	// Models installed on the backend, possibly empty; absent when the backend
	// is unreachable.
	InstalledModels *[]string `json:"installed_models,omitempty" swaggertype:"array,string"`
	// Recommended model identifiers from configuration.
	RecommendedModels []string `json:"recommended_models"`
	// Set when the backend could not be queried.
	// example: Cannot connect to Ollama
	Error string `json:"error,omitempty" example:"Cannot connect to Ollama"`
}

// Installed returns a non-nil copy of names for the installed_models field, so
// a backend without models still reports an empty list.
func Installed(names []string) *[]string {
	out := append([]string{}, names...)
	return &out
}
