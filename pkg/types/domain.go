package types

// GenerateDomainsRequest is the payload for POST /generate-domains.
type GenerateDomainsRequest struct {
	// Keywords the domains should be built from.
	// example: ["shop","tech"]
	Keywords []string `json:"keywords" example:"shop,tech"`
	// Maximum number of domains to return. Defaults to 20.
	// example: 20
	Count *int `json:"count,omitempty" example:"20"`
	// Backend model identifier. Defaults to the configured model.
	// example: qwen2.5:3b
	Model string `json:"model,omitempty" example:"qwen2.5:3b"`
	// Sampling temperature. Defaults to 0.7.
	// example: 0.7
	Temperature *float64 `json:"temperature,omitempty" example:"0.7"`
}

// GenerateDomainsResponse is returned by POST /generate-domains.
type GenerateDomainsResponse struct {
	// example: true
	Success bool `json:"success" example:"true"`
	// Unique domains in the order the model produced them.
	// example: ["getshop.com","mytech.io"]
	Domains []string `json:"domains"`
	// Number of domains returned; may be lower than requested.
	// example: 2
	Count int `json:"count" example:"2"`
	// example: qwen2.5:3b
	ModelUsed string `json:"model_used" example:"qwen2.5:3b"`
}

// ChatRequest is the payload for POST /chat.
type ChatRequest struct {
	// example: Suggest a tagline for getshop.com
	Prompt string `json:"prompt" example:"Suggest a tagline for getshop.com"`
	// example: qwen2.5:3b
	Model string `json:"model,omitempty" example:"qwen2.5:3b"`
	// example: 0.7
	Temperature *float64 `json:"temperature,omitempty" example:"0.7"`
	// Accepted for compatibility; responses are never streamed.
	Stream bool `json:"stream,omitempty"`
}

// ChatResponse is returned by POST /chat.
type ChatResponse struct {
	// example: true
	Success bool `json:"success" example:"true"`
	// Raw backend completion.
	Response string `json:"response"`
	// example: qwen2.5:3b
	ModelUsed string `json:"model_used" example:"qwen2.5:3b"`
}

// DomainRequest names a single domain for POST /analyze-domain and /suggest-price.
type DomainRequest struct {
	// example: getshop.com
	Domain string `json:"domain" example:"getshop.com"`
	// example: qwen2.5:3b
	Model string `json:"model,omitempty" example:"qwen2.5:3b"`
}

// AnalyzeDomainResponse is returned by POST /analyze-domain.
type AnalyzeDomainResponse struct {
	// example: true
	Success bool `json:"success" example:"true"`
	// example: getshop.com
	Domain string `json:"domain" example:"getshop.com"`
	// Free-text analysis from the model.
	Analysis string `json:"analysis"`
	// example: qwen2.5:3b
	ModelUsed string `json:"model_used" example:"qwen2.5:3b"`
}

// SuggestPriceResponse is returned by POST /suggest-price.
type SuggestPriceResponse struct {
	// example: true
	Success bool `json:"success" example:"true"`
	// example: getshop.com
	Domain string `json:"domain" example:"getshop.com"`
	// Free-text pricing suggestion from the model.
	PricingSuggestion string `json:"pricing_suggestion"`
	// example: qwen2.5:3b
	ModelUsed string `json:"model_used" example:"qwen2.5:3b"`
}
