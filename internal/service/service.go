// Package service implements the caller-facing operations: it validates
// requests, renders prompts, calls the inference backend and turns completions
// into typed responses.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"domainllm/internal/backend"
	"domainllm/internal/config"
	"domainllm/internal/extract"
	"domainllm/internal/prompt"
	"domainllm/pkg/types"
)

// Service identity reported by Info.
const (
	Name    = "Domain Hunter LLM Service"
	Version = "1.0.0"
)

// Request defaults.
const (
	DefaultCount       = 20
	DefaultTemperature = 0.7
)

const unreachableHint = "Ollama is not running. Start it with: ollama serve"

// Backend is the subset of the inference client the service needs.
type Backend interface {
	Generate(ctx context.Context, req backend.GenerateRequest) (string, error)
	Tags(ctx context.Context) ([]string, error)
}

// Config holds the static, process-wide settings the service reads.
type Config struct {
	DefaultModel      string
	RecommendedModels []string
}

// Service is stateless apart from its configuration and is safe for concurrent use.
type Service struct {
	backend           Backend
	defaultModel      string
	recommendedModels []string
	status            singleflight.Group
}

// New constructs a Service.
func New(b Backend, cfg Config) *Service {
	model := cfg.DefaultModel
	if model == "" {
		model = config.DefaultModel
	}
	return &Service{
		backend:           b,
		defaultModel:      model,
		recommendedModels: append([]string(nil), cfg.RecommendedModels...),
	}
}

// Info describes the running service.
func (s *Service) Info() types.InfoResponse {
	return types.InfoResponse{
		Service:         Name,
		Version:         Version,
		Status:          "running",
		AvailableModels: s.recommended(),
	}
}

// GenerateDomains asks the backend for domain ideas and extracts at most
// req.Count unique domains from the completion. A completion with fewer usable
// lines yields a shorter list, not an error.
func (s *Service) GenerateDomains(ctx context.Context, req types.GenerateDomainsRequest) (types.GenerateDomainsResponse, error) {
	count := DefaultCount
	if req.Count != nil {
		count = *req.Count
	}
	if count < 1 {
		return types.GenerateDomainsResponse{}, errInvalid("count must be at least 1")
	}
	temp, err := temperature(req.Temperature)
	if err != nil {
		return types.GenerateDomainsResponse{}, err
	}
	keywords := cleanKeywords(req.Keywords)
	if len(keywords) == 0 {
		return types.GenerateDomainsResponse{}, errInvalid("keywords is required")
	}
	model := s.model(req.Model)

	raw, err := s.complete(ctx, model, prompt.Domains(keywords, count), temp)
	if err != nil {
		return types.GenerateDomainsResponse{}, fmt.Errorf("generate domains: %w", err)
	}
	domains := extract.Domains(raw, count)
	observeExtraction(raw, domains, count)

	zerolog.Ctx(ctx).Debug().
		Int("requested", count).
		Int("returned", len(domains)).
		Str("model", model).
		Msg("domains extracted")

	return types.GenerateDomainsResponse{
		Success:   true,
		Domains:   domains,
		Count:     len(domains),
		ModelUsed: model,
	}, nil
}

// Chat forwards a free-form prompt and returns the raw completion.
func (s *Service) Chat(ctx context.Context, req types.ChatRequest) (types.ChatResponse, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return types.ChatResponse{}, errInvalid("prompt is required")
	}
	temp, err := temperature(req.Temperature)
	if err != nil {
		return types.ChatResponse{}, err
	}
	model := s.model(req.Model)
	raw, err := s.complete(ctx, model, req.Prompt, temp)
	if err != nil {
		return types.ChatResponse{}, fmt.Errorf("chat: %w", err)
	}
	return types.ChatResponse{Success: true, Response: raw, ModelUsed: model}, nil
}

// AnalyzeDomain asks the backend for a quality analysis of one domain.
func (s *Service) AnalyzeDomain(ctx context.Context, req types.DomainRequest) (types.AnalyzeDomainResponse, error) {
	domain := strings.TrimSpace(req.Domain)
	if domain == "" {
		return types.AnalyzeDomainResponse{}, errInvalid("domain is required")
	}
	model := s.model(req.Model)
	raw, err := s.complete(ctx, model, prompt.Analysis(domain), DefaultTemperature)
	if err != nil {
		return types.AnalyzeDomainResponse{}, fmt.Errorf("analyze domain: %w", err)
	}
	return types.AnalyzeDomainResponse{Success: true, Domain: domain, Analysis: raw, ModelUsed: model}, nil
}

// SuggestPrice asks the backend for a price range for one domain.
func (s *Service) SuggestPrice(ctx context.Context, req types.DomainRequest) (types.SuggestPriceResponse, error) {
	domain := strings.TrimSpace(req.Domain)
	if domain == "" {
		return types.SuggestPriceResponse{}, errInvalid("domain is required")
	}
	model := s.model(req.Model)
	raw, err := s.complete(ctx, model, prompt.Pricing(domain), DefaultTemperature)
	if err != nil {
		return types.SuggestPriceResponse{}, fmt.Errorf("suggest price: %w", err)
	}
	return types.SuggestPriceResponse{Success: true, Domain: domain, PricingSuggestion: raw, ModelUsed: model}, nil
}

// Health reports whether the backend answers. It never fails; an unreachable
// or misbehaving backend is reported as unhealthy.
func (s *Service) Health(ctx context.Context) types.HealthResponse {
	names, err := s.installed(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("backend health check failed")
		return types.HealthResponse{Status: "unhealthy", OllamaRunning: false, Message: unreachableHint}
	}
	return types.HealthResponse{Status: "healthy", OllamaRunning: true, InstalledModels: types.Installed(names)}
}

// Models lists installed and recommended models. When the backend cannot be
// queried only the recommended list is returned, with an error note.
func (s *Service) Models(ctx context.Context) types.ModelsResponse {
	names, err := s.installed(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("backend model listing failed")
		return types.ModelsResponse{Error: "Cannot connect to Ollama", RecommendedModels: s.recommended()}
	}
	return types.ModelsResponse{InstalledModels: types.Installed(names), RecommendedModels: s.recommended()}
}

// Ready reports whether the backend currently answers status queries.
func (s *Service) Ready(ctx context.Context) bool {
	_, err := s.installed(ctx)
	return err == nil
}

// installed coalesces concurrent status queries into one backend call. The
// shared call is detached from any single caller's cancellation; the client's
// status timeout still bounds it.
func (s *Service) installed(ctx context.Context) ([]string, error) {
	v, err, _ := s.status.Do("tags", func() (any, error) {
		return s.backend.Tags(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	names, _ := v.([]string)
	return append([]string{}, names...), nil
}

func (s *Service) complete(ctx context.Context, model, p string, temp float64) (string, error) {
	raw, err := s.backend.Generate(ctx, backend.GenerateRequest{Model: model, Prompt: p, Temperature: temp})
	if err != nil {
		return "", err
	}
	logCompletion(zerolog.Ctx(ctx), model, raw)
	return raw, nil
}

func (s *Service) model(m string) string {
	if m = strings.TrimSpace(m); m != "" {
		return m
	}
	return s.defaultModel
}

func (s *Service) recommended() []string {
	return append([]string{}, s.recommendedModels...)
}

func temperature(t *float64) (float64, error) {
	if t == nil {
		return DefaultTemperature, nil
	}
	if *t < 0 {
		return 0, errInvalid("temperature must not be negative")
	}
	return *t, nil
}

func cleanKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// logCompletion writes the raw completion line by line at debug level.
func logCompletion(l *zerolog.Logger, model, raw string) {
	if l.GetLevel() > zerolog.DebugLevel {
		return
	}
	for i, line := range strings.Split(raw, "\n") {
		l.Debug().Str("model", model).Int("line", i+1).Str("text", line).Msg("completion>")
	}
}

func observeExtraction(raw string, domains []string, requested int) {
	cands := extract.Candidates(raw)
	unique := make(map[string]struct{}, len(cands))
	for _, c := range cands {
		unique[c] = struct{}{}
	}
	candidatesTotal.WithLabelValues(fateReturned).Add(float64(len(domains)))
	candidatesTotal.WithLabelValues(fateDuplicate).Add(float64(len(cands) - len(unique)))
	candidatesTotal.WithLabelValues(fateTruncated).Add(float64(len(unique) - len(domains)))
	extractionYield.Observe(extract.Yield(len(domains), requested))
}
