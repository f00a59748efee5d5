package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"domainllm/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Info() types.InfoResponse
	Health(ctx context.Context) types.HealthResponse
	Models(ctx context.Context) types.ModelsResponse
	Ready(ctx context.Context) bool
	GenerateDomains(ctx context.Context, req types.GenerateDomainsRequest) (types.GenerateDomainsResponse, error)
	Chat(ctx context.Context, req types.ChatRequest) (types.ChatResponse, error)
	AnalyzeDomain(ctx context.Context, req types.DomainRequest) (types.AnalyzeDomainResponse, error)
	SuggestPrice(ctx context.Context, req types.DomainRequest) (types.SuggestPriceResponse, error)
}

type server struct {
	svc  Service
	opts Options
}

// NewMux builds the router for svc.
func NewMux(svc Service, opts Options) http.Handler {
	s := &server{svc: svc, opts: opts.withDefaults()}

	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.opts.Logger))
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if s.opts.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.opts.CORS.AllowedOrigins,
			AllowedMethods: s.opts.CORS.AllowedMethods,
			AllowedHeaders: s.opts.CORS.AllowedHeaders,
			MaxAge:         300,
		}))
	}

	r.Get("/", s.handleInfo)
	r.Get("/health", s.handleHealth)
	r.Get("/models", s.handleModels)
	r.Post("/generate-domains", s.handleGenerateDomains)
	r.Post("/chat", s.handleChat)
	r.Post("/analyze-domain", s.handleAnalyzeDomain)
	r.Post("/suggest-price", s.handleSuggestPrice)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if s.svc.Ready(r.Context()) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("backend unavailable"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	MountSwagger(r)

	return r
}

// handleInfo godoc
// @Summary      Service information
// @Tags         meta
// @Produce      json
// @Success      200  {object}  types.InfoResponse
// @Router       / [get]
func (s *server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Info())
}

// handleHealth godoc
// @Summary      Inference backend health
// @Description  Always 200; an unreachable backend is reported in the body.
// @Tags         meta
// @Produce      json
// @Success      200  {object}  types.HealthResponse
// @Router       /health [get]
func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Health(r.Context()))
}

// handleModels godoc
// @Summary      Installed and recommended models
// @Tags         meta
// @Produce      json
// @Success      200  {object}  types.ModelsResponse
// @Router       /models [get]
func (s *server) handleModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Models(r.Context()))
}

// handleGenerateDomains godoc
// @Summary      Generate domain name ideas
// @Description  Prompts the model with the keywords and extracts up to count unique domains from its reply.
// @Tags         domains
// @Accept       json
// @Produce      json
// @Param        request  body      types.GenerateDomainsRequest  true  "Generation request"
// @Success      200      {object}  types.GenerateDomainsResponse
// @Failure      400      {object}  types.ErrorResponse
// @Failure      415      {object}  types.ErrorResponse
// @Failure      502      {object}  types.ErrorResponse
// @Failure      503      {object}  types.ErrorResponse
// @Router       /generate-domains [post]
func (s *server) handleGenerateDomains(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateDomainsRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	s.run(w, r, "generate-domains", func(ctx context.Context) (any, error) {
		return s.svc.GenerateDomains(ctx, req)
	})
}

// handleChat godoc
// @Summary      Free-form prompt
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        request  body      types.ChatRequest  true  "Chat request"
// @Success      200      {object}  types.ChatResponse
// @Failure      400      {object}  types.ErrorResponse
// @Failure      502      {object}  types.ErrorResponse
// @Failure      503      {object}  types.ErrorResponse
// @Router       /chat [post]
func (s *server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	s.run(w, r, "chat", func(ctx context.Context) (any, error) {
		return s.svc.Chat(ctx, req)
	})
}

// handleAnalyzeDomain godoc
// @Summary      Analyze a domain's quality
// @Tags         domains
// @Produce      json
// @Param        domain  query     string  false  "Domain to analyze (or JSON body)"
// @Param        model   query     string  false  "Model identifier"
// @Success      200     {object}  types.AnalyzeDomainResponse
// @Failure      400     {object}  types.ErrorResponse
// @Failure      502     {object}  types.ErrorResponse
// @Failure      503     {object}  types.ErrorResponse
// @Router       /analyze-domain [post]
func (s *server) handleAnalyzeDomain(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeDomainRequest(w, r)
	if !ok {
		return
	}
	s.run(w, r, "analyze-domain", func(ctx context.Context) (any, error) {
		return s.svc.AnalyzeDomain(ctx, req)
	})
}

// handleSuggestPrice godoc
// @Summary      Suggest a price for a domain
// @Tags         domains
// @Produce      json
// @Param        domain  query     string  false  "Domain to price (or JSON body)"
// @Param        model   query     string  false  "Model identifier"
// @Success      200     {object}  types.SuggestPriceResponse
// @Failure      400     {object}  types.ErrorResponse
// @Failure      502     {object}  types.ErrorResponse
// @Failure      503     {object}  types.ErrorResponse
// @Router       /suggest-price [post]
func (s *server) handleSuggestPrice(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeDomainRequest(w, r)
	if !ok {
		return
	}
	s.run(w, r, "suggest-price", func(ctx context.Context) (any, error) {
		return s.svc.SuggestPrice(ctx, req)
	})
}

// run executes a backend-calling operation under the joined server/request
// context and writes either its result or a mapped error.
func (s *server) run(w http.ResponseWriter, r *http.Request, op string, call func(ctx context.Context) (any, error)) {
	l := zerolog.Ctx(r.Context())
	start := time.Now()
	l.Info().Str("op", op).Msg("request start")

	// Join server base context with request context so shutdown cancels work too.
	ctx, cancel := joinContexts(s.opts.BaseContext, r.Context())
	defer cancel()
	if s.opts.RequestTimeout > 0 {
		var tcancel context.CancelFunc
		ctx, tcancel = context.WithTimeout(ctx, s.opts.RequestTimeout)
		defer tcancel()
	}

	resp, err := call(ctx)
	if err != nil {
		// Client went away: nobody to answer.
		if r.Context().Err() != nil {
			l.Info().Str("op", op).Dur("dur", time.Since(start)).Msg("request canceled")
			return
		}
		if s.opts.BaseContext.Err() != nil && errors.Is(err, context.Canceled) {
			l.Warn().Str("op", op).Dur("dur", time.Since(start)).Msg("request aborted by shutdown")
			writeJSONError(w, http.StatusServiceUnavailable, "server shutting down")
			return
		}
		status := statusFor(err)
		ev := l.Info()
		if status >= http.StatusInternalServerError {
			ev = l.Error()
		}
		ev.Str("op", op).Int("status", status).Dur("dur", time.Since(start)).Err(err).Msg("request end")
		writeJSONError(w, status, err.Error())
		return
	}
	l.Info().Str("op", op).Int("status", http.StatusOK).Dur("dur", time.Since(start)).Msg("request end")
	writeJSON(w, http.StatusOK, resp)
}

// decodeJSON enforces the content type and body limit, then decodes into dst.
// It writes the error response itself and reports whether decoding succeeded.
func (s *server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	// Content-Type check
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	// Limit body size (configurable, default 1MiB)
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		// If exceeded size, MaxBytesReader may cause an error; still return 400 to avoid size leak details
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// decodeDomainRequest reads domain and model from the query string, falling
// back to a JSON body when the query has no domain. A request without a
// declared length or content type is treated as having no body.
func (s *server) decodeDomainRequest(w http.ResponseWriter, r *http.Request) (types.DomainRequest, bool) {
	q := r.URL.Query()
	req := types.DomainRequest{Domain: q.Get("domain"), Model: q.Get("model")}
	noBody := r.ContentLength == 0 || (r.ContentLength < 0 && r.Header.Get("Content-Type") == "")
	if strings.TrimSpace(req.Domain) != "" || noBody {
		return req, true
	}
	var body types.DomainRequest
	if !s.decodeJSON(w, r, &body) {
		return req, false
	}
	if body.Model == "" {
		body.Model = req.Model
	}
	return body, true
}
