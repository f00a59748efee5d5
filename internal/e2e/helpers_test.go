package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"domainllm/internal/backend"
	"domainllm/internal/httpapi"
	"domainllm/internal/service"
)

// fakeOllama is a scripted stand-in for the inference server.
type fakeOllama struct {
	mu         sync.Mutex
	completion string
	status     int
	delay      time.Duration
	tags       []string
	prompts    []string
	canceled   chan struct{}
}

func (f *fakeOllama) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/generate":
		var body struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.prompts = append(f.prompts, body.Prompt)
		completion, status, delay := f.completion, f.status, f.delay
		f.mu.Unlock()
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				if f.canceled != nil {
					close(f.canceled)
				}
				return
			}
		}
		if status != 0 && status != http.StatusOK {
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "model '" + body.Model + "' not found"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"model": body.Model, "response": completion, "done": true})
	case "/api/tags":
		f.mu.Lock()
		names := append([]string(nil), f.tags...)
		f.mu.Unlock()
		models := make([]map[string]string, 0, len(names))
		for _, n := range names {
			models = append(models, map[string]string{"name": n})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"models": models})
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeOllama) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

// newStack starts the full HTTP stack against backendURL.
func newStack(t *testing.T, backendURL string, generateTimeout time.Duration) *httptest.Server {
	t.Helper()
	client := backend.New(backend.Options{BaseURL: backendURL, GenerateTimeout: generateTimeout, StatusTimeout: time.Second})
	svc := service.New(client, service.Config{DefaultModel: "qwen2.5:3b", RecommendedModels: []string{"qwen2.5:3b", "gemma:2b"}})
	srv := httptest.NewServer(httpapi.NewMux(svc, httpapi.Options{}))
	t.Cleanup(srv.Close)
	return srv
}

// newFakeServer serves f and returns its base URL.
func newFakeServer(t *testing.T, f *fakeOllama) string {
	t.Helper()
	ollama := httptest.NewServer(f)
	t.Cleanup(ollama.Close)
	return ollama.URL
}

func newStackWithFake(t *testing.T, f *fakeOllama) *httptest.Server {
	t.Helper()
	return newStack(t, newFakeServer(t, f), 2*time.Second)
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}
