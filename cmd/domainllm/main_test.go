package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"domainllm/internal/config"
)

// parsed returns the named subcommand with args parsed, ready for resolveConfig.
func parsed(t *testing.T, name string, args ...string) *cobra.Command {
	t.Helper()
	cmd, _, err := newRootCmd().Find([]string{name})
	if err != nil {
		t.Fatalf("find %s: %v", name, err)
	}
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cmd
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

type recorded struct {
	mu   sync.Mutex
	reqs []map[string]any
}

func (r *recorded) all() []map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]map[string]any(nil), r.reqs...)
}

func fakeOllama(t *testing.T, completion string, tags []string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/generate":
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			rec.mu.Lock()
			rec.reqs = append(rec.reqs, body)
			rec.mu.Unlock()
			_ = json.NewEncoder(w).Encode(map[string]any{"model": body["model"], "response": completion, "done": true})
		case "/api/tags":
			models := make([]map[string]string, 0, len(tags))
			for _, n := range tags {
				models = append(models, map[string]string{"name": n})
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"models": models})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestResolveConfig_Defaults(t *testing.T) {
	cfg, _, err := resolveConfig(parsed(t, "serve"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if diff := cmp.Diff(config.Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveConfig_Precedence(t *testing.T) {
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	content := "addr: :7000\nbackend_url: http://file:1\ndefault_model: file-model\nlog_level: warn\n"
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("DOMAINLLM_CONFIG", p)
	t.Setenv("DOMAINLLM_BACKEND_URL", "http://env:2")
	t.Setenv("DOMAINLLM_DEFAULT_MODEL", "env-model")

	cfg, _, err := resolveConfig(parsed(t, "serve", "--default-model", "flag-model", "--recommended-models", "a, b"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Addr != ":7000" || cfg.LogLevel != "warn" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.BackendURL != "http://env:2" {
		t.Fatalf("env should override file, got %s", cfg.BackendURL)
	}
	if cfg.DefaultModel != "flag-model" {
		t.Fatalf("flag should override env, got %s", cfg.DefaultModel)
	}
	if diff := cmp.Diff([]string{"a", "b"}, cfg.RecommendedModels); diff != "" {
		t.Fatalf("recommended models (-want +got):\n%s", diff)
	}
}

func TestResolveConfig_ServeFlags(t *testing.T) {
	cmd := parsed(t, "serve", "--cors=false", "--max-body-bytes", "4096", "--request-timeout", "3s", "--generate-timeout", "90")
	cfg, v, err := resolveConfig(cmd)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.CORSEnabled() || cfg.MaxBodyBytes != 4096 || cfg.GenerateTimeoutSeconds != 90 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if d := v.GetDuration("request-timeout"); d.Seconds() != 3 {
		t.Fatalf("request-timeout=%v", d)
	}
}

func TestResolveConfig_Invalid(t *testing.T) {
	if _, _, err := resolveConfig(parsed(t, "serve", "--backend-url", "localhost:11434")); err == nil {
		t.Fatalf("expected error for backend url without scheme")
	}
	t.Setenv("DOMAINLLM_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, _, err := resolveConfig(parsed(t, "serve")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestGenerateCommand(t *testing.T) {
	srv, rec := fakeOllama(t, "Here you go:\n1. GetShop.com\n2. mytech.io\n3. getshop.com\n4. bestweb.app", nil)
	out, err := run(t, "generate", "shop", "tech", "--count", "2", "--model", "gemma:2b", "--backend-url", srv.URL)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "getshop.com\nmytech.io\n" {
		t.Fatalf("unexpected output %q", out)
	}
	reqs := rec.all()
	if len(reqs) != 1 {
		t.Fatalf("expected one backend call, got %d", len(reqs))
	}
	got := reqs[0]
	if got["model"] != "gemma:2b" || got["stream"] != false || !strings.Contains(got["prompt"].(string), "shop, tech") {
		t.Fatalf("unexpected backend payload: %v", got)
	}
}

func TestGenerateCommand_Errors(t *testing.T) {
	if _, err := run(t, "generate"); err == nil {
		t.Fatalf("expected error without keywords")
	}
	if _, err := run(t, "generate", "shop", "--count", "0", "--backend-url", "http://127.0.0.1:1"); err == nil {
		t.Fatalf("expected validation error for count 0")
	}
	if _, err := run(t, "generate", "shop", "--backend-url", "http://127.0.0.1:1"); err == nil {
		t.Fatalf("expected error for unreachable backend")
	}
}

func TestModelsCommand(t *testing.T) {
	srv, _ := fakeOllama(t, "", []string{"qwen2.5:3b", "mistral:7b"})
	out, err := run(t, "models", "--backend-url", srv.URL, "--recommended-models", "qwen2.5:3b")
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	want := "installed:\n  qwen2.5:3b\n  mistral:7b\nrecommended:\n  qwen2.5:3b\n"
	if out != want {
		t.Fatalf("unexpected output:\n%s", out)
	}

	out, err = run(t, "models", "--backend-url", "http://127.0.0.1:1", "--status-timeout", "1")
	if err != nil {
		t.Fatalf("models with backend down: %v", err)
	}
	if !strings.Contains(out, "unavailable (Cannot connect to Ollama)") || !strings.Contains(out, "recommended:") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := newLogger(config.Config{LogLevel: "WARN"}, &buf)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	l.Info().Msg("hidden")
	l.Warn().Msg("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), `"message":"shown"`) {
		t.Fatalf("unexpected output: %s", buf.String())
	}

	buf.Reset()
	l, err = newLogger(config.Config{LogFormat: "console"}, &buf)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	l.Info().Msg("hello")
	if strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), "hello") {
		t.Fatalf("expected console output, got %s", buf.String())
	}

	if _, err := newLogger(config.Config{LogLevel: "loud"}, &buf); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	printBanner(&buf, config.Default())
	out := buf.String()
	for _, want := range []string{"ollama pull qwen2.5:3b", "  - gemma:2b", "http://localhost:8001"} {
		if !strings.Contains(out, want) {
			t.Fatalf("banner missing %q:\n%s", want, out)
		}
	}
	if got := listenURL("127.0.0.1:9000"); got != "http://127.0.0.1:9000" {
		t.Fatalf("listenURL=%s", got)
	}
}
