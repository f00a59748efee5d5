package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"domainllm/internal/backend"
	"domainllm/internal/config"
	"domainllm/internal/service"
)

const envPrefix = "DOMAINLLM"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "domainllm",
		Short:         "Domain name ideas from a local Ollama model",
		Version:       service.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags: every subcommand talks to the backend.
	pf := root.PersistentFlags()
	pf.String("config", "", "Path to a config file (.yaml|.yml|.json|.toml); env DOMAINLLM_CONFIG")
	pf.String("backend-url", "", "Ollama base URL (default "+config.DefaultBackendURL+")")
	pf.String("default-model", "", "Model used when a request names none (default "+config.DefaultModel+")")
	pf.String("recommended-models", "", "Comma-separated list of recommended models")
	pf.Int("generate-timeout", 0, "Generation deadline in seconds (default 60)")
	pf.Int("status-timeout", 0, "Status/model listing deadline in seconds (default 5)")
	pf.String("log-level", "", "Log level: debug|info|warn|error (default info)")
	pf.String("log-format", "", "Log format: json|console (default json)")

	root.AddCommand(newServeCmd(), newGenerateCmd(), newModelsCmd())
	return root
}

// resolveConfig layers defaults, the config file, DOMAINLLM_* environment
// variables and explicitly set flags, in that order. cmd's flags must be parsed.
func resolveConfig(cmd *cobra.Command) (config.Config, *viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return config.Config{}, nil, fmt.Errorf("bind flags: %w", err)
	}

	cfg := config.Default()
	if path := v.GetString("config"); path != "" {
		fc, err := config.Load(path)
		if err != nil {
			return config.Config{}, nil, fmt.Errorf("load config: %w", err)
		}
		cfg = cfg.Merge(fc)
	}

	var o config.Config
	if v.IsSet("addr") {
		o.Addr = v.GetString("addr")
	}
	if v.IsSet("backend-url") {
		o.BackendURL = v.GetString("backend-url")
	}
	if v.IsSet("default-model") {
		o.DefaultModel = v.GetString("default-model")
	}
	if v.IsSet("recommended-models") {
		o.RecommendedModels = splitCSV(v.GetString("recommended-models"))
	}
	if v.IsSet("generate-timeout") {
		o.GenerateTimeoutSeconds = v.GetInt("generate-timeout")
	}
	if v.IsSet("status-timeout") {
		o.StatusTimeoutSeconds = v.GetInt("status-timeout")
	}
	if v.IsSet("max-body-bytes") {
		o.MaxBodyBytes = v.GetInt64("max-body-bytes")
	}
	if v.IsSet("log-level") {
		o.LogLevel = v.GetString("log-level")
	}
	if v.IsSet("log-format") {
		o.LogFormat = v.GetString("log-format")
	}
	if v.IsSet("cors") {
		enabled := v.GetBool("cors")
		o.CORS.Enabled = &enabled
	}
	if v.IsSet("cors-origins") {
		o.CORS.AllowedOrigins = splitCSV(v.GetString("cors-origins"))
	}
	cfg = cfg.Merge(o)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, v, nil
}

// newService wires the backend client and service from cfg.
func newService(cfg config.Config) *service.Service {
	client := backend.New(backend.Options{
		BaseURL:         cfg.BackendURL,
		GenerateTimeout: cfg.GenerateTimeout(),
		StatusTimeout:   cfg.StatusTimeout(),
	})
	return service.New(client, service.Config{
		DefaultModel:      cfg.DefaultModel,
		RecommendedModels: cfg.RecommendedModels,
	})
}
