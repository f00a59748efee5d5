package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"domainllm/internal/service"
	"domainllm/pkg/types"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate <keyword>...",
		Short:   "Generate domain ideas once and print them one per line",
		Example: "  domainllm generate shop tech --count 10",
		Args:    cobra.MinimumNArgs(1),
		RunE:    runGenerate,
	}
	f := cmd.Flags()
	f.Int("count", service.DefaultCount, "Maximum number of domains to return")
	f.String("model", "", "Model identifier (default: configured default model)")
	f.Float64("temperature", service.DefaultTemperature, "Sampling temperature")
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	req := types.GenerateDomainsRequest{Keywords: args}
	if cmd.Flags().Changed("count") {
		n, _ := cmd.Flags().GetInt("count")
		req.Count = &n
	}
	if cmd.Flags().Changed("temperature") {
		t, _ := cmd.Flags().GetFloat64("temperature")
		req.Temperature = &t
	}
	req.Model, _ = cmd.Flags().GetString("model")

	resp, err := newService(cfg).GenerateDomains(log.WithContext(cmd.Context()), req)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, d := range resp.Domains {
		fmt.Fprintln(out, d)
	}
	log.Debug().Int("count", resp.Count).Str("model", resp.ModelUsed).Msg("generate done")
	return nil
}
