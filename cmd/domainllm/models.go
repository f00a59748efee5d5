package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List installed and recommended models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			resp := newService(cfg).Models(log.WithContext(cmd.Context()))
			out := cmd.OutOrStdout()
			if resp.InstalledModels == nil {
				fmt.Fprintf(out, "installed: unavailable (%s)\n", resp.Error)
			} else {
				fmt.Fprintln(out, "installed:")
				for _, m := range *resp.InstalledModels {
					fmt.Fprintf(out, "  %s\n", m)
				}
			}
			fmt.Fprintln(out, "recommended:")
			for _, m := range resp.RecommendedModels {
				fmt.Fprintf(out, "  %s\n", m)
			}
			return nil
		},
	}
}
