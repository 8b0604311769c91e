package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vivosprep/internal/verify"
)

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var rawDir, processedDir string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check an existing Kaldi data directory against its raw corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.SetCorpusDirs(rawDir, processedDir); err != nil {
				return err
			}
			if err := cfg.RequireCorpusDirs(); err != nil {
				return err
			}

			results := verify.Run(verify.OptionsFromConfig(cfg))
			out := newPrinter(cmd.OutOrStdout())
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{r.Split, r.Name, statusKindLabel(passKind(r.Passed)), r.Detail})
			}
			out.table([]string{"Split", "Check", "Result", "Detail"}, rows, nil, nil)

			failed := verify.Failures(results)
			if failed > 0 {
				out.status("Verify", statusError, fmt.Sprintf("%d of %d checks failed", failed, len(results)))
				return fmt.Errorf("verification failed: %d of %d checks", failed, len(results))
			}
			out.status("Verify", statusOK, fmt.Sprintf("%d checks passed", len(results)))
			return nil
		},
	}

	cmd.Flags().StringVar(&rawDir, "raw-dir", "", "Raw corpus root (overrides paths.raw_dir)")
	cmd.Flags().StringVar(&processedDir, "processed-dir", "", "Kaldi recipe root to check (overrides paths.processed_dir)")
	return cmd
}
