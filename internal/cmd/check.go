package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and ping the configured backends",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "config ok: addr=%s catalog=%s sales=%s\n", cfg.Server.Addr, cfg.Store.Catalog, cfg.Store.Sales)
	if cfg.Auth.JWTSecret == "" {
		fmt.Fprintln(out, "warning: auth.jwt_secret is empty, serve will use the development secret")
	}

	b, err := openBackends(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer b.close()
	if err := b.ready(cmd.Context()); err != nil {
		return fmt.Errorf("backends not ready: %w", err)
	}
	fmt.Fprintln(out, "backends ok")
	return nil
}
