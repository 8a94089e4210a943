package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hamed0406/sentinel/internal/domain"
	"github.com/hamed0406/sentinel/internal/probe"
)

var (
	flagKind   string
	flagName   string
	flagDigest string
	flagPorts  string
)

func main() {
	root := &cobra.Command{
		Use:           "sentinel",
		Short:         "Run ad-hoc health and security checks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCheckCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [address]",
		Short: "Run one check against an address and print the outcome",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheck,
	}
	cmd.Flags().StringVarP(&flagKind, "kind", "k", "http",
		"target kind: http, icmp, tls, port, crawl_audit, typosquat, eco_audit")
	cmd.Flags().StringVarP(&flagName, "name", "n", "", "display name for the target")
	cmd.Flags().StringVar(&flagDigest, "digest", "", "expected SHA-256 body digest (http)")
	cmd.Flags().StringVar(&flagPorts, "ports", "", "expected open ports, comma-separated (port)")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	kind, err := domain.ParseKind(flagKind)
	if err != nil {
		return err
	}
	t := domain.Target{
		ID:             "cli",
		Name:           flagName,
		Kind:           kind,
		Address:        args[0],
		ExpectedDigest: flagDigest,
		ExpectedPorts:  flagPorts,
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	out := probe.Defaults().Check(ctx, t)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	if out.Status == domain.StatusDown {
		os.Exit(2)
	}
	return nil
}
