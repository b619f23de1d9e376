package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/RobinCoderZhao/aisensy-mcp/pkg/apiclient"
)

func toolsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the tools of the selected API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTools(cmd.OutOrStdout(), g)
		},
	}
}

func runTools(out io.Writer, g *globalFlags) error {
	cfg, logger, closeLog, err := setup(g)
	if err != nil {
		return err
	}
	defer closeLog()

	f, err := selectFamily(cfg, g.api)
	if err != nil {
		return err
	}
	// Listing never sends, so no adapter is needed.
	s, err := newToolServer(cfg, f, nil, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, t := range s.Tools() {
		fmt.Fprintf(w, "%s\t%s\n", t.Name, t.Description)
	}
	return w.Flush()
}

func callCmd(g *globalFlags) *cobra.Command {
	var rawArgs string

	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Call one tool and print its result envelope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(cmd.Context(), cmd.OutOrStdout(), g, args[0], rawArgs)
		},
	}

	cmd.Flags().StringVar(&rawArgs, "args", "{}", "tool arguments as a JSON object")
	return cmd
}

func runCall(ctx context.Context, out io.Writer, g *globalFlags, name, rawArgs string) error {
	var toolArgs map[string]any
	if err := json.Unmarshal([]byte(rawArgs), &toolArgs); err != nil {
		return fmt.Errorf("parse --args: %w", err)
	}

	cfg, logger, closeLog, err := setup(g)
	if err != nil {
		return err
	}
	defer closeLog()

	f, err := selectFamily(cfg, g.api)
	if err != nil {
		return err
	}

	return apiclient.Use(f.cred.AdapterConfig(cfg.HTTP), func(a *apiclient.Adapter) error {
		s, err := newToolServer(cfg, f, a, logger)
		if err != nil {
			return err
		}
		res, err := s.CallTool(ctx, name, toolArgs)
		if err != nil {
			return err
		}
		for _, c := range res.Content {
			fmt.Fprintln(out, c.Text)
		}
		if res.IsError {
			return fmt.Errorf("tool %s failed", name)
		}
		return nil
	}, apiclient.WithLogger(logger.Named("upstream")))
}
