package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/RobinCoderZhao/aisensy-mcp/internal/aisensy/config"
	"github.com/RobinCoderZhao/aisensy-mcp/internal/auth"
)

func tokenCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage bearer tokens for the HTTP transport",
	}
	cmd.AddCommand(tokenHashCmd())
	cmd.AddCommand(tokenIssueCmd(g))
	return cmd
}

func tokenHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <token>",
		Short: "Print the bcrypt hash of a static token",
		Long:  "Print the bcrypt hash to put under server.auth.tokens[].hash.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashToken(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func tokenIssueCmd(g *globalFlags) *cobra.Command {
	var (
		clientID string
		scopes   []string
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a JWT signed with server.auth.jwt_secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokenIssue(cmd.OutOrStdout(), g, clientID, scopes, ttl)
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "client id (JWT subject)")
	cmd.Flags().StringSliceVar(&scopes, "scopes", nil, "comma-separated scopes")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("client-id")
	return cmd
}

func runTokenIssue(out io.Writer, g *globalFlags, clientID string, scopes []string, ttl time.Duration) error {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Server.Auth.JWTSecret == "" {
		return errors.New("server.auth.jwt_secret (AISENSY_MCP_JWT_SECRET) is not set")
	}
	token, err := auth.IssueToken(cfg.Server.Auth.JWTSecret, cfg.Server.Auth.Issuer, clientID, scopes, ttl, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintln(out, token)
	return nil
}
