package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/RobinCoderZhao/aisensy-mcp/internal/aisensy/config"
	"github.com/RobinCoderZhao/aisensy-mcp/internal/aisensy/direct"
	"github.com/RobinCoderZhao/aisensy-mcp/internal/aisensy/operation"
	"github.com/RobinCoderZhao/aisensy-mcp/internal/aisensy/partner"
	"github.com/RobinCoderZhao/aisensy-mcp/pkg/logging"
	"github.com/RobinCoderZhao/aisensy-mcp/pkg/mcpserver"
)

const (
	apiPartner = "partner"
	apiDirect  = "direct"
)

// family is one API surface: its credential and its operations.
type family struct {
	name string
	cred config.Credential
	ops  []operation.Operation
}

func selectFamily(cfg config.Config, api string) (family, error) {
	switch api {
	case apiPartner:
		return family{name: apiPartner, cred: cfg.PartnerCredential(), ops: partner.Operations()}, nil
	case apiDirect:
		return family{name: apiDirect, cred: cfg.DirectCredential(), ops: direct.Operations()}, nil
	default:
		return family{}, fmt.Errorf("unknown api %q (want %s or %s)", api, apiPartner, apiDirect)
	}
}

// setup loads configuration and the logger. The returned func releases the logger.
func setup(g *globalFlags) (config.Config, *zap.SugaredLogger, func(), error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, func() { _ = closeLog() }, nil
}

// newToolServer registers every operation of f on a fresh tool server that
// sends through sender.
func newToolServer(cfg config.Config, f family, sender operation.Sender, logger *zap.SugaredLogger) (*mcpserver.Server, error) {
	name := cfg.Server.Name
	if name == "" {
		name = "aisensy-" + f.name
	}
	s := mcpserver.New(name, version, mcpserver.WithLogger(logger))
	s.Use(mcpserver.RecoveryMiddleware(logger))
	s.Use(mcpserver.LoggingMiddleware(logger))

	runner := operation.NewRunner(sender, f.cred, operation.WithLogger(logger.With("api", f.name)))
	if err := operation.Register(s, runner, f.ops); err != nil {
		return nil, err
	}
	return s, nil
}
