package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/disease-support-server/internal/domain"
	"github.com/disease-support-server/internal/service"
)

// Default server metadata
const (
	DefaultServerName    = "disease-support-server"
	DefaultServerVersion = "1.0.0"
)

// Server exposes the diagnosis service as MCP tools
type Server struct {
	config    domain.MCPConfig
	mcpServer *mcp.Server
	service   *service.DiagnosisService
	logger    *logrus.Logger
}

// NewServer creates a new MCP server instance with all tools registered
func NewServer(cfg domain.MCPConfig, svc *service.DiagnosisService, logger *logrus.Logger) *Server {
	if cfg.ServerName == "" {
		cfg.ServerName = DefaultServerName
	}
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = DefaultServerVersion
	}

	serverInfo := &mcp.Implementation{
		Name:    cfg.ServerName,
		Version: cfg.ServerVersion,
	}

	s := &Server{
		config:    cfg,
		mcpServer: mcp.NewServer(serverInfo, nil),
		service:   svc,
		logger:    logger,
	}
	s.registerTools()

	return s
}

// Start serves MCP over stdio until ctx is cancelled or the client disconnects
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithFields(logrus.Fields{
		"server_name": s.config.ServerName,
		"version":     s.config.ServerVersion,
		"transport":   "stdio",
	}).Info("Starting MCP server")

	if err := s.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// registerTools registers the diagnosis, alignment and catalogue tools
func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolDiagnose,
		Description: "Rank infectious diseases and co-infections by confidence for a list of reported symptoms",
	}, s.handleDiagnose)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolAlignSequences,
		Description: "Score the global alignment of two symbol sequences (match 3, mismatch -1, gap -2 unless overridden)",
	}, s.handleAlignSequences)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolListSymptoms,
		Description: "List the recognized symptom names with their codes and categories",
	}, s.handleListSymptoms)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolListDiseases,
		Description: "List the disease and co-infection profiles used for diagnosis",
	}, s.handleListDiseases)

	s.logger.WithField("tool_count", 4).Debug("Registered MCP tools")
}
