package mcp

import (
	"sync"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ziadkadry99/docchat/internal/chat"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that lets an agent upload documents and ask
// questions about them. All tools drive one chat session.
type Server struct {
	ctrl *chat.Controller
	rec  *chat.Recorder
	log  *zap.Logger
	mcp  *server.MCPServer

	// calls serializes tool calls so each result holds only the messages
	// its own call produced.
	calls sync.Mutex
}

// NewServer creates a new MCP server backed by b.
func NewServer(b chat.Backend, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	rec := &chat.Recorder{}
	s := &Server{
		ctrl: chat.NewController(b, rec, log),
		rec:  rec,
		log:  log.Named("mcp"),
	}

	s.mcp = server.NewMCPServer(
		"docchat",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(uploadDocumentsTool, s.handleUploadDocuments)
	s.mcp.AddTool(listDocumentsTool, s.handleListDocuments)
	s.mcp.AddTool(toggleDocumentTool, s.handleToggleDocument)
	s.mcp.AddTool(selectDocumentsTool, s.handleSelectDocuments)
	s.mcp.AddTool(askQuestionTool, s.handleAskQuestion)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
