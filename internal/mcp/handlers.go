package mcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/ziadkadry99/docchat/internal/chat"
	"github.com/ziadkadry99/docchat/internal/picker"
	"github.com/ziadkadry99/docchat/internal/render"
)

// handleUploadDocuments expands the given paths and uploads the files.
func (s *Server) handleUploadDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	patterns, err := request.RequireStringSlice("paths")
	if err != nil || len(patterns) == 0 {
		return mcp.NewToolResultError("missing required parameter: paths"), nil
	}

	paths, err := picker.Expand(patterns)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	files, closeFiles, err := picker.Open(paths)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer closeFiles()

	s.calls.Lock()
	defer s.calls.Unlock()

	mark := len(s.rec.Messages())
	if err := s.ctrl.HandleUpload(ctx, files); err != nil {
		return mcp.NewToolResultError(s.messagesSince(mark)), nil
	}

	s.log.Info("uploaded", zap.Int("files", len(files)))
	return mcp.NewToolResultText(s.messagesSince(mark) + "\n\n" + s.documentList()), nil
}

// handleListDocuments returns the current document list.
func (s *Server) handleListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.documentList()), nil
}

// handleToggleDocument flips one document's selection.
func (s *Server) handleToggleDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filename, err := request.RequireString("filename")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: filename"), nil
	}

	if err := s.ctrl.Toggle(filename); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.documentList()), nil
}

// handleSelectDocuments selects exactly the named documents.
func (s *Server) handleSelectDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filenames, err := request.RequireStringSlice("filenames")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: filenames"), nil
	}

	if err := s.ctrl.SelectOnly(filenames); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.documentList()), nil
}

// handleAskQuestion asks about the selected documents.
func (s *Server) handleAskQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question := strings.TrimSpace(request.GetString("question", ""))
	if question == "" {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}

	s.calls.Lock()
	defer s.calls.Unlock()

	reply, err := s.ctrl.HandleAsk(ctx, question)
	switch {
	case errors.Is(err, chat.ErrNoDocumentsSelected):
		return mcp.NewToolResultError(reply.Text + " Use select_documents or toggle_document first."), nil
	case err != nil:
		return mcp.NewToolResultError(reply.Text), nil
	}

	if reply.Text == "" {
		return mcp.NewToolResultText("The backend returned no answer."), nil
	}
	return mcp.NewToolResultText(formatAnswer(reply)), nil
}

// messagesSince joins the text of every bot message recorded after mark.
func (s *Server) messagesSince(mark int) string {
	msgs := s.rec.Messages()
	var parts []string
	for _, m := range msgs[mark:] {
		if m.Role == chat.RoleBot {
			parts = append(parts, m.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func (s *Server) documentList() string {
	var buf bytes.Buffer
	render.NewTerminal(&buf, true).RenderDocuments(s.ctrl.Documents())
	return strings.TrimRight(buf.String(), "\n")
}

// formatAnswer renders an answer with its cited documents for agent
// consumption.
func formatAnswer(msg chat.Message) string {
	if len(msg.Sources) == 0 {
		return msg.Text
	}
	return fmt.Sprintf("%s\n\nSources: %s", msg.Text, strings.Join(msg.Sources, ", "))
}
