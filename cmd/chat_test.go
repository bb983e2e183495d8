package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ziadkadry99/docchat/internal/backend"
	"github.com/ziadkadry99/docchat/internal/chat"
	"github.com/ziadkadry99/docchat/internal/render"
)

type stubBackend struct {
	mu   sync.Mutex
	asks []backend.AskRequest
}

func (b *stubBackend) Upload(_ context.Context, files []backend.File) (*backend.UploadResponse, error) {
	resp := &backend.UploadResponse{}
	for _, f := range files {
		io.Copy(io.Discard, f.Content)
		resp.Files = append(resp.Files, backend.FileResult{Filename: f.Name, Status: backend.StatusProcessed})
	}
	return resp, nil
}

func (b *stubBackend) Ask(_ context.Context, req backend.AskRequest) (*backend.AskResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.asks = append(b.asks, req)
	return &backend.AskResponse{Answer: "answer to " + req.Question}, nil
}

func newTestSession(b chat.Backend) (*chatSession, *chat.Recorder) {
	rec := &chat.Recorder{}
	return &chatSession{
		ctrl: chat.NewController(b, rec, nil),
		term: render.NewTerminal(io.Discard, true),
		log:  zap.NewNop(),
	}, rec
}

func TestHandleLine_Quit(t *testing.T) {
	s, _ := newTestSession(&stubBackend{})
	assert.True(t, s.handleLine(context.Background(), "/quit"))
	assert.False(t, s.handleLine(context.Background(), "   "))
	assert.False(t, s.handleLine(context.Background(), "/help"))
}

func TestHandleLine_UploadToggleAsk(t *testing.T) {
	b := &stubBackend{}
	s, rec := newTestSession(b)
	ctx := context.Background()

	dir := t.TempDir()
	for _, name := range []string{"a.pdf", "b.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0o644))
	}

	s.handleLine(ctx, "/upload "+filepath.Join(dir, "*.pdf"))
	require.Len(t, s.ctrl.Documents(), 2)

	s.handleLine(ctx, "/toggle b.pdf")
	s.handleLine(ctx, "What is X?")
	s.handleLine(ctx, "What is Z?")
	s.inflight.Wait()

	require.Len(t, b.asks, 2)
	for _, req := range b.asks {
		assert.Equal(t, []string{"a.pdf"}, req.Documents)
	}
	// upload summary + two questions with their answers
	assert.Len(t, rec.Messages(), 5)
}

func TestHandleLine_UnknownToggleLeavesState(t *testing.T) {
	s, _ := newTestSession(&stubBackend{})
	s.handleLine(context.Background(), "/toggle nope.pdf")
	assert.Empty(t, s.ctrl.Documents())
}

func TestHandleLine_UploadNoMatch(t *testing.T) {
	s, rec := newTestSession(&stubBackend{})
	s.handleLine(context.Background(), "/upload "+filepath.Join(t.TempDir(), "*.pdf"))
	assert.Empty(t, s.ctrl.Documents())
	assert.Empty(t, rec.Messages())
}
