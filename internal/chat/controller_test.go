package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/docchat/internal/backend"
)

// fakeBackend records calls and replays canned responses.
type fakeBackend struct {
	mu        sync.Mutex
	uploads   [][]string
	asks      []backend.AskRequest
	uploadRes *backend.UploadResponse
	uploadErr error
	askRes    *backend.AskResponse
	askErr    error
	askHook   func(backend.AskRequest) (*backend.AskResponse, error)
}

func (f *fakeBackend) Upload(_ context.Context, files []backend.File) (*backend.UploadResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for _, file := range files {
		names = append(names, file.Name)
	}
	f.uploads = append(f.uploads, names)
	return f.uploadRes, f.uploadErr
}

func (f *fakeBackend) Ask(_ context.Context, req backend.AskRequest) (*backend.AskResponse, error) {
	f.mu.Lock()
	f.asks = append(f.asks, req)
	hook := f.askHook
	f.mu.Unlock()
	if hook != nil {
		return hook(req)
	}
	return f.askRes, f.askErr
}

func (f *fakeBackend) calls() (uploads, asks int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads), len(f.asks)
}

func newTestController(fb *fakeBackend) (*Controller, *Recorder) {
	rec := &Recorder{}
	return NewController(fb, rec, nil), rec
}

func pdfs(names ...string) []backend.File {
	files := make([]backend.File, len(names))
	for i, n := range names {
		files[i] = backend.File{Name: n, Content: strings.NewReader("%PDF")}
	}
	return files
}

// withDocuments uploads names so they are listed and selected.
func withDocuments(t *testing.T, c *Controller, fb *fakeBackend, names ...string) {
	t.Helper()
	resp := &backend.UploadResponse{}
	for _, n := range names {
		resp.Files = append(resp.Files, processed(n))
	}
	fb.uploadRes, fb.uploadErr = resp, nil
	require.NoError(t, c.HandleUpload(context.Background(), pdfs(names...)))
}

func TestHandleUpload_EmptySelectionIsNoop(t *testing.T) {
	fb := &fakeBackend{}
	c, rec := newTestController(fb)

	require.NoError(t, c.HandleUpload(context.Background(), nil))

	uploads, _ := fb.calls()
	assert.Zero(t, uploads)
	assert.Zero(t, rec.ListRenders())
	assert.Empty(t, rec.Messages())
}

func TestHandleUpload_RendersProcessedOnly(t *testing.T) {
	fb := &fakeBackend{uploadRes: &backend.UploadResponse{Files: []backend.FileResult{
		processed("a.pdf"),
		{Filename: "b.pdf", Error: "Could not process PDF"},
		processed("c.pdf"),
		{Filename: "d.txt", Error: "Invalid file type"},
	}}}
	c, rec := newTestController(fb)

	require.NoError(t, c.HandleUpload(context.Background(), pdfs("a.pdf", "b.pdf", "c.pdf", "d.txt")))

	assert.Equal(t, []string{"a.pdf", "c.pdf"}, c.UploadedSet())
	assert.Equal(t, []Document{{"a.pdf", true}, {"c.pdf", true}}, rec.Documents())

	msgs := rec.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, RoleBot, msgs[0].Role)
	assert.Equal(t, "I've processed 2 document(s). You can now ask questions about them.", msgs[0].Text)
}

func TestHandleUpload_SecondUploadReplacesList(t *testing.T) {
	fb := &fakeBackend{}
	c, rec := newTestController(fb)

	withDocuments(t, c, fb, "a.pdf", "b.pdf")
	withDocuments(t, c, fb, "c.pdf")

	assert.Equal(t, []string{"c.pdf"}, c.UploadedSet())
	assert.Equal(t, []Document{{"c.pdf", true}}, rec.Documents())
	assert.Equal(t, 2, rec.ListRenders())
	assert.Equal(t, "I've processed 1 document(s). You can now ask questions about them.", rec.Messages()[1].Text)
}

func TestHandleUpload_FailureKeepsState(t *testing.T) {
	fb := &fakeBackend{}
	c, rec := newTestController(fb)
	withDocuments(t, c, fb, "a.pdf")
	before := rec.Messages()

	fb.uploadRes, fb.uploadErr = nil, errors.New("connection refused")
	err := c.HandleUpload(context.Background(), pdfs("b.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	assert.Equal(t, []string{"a.pdf"}, c.UploadedSet())
	assert.Equal(t, 1, rec.ListRenders(), "list must not be re-rendered on failure")

	msgs := rec.Messages()
	require.Len(t, msgs, len(before)+1)
	assert.Equal(t, before, msgs[:len(before)])
	assert.Equal(t, UploadErrorText, msgs[len(msgs)-1].Text)
	assert.Equal(t, RoleBot, msgs[len(msgs)-1].Role)
}

func TestHandleAsk_BlankQuestionIsNoop(t *testing.T) {
	for _, q := range []string{"", "   ", "\n\t "} {
		fb := &fakeBackend{}
		c, rec := newTestController(fb)

		msg, err := c.HandleAsk(context.Background(), q)
		require.NoError(t, err)
		assert.Zero(t, msg)

		_, asks := fb.calls()
		assert.Zero(t, asks)
		assert.Empty(t, rec.Messages())
	}
}

func TestHandleAsk_NothingSelectedPromptsUser(t *testing.T) {
	fb := &fakeBackend{}
	c, rec := newTestController(fb)
	withDocuments(t, c, fb, "a.pdf", "b.pdf")
	require.NoError(t, c.Toggle("a.pdf"))
	require.NoError(t, c.Toggle("b.pdf"))
	before := len(rec.Messages())

	msg, err := c.HandleAsk(context.Background(), "What is X?")
	assert.ErrorIs(t, err, ErrNoDocumentsSelected)
	assert.Equal(t, SelectionHintText, msg.Text)

	_, asks := fb.calls()
	assert.Zero(t, asks)

	msgs := rec.Messages()
	require.Len(t, msgs, before+2, "the question echo and exactly one bot message")
	assert.Equal(t, RoleUser, msgs[before].Role)
	assert.Equal(t, "What is X?", msgs[before].Text)
	assert.Equal(t, RoleBot, msgs[before+1].Role)
	assert.Equal(t, "Please select which documents you want to ask about from the sidebar.", msgs[before+1].Text)
}

func TestHandleAsk_EmptyAnswerIsNotShown(t *testing.T) {
	fb := &fakeBackend{askRes: &backend.AskResponse{Answer: ""}}
	c, rec := newTestController(fb)

	msg, err := c.HandleAsk(context.Background(), "hi")
	require.NoError(t, err)
	assert.Zero(t, msg)

	_, asks := fb.calls()
	assert.Equal(t, 1, asks)

	msgs := rec.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, "hi", msgs[0].Text)
}

func TestHandleAsk_SendsSelectedDocuments(t *testing.T) {
	fb := &fakeBackend{askRes: &backend.AskResponse{Answer: "It is Y"}}
	c, _ := newTestController(fb)
	withDocuments(t, c, fb, "A.pdf", "B.pdf")
	require.NoError(t, c.Toggle("B.pdf"))

	_, err := c.HandleAsk(context.Background(), "  What is X?  ")
	require.NoError(t, err)

	require.Len(t, fb.asks, 1)
	assert.Equal(t, backend.AskRequest{Question: "What is X?", Documents: []string{"A.pdf"}}, fb.asks[0])
}

func TestHandleAsk_NoDocumentsUploadedSendsEmptySet(t *testing.T) {
	fb := &fakeBackend{askRes: &backend.AskResponse{Answer: "General answer"}}
	c, _ := newTestController(fb)

	_, err := c.HandleAsk(context.Background(), "hello")
	require.NoError(t, err)

	require.Len(t, fb.asks, 1)
	assert.Empty(t, fb.asks[0].Documents)
	assert.NotNil(t, fb.asks[0].Documents)
}

func TestHandleAsk_RendersAnswerWithSources(t *testing.T) {
	fb := &fakeBackend{askRes: &backend.AskResponse{Answer: "It is Y", Sources: []string{"A.pdf", "C.pdf"}}}
	c, rec := newTestController(fb)

	msg, err := c.HandleAsk(context.Background(), "What is X?")
	require.NoError(t, err)

	msgs := rec.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, "What is X?", msgs[0].Text)
	assert.Empty(t, msgs[0].Sources)

	assert.Equal(t, RoleBot, msgs[1].Role)
	assert.Equal(t, "It is Y", msgs[1].Text)
	assert.Equal(t, []string{"A.pdf", "C.pdf"}, msgs[1].Sources)
	assert.Equal(t, msgs[1], msg)
	assert.Equal(t, msgs, c.Messages())
}

func TestHandleAsk_UserMessageRenderedBeforeRequest(t *testing.T) {
	fb := &fakeBackend{}
	c, rec := newTestController(fb)
	fb.askHook = func(backend.AskRequest) (*backend.AskResponse, error) {
		msgs := rec.Messages()
		require.Len(t, msgs, 1)
		assert.Equal(t, RoleUser, msgs[0].Role)
		return &backend.AskResponse{Answer: "done"}, nil
	}

	_, err := c.HandleAsk(context.Background(), "q")
	require.NoError(t, err)
}

func TestHandleAsk_FailureRendersApology(t *testing.T) {
	fb := &fakeBackend{askErr: &backend.StatusError{Endpoint: "ask", StatusCode: 500}}
	c, rec := newTestController(fb)
	withDocuments(t, c, fb, "a.pdf")
	docsBefore := c.Documents()

	msg, err := c.HandleAsk(context.Background(), "q")
	var statusErr *backend.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, AskErrorText, msg.Text)

	msgs := rec.Messages()
	assert.Equal(t, AskErrorText, msgs[len(msgs)-1].Text)
	assert.Equal(t, "q", msgs[len(msgs)-2].Text)
	assert.Equal(t, docsBefore, c.Documents())
}

func TestToggle_FlipsAndRerenders(t *testing.T) {
	fb := &fakeBackend{}
	c, rec := newTestController(fb)
	withDocuments(t, c, fb, "a.pdf", "b.pdf")

	require.NoError(t, c.Toggle("a.pdf"))
	assert.Equal(t, []Document{{"a.pdf", false}, {"b.pdf", true}}, rec.Documents())
	assert.Equal(t, c.Documents(), rec.Documents())

	require.NoError(t, c.Toggle("a.pdf"))
	assert.Equal(t, []Document{{"a.pdf", true}, {"b.pdf", true}}, rec.Documents())
}

func TestToggle_UnknownDocument(t *testing.T) {
	fb := &fakeBackend{}
	c, rec := newTestController(fb)
	withDocuments(t, c, fb, "a.pdf")

	err := c.Toggle("nope.pdf")
	assert.ErrorIs(t, err, ErrUnknownDocument)
	assert.Equal(t, 1, rec.ListRenders())
}

func TestSelectOnly_RejectsUnknownWithoutChanges(t *testing.T) {
	fb := &fakeBackend{}
	c, _ := newTestController(fb)
	withDocuments(t, c, fb, "a.pdf", "b.pdf")

	err := c.SelectOnly([]string{"a.pdf", "missing.pdf"})
	assert.ErrorIs(t, err, ErrUnknownDocument)
	assert.Equal(t, []Document{{"a.pdf", true}, {"b.pdf", true}}, c.Documents())

	require.NoError(t, c.SelectOnly([]string{"b.pdf"}))
	assert.Equal(t, []Document{{"a.pdf", false}, {"b.pdf", true}}, c.Documents())
}

func TestHandleAsk_ConcurrentAsksAllComplete(t *testing.T) {
	fb := &fakeBackend{}
	fb.askHook = func(req backend.AskRequest) (*backend.AskResponse, error) {
		return &backend.AskResponse{Answer: "re: " + req.Question}, nil
	}
	c, rec := newTestController(fb)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := c.HandleAsk(context.Background(), fmt.Sprintf("q%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	msgs := rec.Messages()
	require.Len(t, msgs, 2*n)
	assert.Equal(t, msgs, c.Messages(), "transcript order must match render order")

	answers := map[string]bool{}
	for _, m := range msgs {
		if m.Role == RoleBot {
			answers[m.Text] = true
		}
	}
	assert.Len(t, answers, n)
}
