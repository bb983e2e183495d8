// Package chat holds the chat and upload controller: the session's document
// list, its transcript, and the two request flows that change them.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ziadkadry99/docchat/internal/backend"
)

var (
	// ErrNoDocumentsSelected is returned by HandleAsk when documents are
	// listed but none is selected. No request is sent.
	ErrNoDocumentsSelected = errors.New("no documents selected")

	// ErrUnknownDocument is returned when a toggle or selection names a
	// document that is not listed.
	ErrUnknownDocument = errors.New("unknown document")
)

// Backend is the part of the backend client the controller drives.
type Backend interface {
	Upload(ctx context.Context, files []backend.File) (*backend.UploadResponse, error)
	Ask(ctx context.Context, req backend.AskRequest) (*backend.AskResponse, error)
}

// Renderer shows controller output. RenderDocuments always receives the
// complete list and must rebuild its view from scratch. RenderMessage
// appends one message and keeps the view scrolled to it.
//
// Calls are serialized by the controller. A renderer may read controller
// state from inside a call but must not start another operation.
type Renderer interface {
	RenderDocuments(docs []Document)
	RenderMessage(msg Message)
}

// Controller mediates between user events, the backend and a Renderer.
// Its methods are safe to call from multiple goroutines; every call is an
// independent task and concurrent asks complete in arrival order.
type Controller struct {
	backend  Backend
	renderer Renderer
	log      *zap.Logger

	// renderMu orders state changes with their render calls. Always
	// acquired before mu.
	renderMu sync.Mutex

	mu       sync.Mutex
	state    State
	messages []Message
}

// NewController returns a controller with an empty document list and
// transcript.
func NewController(b Backend, r Renderer, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		backend:  b,
		renderer: r,
		log:      log.Named("chat"),
	}
}

// HandleUpload sends files to the backend and, on success, replaces the
// document list with the processed ones. An empty selection does nothing.
// On failure the list is left untouched and a fixed apology is appended.
func (c *Controller) HandleUpload(ctx context.Context, files []backend.File) error {
	if len(files) == 0 {
		return nil
	}

	resp, err := c.backend.Upload(ctx, files)
	if err != nil {
		c.log.Error("upload failed", zap.Int("files", len(files)), zap.Error(err))
		c.appendMessage(RoleBot, UploadErrorText, nil)
		return fmt.Errorf("upload documents: %w", err)
	}

	c.renderMu.Lock()
	c.mu.Lock()
	c.state = ApplyUpload(c.state, *resp)
	docs := c.state.Documents()
	c.mu.Unlock()
	c.renderer.RenderDocuments(docs)
	c.renderMu.Unlock()

	c.log.Info("documents processed",
		zap.Int("submitted", len(files)),
		zap.Int("processed", len(docs)),
	)
	c.appendMessage(RoleBot, uploadSummary(len(docs)), nil)
	return nil
}

// HandleAsk asks question against the selected documents. A blank question
// does nothing and returns a zero Message. Otherwise the question is echoed
// and the returned Message is the bot reply that was appended: the answer,
// the selection hint, or the fixed apology. An empty answer appends nothing
// and returns a zero Message.
func (c *Controller) HandleAsk(ctx context.Context, question string) (Message, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Message{}, nil
	}

	c.appendMessage(RoleUser, question, nil)

	c.mu.Lock()
	documents, ok := ResolveSelection(c.state)
	c.mu.Unlock()
	if !ok {
		return c.appendMessage(RoleBot, SelectionHintText, nil), ErrNoDocumentsSelected
	}

	resp, err := c.backend.Ask(ctx, backend.AskRequest{Question: question, Documents: documents})
	if err != nil {
		c.log.Error("ask failed", zap.Int("documents", len(documents)), zap.Error(err))
		return c.appendMessage(RoleBot, AskErrorText, nil), fmt.Errorf("ask question: %w", err)
	}

	// An empty answer is not shown.
	if resp.Answer == "" {
		c.log.Warn("backend returned an empty answer", zap.Int("documents", len(documents)))
		return Message{}, nil
	}
	return c.appendMessage(RoleBot, resp.Answer, resp.Sources), nil
}

// Toggle flips the selection of one listed document and re-renders the
// list.
func (c *Controller) Toggle(filename string) error {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()

	c.mu.Lock()
	next, ok := Toggle(c.state, filename)
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownDocument, filename)
	}
	c.state = next
	docs := next.Documents()
	c.mu.Unlock()

	c.renderer.RenderDocuments(docs)
	return nil
}

// SelectOnly selects exactly the named documents. If any name is not
// listed, nothing changes.
func (c *Controller) SelectOnly(filenames []string) error {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()

	c.mu.Lock()
	next, unknown := SelectOnly(c.state, filenames)
	if len(unknown) > 0 {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownDocument, strings.Join(unknown, ", "))
	}
	c.state = next
	docs := next.Documents()
	c.mu.Unlock()

	c.renderer.RenderDocuments(docs)
	return nil
}

// Documents returns the current document list.
func (c *Controller) Documents() []Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Documents()
}

// UploadedSet returns the filenames from the most recent successful upload.
func (c *Controller) UploadedSet() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.UploadedSet()
}

// Messages returns a copy of the transcript.
func (c *Controller) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Controller) appendMessage(role Role, text string, sources []string) Message {
	msg := newMessage(role, text, sources)

	c.renderMu.Lock()
	defer c.renderMu.Unlock()

	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()

	c.renderer.RenderMessage(msg)
	return msg
}

func uploadSummary(processed int) string {
	return fmt.Sprintf("I've processed %d document(s). You can now ask questions about them.", processed)
}
