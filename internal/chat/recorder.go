package chat

import "sync"

// Recorder is a Renderer that keeps what it was asked to render.
type Recorder struct {
	mu        sync.Mutex
	documents []Document
	messages  []Message
	lists     int
}

// RenderDocuments implements Renderer.
func (r *Recorder) RenderDocuments(docs []Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.documents = append([]Document(nil), docs...)
	r.lists++
}

// RenderMessage implements Renderer.
func (r *Recorder) RenderMessage(msg Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

// Documents returns the most recently rendered list.
func (r *Recorder) Documents() []Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Document(nil), r.documents...)
}

// Messages returns every rendered message in render order.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// ListRenders counts RenderDocuments calls.
func (r *Recorder) ListRenders() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lists
}
