package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/ziadkadry99/docchat/internal/chat"
	"github.com/ziadkadry99/docchat/internal/render"
)

//go:embed templates/*.html
var templateFS embed.FS

// views renders the page and its fragments. The document list and message
// templates are shared by the initial page and the websocket events.
type views struct {
	tmpl *template.Template
	md   *render.Markdown
}

type messageView struct {
	Role    string
	Body    template.HTML
	Sources []string
}

type pageView struct {
	Documents template.HTML
	Messages  []template.HTML
}

func newViews(md *render.Markdown) (*views, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &views{tmpl: tmpl, md: md}, nil
}

func (v *views) documents(docs []chat.Document) (template.HTML, error) {
	return v.execute("documents", docs)
}

// message renders one transcript entry. Bot text is markdown; user text is
// shown as typed.
func (v *views) message(msg chat.Message) (template.HTML, error) {
	mv := messageView{Role: string(msg.Role), Sources: msg.Sources}
	if msg.Role == chat.RoleBot {
		body, err := v.md.HTML(msg.Text)
		if err != nil {
			return "", err
		}
		mv.Body = body
	} else {
		mv.Body = template.HTML(template.HTMLEscapeString(msg.Text))
	}
	return v.execute("message", mv)
}

func (v *views) page(docs []chat.Document, msgs []chat.Message) ([]byte, error) {
	var pv pageView
	var err error
	if pv.Documents, err = v.documents(docs); err != nil {
		return nil, err
	}
	for _, m := range msgs {
		html, err := v.message(m)
		if err != nil {
			return nil, err
		}
		pv.Messages = append(pv.Messages, html)
	}

	var buf bytes.Buffer
	if err := v.tmpl.ExecuteTemplate(&buf, "page", pv); err != nil {
		return nil, fmt.Errorf("rendering page: %w", err)
	}
	return buf.Bytes(), nil
}

func (v *views) execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := v.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}
