// Package render turns controller output into terminal text or HTML.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/ziadkadry99/docchat/internal/chat"
)

// Terminal renders the document list and transcript as colored lines.
type Terminal struct {
	w io.Writer

	user     *color.Color
	bot      *color.Color
	badge    *color.Color
	selected *color.Color
	muted    *color.Color
}

// NewTerminal returns a Terminal writing to w. With plain set, no escape
// codes are written.
func NewTerminal(w io.Writer, plain bool) *Terminal {
	t := &Terminal{
		w:        w,
		user:     color.New(color.FgCyan, color.Bold),
		bot:      color.New(color.FgGreen, color.Bold),
		badge:    color.New(color.FgYellow),
		selected: color.New(color.FgGreen),
		muted:    color.New(color.Faint),
	}
	if plain {
		for _, c := range []*color.Color{t.user, t.bot, t.badge, t.selected, t.muted} {
			c.DisableColor()
		}
	}
	return t
}

// RenderDocuments implements chat.Renderer.
func (t *Terminal) RenderDocuments(docs []chat.Document) {
	if len(docs) == 0 {
		t.muted.Fprintln(t.w, "Documents: none uploaded")
		return
	}
	fmt.Fprintf(t.w, "Documents (%d):\n", len(docs))
	for _, d := range docs {
		if d.Selected {
			t.selected.Fprintf(t.w, "  [x] %s\n", d.Filename)
		} else {
			t.muted.Fprintf(t.w, "  [ ] %s\n", d.Filename)
		}
	}
}

// RenderMessage implements chat.Renderer.
func (t *Terminal) RenderMessage(msg chat.Message) {
	label := t.bot
	prefix := "Bot:"
	if msg.Role == chat.RoleUser {
		label = t.user
		prefix = "You:"
	}

	label.Fprint(t.w, prefix)
	fmt.Fprintf(t.w, " %s\n", indent(msg.Text, "     "))

	if len(msg.Sources) > 0 {
		t.muted.Fprint(t.w, "     Sources:")
		for _, src := range msg.Sources {
			fmt.Fprint(t.w, " ")
			t.badge.Fprintf(t.w, "[%s]", src)
		}
		fmt.Fprintln(t.w)
	}
}

// indent prefixes every line after the first so multi-line answers stay
// aligned under the speaker label.
func indent(s, pad string) string {
	return strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", "\n"+pad)
}
