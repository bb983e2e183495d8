package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ziadkadry99/docchat/internal/backend"
	"github.com/ziadkadry99/docchat/internal/chat"
)

const maxUploadMemory = 32 << 20

var errSessionExpired = errors.New("session expired")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// sessionResponse is the JSON response for the session endpoint.
type sessionResponse struct {
	Documents []chat.Document `json:"documents"`
	Messages  []chat.Message  `json:"messages"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.open(w, r)

	page, err := s.views.page(sess.ctrl.Documents(), sess.ctrl.Messages())
	if err != nil {
		s.log.Error("rendering page", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.open(w, r)

	resp := sessionResponse{
		Documents: sess.ctrl.Documents(),
		Messages:  sess.ctrl.Messages(),
	}
	if resp.Documents == nil {
		resp.Documents = []chat.Document{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.open(w, r)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid upload form"})
		return
	}

	// The form's temp files are removed when the handler returns, so the
	// payloads are read before the upload task starts.
	files, err := readParts(r.MultipartForm.File["files"])
	if err != nil {
		s.log.Error("reading upload form", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not read uploaded files"})
		return
	}

	if len(files) > 0 {
		s.spawn(func(ctx context.Context) {
			_ = sess.ctrl.HandleUpload(ctx, files)
		})
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.open(w, r)
	question := r.FormValue("question")

	s.spawn(func(ctx context.Context) {
		_, _ = sess.ctrl.HandleAsk(ctx, question)
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.open(w, r)

	if err := sess.ctrl.Toggle(r.FormValue("filename")); err != nil {
		if errors.Is(err, chat.ErrUnknownDocument) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		http.Error(w, "no session", http.StatusUnauthorized)
		return
	}
	sess := s.sessions.get(c.Value)
	if sess == nil {
		http.Error(w, "session expired", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", zap.Error(err))
		return
	}

	detach := sess.hub.attach(conn)
	defer detach()

	// An open page keeps its session alive: every pong renews it.
	conn.SetPongHandler(func(string) error {
		if s.sessions.get(sess.id) == nil {
			return errSessionExpired
		}
		return nil
	})

	// The page never sends data; reading processes pongs and notices the
	// close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("websocket read", zap.Error(err))
			}
			return
		}
	}
}

// readParts copies every non-empty file part into memory. Browsers send
// one empty part when no file was chosen.
func readParts(headers []*multipart.FileHeader) ([]backend.File, error) {
	var files []backend.File
	for _, fh := range headers {
		if fh.Filename == "" && fh.Size == 0 {
			continue
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		var buf bytes.Buffer
		_, err = io.Copy(&buf, f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		files = append(files, backend.File{Name: fh.Filename, Content: &buf})
	}
	return files, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
