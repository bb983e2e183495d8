package chat

import "github.com/ziadkadry99/docchat/internal/backend"

// Document is one row of the document list. Selected doubles as the row's
// checkbox state and its active highlight; the two never diverge.
type Document struct {
	Filename string `json:"filename"`
	Selected bool   `json:"selected"`
}

// State is the controller's session state. Values are treated as immutable:
// every transition returns a new State.
type State struct {
	documents []Document
}

// Documents returns a copy of the document list.
func (s State) Documents() []Document {
	out := make([]Document, len(s.documents))
	copy(out, s.documents)
	return out
}

// UploadedSet returns the filenames of every listed document, in order.
func (s State) UploadedSet() []string {
	names := make([]string, len(s.documents))
	for i, d := range s.documents {
		names[i] = d.Filename
	}
	return names
}

// Selected returns the filenames of the selected documents, in list order.
func (s State) Selected() []string {
	var names []string
	for _, d := range s.documents {
		if d.Selected {
			names = append(names, d.Filename)
		}
	}
	return names
}

// ApplyUpload replaces the document list with the processed entries of an
// upload response. Previous entries are discarded, not merged. Every new
// row starts selected.
func ApplyUpload(_ State, resp backend.UploadResponse) State {
	names := resp.ProcessedFilenames()
	docs := make([]Document, len(names))
	for i, name := range names {
		docs[i] = Document{Filename: name, Selected: true}
	}
	return State{documents: docs}
}

// Toggle flips the selection of the named document. The second result is
// false when no such document is listed.
func Toggle(s State, filename string) (State, bool) {
	docs := s.Documents()
	for i := range docs {
		if docs[i].Filename == filename {
			docs[i].Selected = !docs[i].Selected
			return State{documents: docs}, true
		}
	}
	return s, false
}

// SelectOnly selects exactly the named documents and clears the rest. It
// returns the names that matched no listed document.
func SelectOnly(s State, filenames []string) (State, []string) {
	want := make(map[string]bool, len(filenames))
	for _, name := range filenames {
		want[name] = true
	}

	matched := make(map[string]bool, len(filenames))
	docs := s.Documents()
	for i := range docs {
		docs[i].Selected = want[docs[i].Filename]
		if docs[i].Selected {
			matched[docs[i].Filename] = true
		}
	}

	var unknown []string
	for _, name := range filenames {
		if !matched[name] {
			unknown = append(unknown, name)
			matched[name] = true
		}
	}
	return State{documents: docs}, unknown
}

// ResolveSelection decides which documents a question is asked against.
// With nothing selected and a non-empty list it returns ok=false: the user
// must pick documents first. With nothing selected and an empty list it
// falls back to the whole (empty) uploaded set.
func ResolveSelection(s State) (documents []string, ok bool) {
	selected := s.Selected()
	if len(selected) > 0 {
		return selected, true
	}
	if len(s.documents) > 0 {
		return nil, false
	}
	return s.UploadedSet(), true
}
