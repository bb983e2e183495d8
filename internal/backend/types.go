package backend

import "io"

// StatusProcessed is the per-file status the backend reports once a
// document can be queried.
const StatusProcessed = "processed"

// File is one document handed to Upload.
type File struct {
	Name    string
	Content io.Reader
}

// FileResult is one entry of the upload response's files array.
type FileResult struct {
	Filename string `json:"filename"`
	Status   string `json:"status,omitempty"`
	Error    string `json:"error,omitempty"`
	DocID    int    `json:"doc_id,omitempty"`
}

// Processed reports whether the backend finished this file.
func (f FileResult) Processed() bool {
	return f.Status == StatusProcessed
}

// UploadResponse is the body returned by the upload endpoint.
type UploadResponse struct {
	Files []FileResult `json:"files"`
}

// ProcessedFilenames returns the filenames with status "processed", in
// response order.
func (r UploadResponse) ProcessedFilenames() []string {
	names := make([]string, 0, len(r.Files))
	for _, f := range r.Files {
		if f.Processed() {
			names = append(names, f.Filename)
		}
	}
	return names
}

// AskRequest is the JSON body sent to the ask endpoint.
type AskRequest struct {
	Question  string   `json:"question"`
	Documents []string `json:"documents"`
}

// AskResponse is the body returned by the ask endpoint.
type AskResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources,omitempty"`
}
