package picker

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	pdflib "github.com/ledongthuc/pdf"
)

// Info describes a local file before it is uploaded. Pages is zero when the
// file is not a PDF or could not be parsed; the backend has the final say
// either way.
type Info struct {
	Path  string
	Name  string
	Size  int64
	Pages int
	Note  string
}

// Inspect stats path and, for PDFs, counts its pages.
func Inspect(path string) (Info, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("picker: stat %s: %w", path, err)
	}

	info := Info{Path: path, Name: filepath.Base(path), Size: st.Size()}
	if !isPDF(path) {
		info.Note = "not a PDF"
		return info, nil
	}

	pages, err := countPages(path)
	if err != nil {
		info.Note = "unreadable PDF"
		return info, nil
	}
	info.Pages = pages
	return info, nil
}

// countPages opens path with the pdf reader, which panics on some
// malformed inputs.
func countPages(path string) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return reader.NumPage(), nil
}

// String formats the info as a single listing line.
func (i Info) String() string {
	s := fmt.Sprintf("%s  %s", i.Name, humanize.IBytes(uint64(i.Size)))
	if i.Pages > 0 {
		unit := "pages"
		if i.Pages == 1 {
			unit = "page"
		}
		s += fmt.Sprintf("  %d %s", i.Pages, unit)
	}
	if i.Note != "" {
		s += "  (" + i.Note + ")"
	}
	return s
}
