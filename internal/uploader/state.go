package uploader

import "github.com/filedrop/service/internal/files"

// Progress markers reported while a file moves through the pipeline.
const (
	ProgressStarted  = 10
	ProgressTargeted = 30
	ProgressDone     = 100
)

// Uploaded is a file whose bytes reached storage. Record is nil when the
// metadata call failed.
type Uploaded struct {
	FileID    string
	Name      string
	Path      string
	PublicURL string
	Record    *files.FileRecord
}

// State is an immutable snapshot of the client: the selection, per-file
// progress and the uploaded list. Every method returns a new State and
// leaves the receiver untouched; entries are keyed by SelectedFile.ID.
type State struct {
	selection []SelectedFile
	progress  map[string]int
	uploaded  []Uploaded
}

// NewState returns a State with files selected.
func NewState(selected ...SelectedFile) State {
	return State{}.Select(selected...)
}

// Select appends files to the selection.
func (s State) Select(selected ...SelectedFile) State {
	next := s.clone()
	next.selection = append(next.selection, selected...)
	return next
}

// Remove drops the file with id from the selection and the progress map.
func (s State) Remove(id string) State {
	next := s.clone()
	next.selection = next.selection[:0]
	for _, f := range s.selection {
		if f.ID != id {
			next.selection = append(next.selection, f)
		}
	}
	delete(next.progress, id)
	return next
}

// WithProgress sets the progress of the file with id.
func (s State) WithProgress(id string, pct int) State {
	next := s.clone()
	next.progress[id] = pct
	return next
}

// WithUploaded appends u to the uploaded list.
func (s State) WithUploaded(u Uploaded) State {
	next := s.clone()
	next.uploaded = append(next.uploaded, u)
	return next
}

// Selection returns a copy of the selected files.
func (s State) Selection() []SelectedFile {
	return append([]SelectedFile(nil), s.selection...)
}

// Progress returns the progress of the file with id, 0 if unknown.
func (s State) Progress(id string) int {
	return s.progress[id]
}

// Uploaded returns a copy of the uploaded list.
func (s State) Uploaded() []Uploaded {
	return append([]Uploaded(nil), s.uploaded...)
}

func (s State) clone() State {
	next := State{
		selection: append([]SelectedFile(nil), s.selection...),
		progress:  make(map[string]int, len(s.progress)),
		uploaded:  append([]Uploaded(nil), s.uploaded...),
	}
	for k, v := range s.progress {
		next.progress[k] = v
	}
	return next
}
