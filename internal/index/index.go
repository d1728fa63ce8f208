package index

// NoteIndex is the set of index operations the service layer depends on.
type NoteIndex interface {
	UpsertNote(n NoteRow, body string) error
	DeleteNote(slug string) error
	GetChecksum(slug string) (string, error)
	AllChecksums() (map[string]string, error)
	Search(query string, limit int) ([]SearchResult, error)
	Close() error
}

var _ NoteIndex = (*DB)(nil)
