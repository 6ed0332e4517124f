package domain

// NoteText is the note content the graph pipeline consumes.
type NoteText struct {
	ID    string
	Title string
	Path  string
	Text  string
}
