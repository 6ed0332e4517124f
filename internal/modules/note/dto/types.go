package dto

import "time"

type AddNoteInput struct {
	Title string
	Body  string
}

type NoteOutput struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Path      string    `json:"path"`
	Words     int       `json:"words"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NoteDetailOutput struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Path      string    `json:"path"`
	Words     int       `json:"words"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Body      string    `json:"body"`
}
