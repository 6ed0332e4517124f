package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "notegraph/internal/platform/errors"
)

type Note struct {
	ID        string
	Title     string
	Slug      string
	Path      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (n Note) Validate() error {
	if strings.TrimSpace(n.ID) == "" {
		return fmt.Errorf("id is required: %w", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("title is required: %w", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(n.Slug) == "" {
		return fmt.Errorf("slug is required: %w", apperrors.ErrInvalidInput)
	}
	return nil
}

type Document struct {
	Note Note
	Body string
}

func (d Document) Words() int {
	return len(strings.Fields(d.Body))
}
