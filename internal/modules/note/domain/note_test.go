package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"notegraph/internal/modules/note/domain"
	apperrors "notegraph/internal/platform/errors"
)

func TestNoteValidate(t *testing.T) {
	t.Parallel()
	valid := domain.Note{ID: "n1", Title: "Cocina", Slug: "cocina"}
	assert.NoError(t, valid.Validate())

	for name, note := range map[string]domain.Note{
		"id":    {Title: "x", Slug: "x"},
		"title": {ID: "n1", Title: " ", Slug: "x"},
		"slug":  {ID: "n1", Title: "x"},
	} {
		assert.ErrorIs(t, note.Validate(), apperrors.ErrInvalidInput, name)
	}
}

func TestDocumentWords(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 4, domain.Document{Body: "harina  horno\npan\tsal"}.Words())
	assert.Zero(t, domain.Document{}.Words())
}
