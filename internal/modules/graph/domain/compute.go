package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrSuperseded     = errors.New("computation superseded")
	ErrComputeTimeout = errors.New("computation timed out")
	ErrComputeFailed  = errors.New("computation failed")
	ErrHostClosed     = errors.New("compute host closed")
)

type ComputeRequest struct {
	NoteID string
	Text   string
	Seq    uint64
	// Window overrides the runner's co-occurrence window when positive.
	Window int
}

// NewComputeRequest copies text so the envelope owns its payload.
func NewComputeRequest(noteID, text string, seq uint64) ComputeRequest {
	return ComputeRequest{NoteID: noteID, Text: strings.Clone(text), Seq: seq}
}

type ComputeResponse struct {
	NoteID  string
	Seq     uint64
	Record  VisualizationRecord
	Err     error
	Elapsed time.Duration
}
