package domain

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"

	apperrors "notegraph/internal/platform/errors"
)

type FingerprintMode string

const (
	FingerprintFull FingerprintMode = "full"
	FingerprintWeak FingerprintMode = "weak"
)

func ParseFingerprintMode(raw string) (FingerprintMode, error) {
	switch FingerprintMode(raw) {
	case "", FingerprintFull:
		return FingerprintFull, nil
	case FingerprintWeak:
		return FingerprintWeak, nil
	default:
		return "", fmt.Errorf("parse fingerprint mode %q: %w", raw, apperrors.ErrInvalidInput)
	}
}

// Fingerprint identifies note content. Weak mode compares only the rune
// length and the first rune; full mode also compares a hash of the text.
type Fingerprint struct {
	Length int
	First  rune
	Sum    uint64
}

func NewFingerprint(text string) Fingerprint {
	first, _ := utf8.DecodeRuneInString(text)
	if text == "" {
		first = 0
	}
	return Fingerprint{
		Length: utf8.RuneCountInString(text),
		First:  first,
		Sum:    xxhash.Sum64String(text),
	}
}

func (f Fingerprint) Matches(other Fingerprint, mode FingerprintMode) bool {
	if f.Length != other.Length || f.First != other.First {
		return false
	}
	return mode == FingerprintWeak || f.Sum == other.Sum
}

// Key renders the parts of f compared under mode.
func (f Fingerprint) Key(mode FingerprintMode) string {
	key := strconv.Itoa(f.Length) + ":" + strconv.FormatInt(int64(f.First), 10)
	if mode == FingerprintWeak {
		return key
	}
	return key + ":" + strconv.FormatUint(f.Sum, 16)
}
