package domain

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Normalizer maps a surface token to the form used as a graph node label.
// An empty result drops the token.
type Normalizer interface {
	Normalize(token string) string
}

type NormalizerFunc func(token string) string

func (f NormalizerFunc) Normalize(token string) string { return f(token) }

const minStemRunes = 3

var (
	derivationalSuffixes = byLengthDesc(
		"amiento", "imiento", "ization", "fulness",
		"ación", "ición", "mente", "encia", "anza", "idad", "ismo", "ista", "dora", "able", "ible",
		"ness", "ment", "tion", "sion", "less",
		"dor", "oso", "osa", "ful", "ous", "ive", "ist", "ism", "ity",
	)
	inflectionalSuffixes = byLengthDesc(
		"iendo", "ando", "ado", "ido", "ada", "ida", "ing",
		"ed", "ar", "er", "ir",
	)
)

// SuffixNormalizer strips one derivational suffix, then one inflectional
// suffix, then a plural ending. A strip is skipped when it would leave fewer
// than three runes.
type SuffixNormalizer struct{}

func (SuffixNormalizer) Normalize(token string) string {
	token = stripFirst(token, derivationalSuffixes)
	token = stripFirst(token, inflectionalSuffixes)
	return stripPlural(token)
}

func stripFirst(word string, suffixes []string) string {
	for _, suffix := range suffixes {
		if stripped, ok := trimStem(word, suffix); ok {
			return stripped
		}
	}
	return word
}

func stripPlural(word string) string {
	if stripped, ok := trimStem(word, "es"); ok {
		return stripped
	}
	if strings.HasSuffix(word, "ss") {
		return word
	}
	if stripped, ok := trimStem(word, "s"); ok {
		return stripped
	}
	return word
}

func trimStem(word, suffix string) (string, bool) {
	if !strings.HasSuffix(word, suffix) {
		return word, false
	}
	stem := strings.TrimSuffix(word, suffix)
	if utf8.RuneCountInString(stem) < minStemRunes {
		return word, false
	}
	return stem, true
}

func byLengthDesc(suffixes ...string) []string {
	out := append([]string(nil), suffixes...)
	sort.SliceStable(out, func(i, j int) bool {
		return utf8.RuneCountInString(out[i]) > utf8.RuneCountInString(out[j])
	})
	return out
}
