package domain

import (
	"regexp"
	"strings"
)

var (
	urlPattern   = regexp.MustCompile(`(?i)(?:https?://|www\.)\S+`)
	emojiPattern = regexp.MustCompile(`[\x{1F000}-\x{1FAFF}\x{2600}-\x{27BF}\x{2B00}-\x{2BFF}\x{FE00}-\x{FE0F}\x{200D}\x{20E3}]`)

	punctuation = strings.NewReplacer(
		".", "", ",", "", ";", "", ":", "", "!", "", "?", "", "¡", "", "¿", "",
		`"`, "", "'", "", "`", "", "(", "", ")", "", "[", "", "]", "", "{", "", "}", "",
		"<", "", ">", "", "«", "", "»", "", "“", "", "”", "", "‘", "", "’", "",
		"…", "", "–", "", "—", "", "-", "", "_", "", "/", "", `\`, "", "|", "",
		"*", "", "#", "", "@", "", "$", "", "%", "", "^", "", "&", "", "+", "",
		"=", "", "~", "",
	)
)

// TextPreprocessor turns raw note text into the ordered token sequence the
// graph builder windows over.
type TextPreprocessor interface {
	Process(raw string) []string
}

type Preprocessor struct {
	normalizer Normalizer
}

func NewPreprocessor(normalizer Normalizer) *Preprocessor {
	if normalizer == nil {
		normalizer = SuffixNormalizer{}
	}
	return &Preprocessor{normalizer: normalizer}
}

func (p *Preprocessor) Process(raw string) []string {
	text := urlPattern.ReplaceAllString(raw, " ")
	text = emojiPattern.ReplaceAllString(text, "")
	text = punctuation.Replace(text)
	text = strings.ToLower(text)

	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		if IsStopword(field) {
			continue
		}
		token := p.normalizer.Normalize(field)
		if token == "" {
			continue
		}
		out = append(out, token)
	}
	return out
}
