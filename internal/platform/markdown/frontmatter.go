package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const separator = "---\n"

// SplitFrontmatter separates a leading YAML block from the note body. Files
// saved with CRLF line endings are normalised first; a closing separator at
// end of file yields an empty body.
func SplitFrontmatter(content string) (map[string]any, string, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, separator) {
		return map[string]any{}, content, nil
	}
	rest := strings.TrimPrefix(content, separator)
	var raw, body string
	switch {
	case strings.HasPrefix(rest, separator):
		body = strings.TrimPrefix(rest, separator)
	case strings.HasSuffix(rest, "\n---"):
		raw = strings.TrimSuffix(rest, "\n---")
	default:
		idx := strings.Index(rest, "\n---\n")
		if idx < 0 {
			return nil, "", fmt.Errorf("invalid frontmatter: missing closing separator")
		}
		raw = rest[:idx]
		body = rest[idx+len("\n---\n"):]
	}

	decoded := map[string]any{}
	if err := yaml.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, "", fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	return decoded, strings.TrimPrefix(body, "\n"), nil
}

func RenderFrontmatter(meta map[string]any, body string) (string, error) {
	raw, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	buf := bytes.Buffer{}
	buf.WriteString(separator)
	buf.Write(raw)
	buf.WriteString(separator)
	buf.WriteString("\n")
	buf.WriteString(strings.TrimPrefix(body, "\n"))
	return buf.String(), nil
}
