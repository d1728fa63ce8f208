// Package parser reads the metadata a note carries in its own content.
package parser

import (
	"bytes"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var tagRe = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_/-]*)`)

const delim = "---"

// Result holds the output of parsing a note.
type Result struct {
	Frontmatter map[string]any
	Title       string
	Description string
	Tags        []string
	Body        string
}

// Parse splits YAML frontmatter from the body and derives title,
// description and tags. Malformed frontmatter is treated as body text.
func Parse(data []byte) *Result {
	fm, body := splitFrontmatter(data)
	return &Result{
		Frontmatter: fm,
		Title:       deriveTitle(fm, body),
		Description: stringField(fm, "description"),
		Tags:        extractTags(body, fm),
		Body:        body,
	}
}

func splitFrontmatter(data []byte) (map[string]any, string) {
	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data)
	}
	rest := trimmed[len(delim):]
	end := bytes.Index(rest, []byte("\n"+delim))
	if end < 0 {
		return nil, string(data)
	}

	var fm map[string]any
	if err := yaml.Unmarshal(rest[:end], &fm); err != nil {
		return nil, string(data)
	}
	body := strings.TrimLeft(string(rest[end+1+len(delim):]), "\n\r")
	return fm, body
}

func stringField(fm map[string]any, key string) string {
	if s, ok := fm[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// extractTags returns frontmatter tags followed by inline #tags, first
// occurrence wins.
func extractTags(body string, fm map[string]any) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	switch v := fm["tags"].(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				add(s)
			}
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			add(s)
		}
	}
	for _, m := range tagRe.FindAllStringSubmatch(body, -1) {
		add(m[1])
	}
	return out
}

// deriveTitle prefers the frontmatter title, then the first H1 heading.
func deriveTitle(fm map[string]any, body string) string {
	if s := stringField(fm, "title"); s != "" {
		return s
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

// Skeleton renders the initial content of a new note.
func Skeleton(title, description string, tags []string) []byte {
	fm := map[string]any{"title": title}
	if description != "" {
		fm["description"] = description
	}
	if len(tags) > 0 {
		fm["tags"] = tags
	}
	head, err := yaml.Marshal(fm)
	if err != nil {
		head = []byte("title: " + title + "\n")
	}
	var b bytes.Buffer
	b.WriteString(delim + "\n")
	b.Write(head)
	b.WriteString(delim + "\n\n# " + title + "\n")
	return b.Bytes()
}
