package definition

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontMatterDelim = "---"

// parse splits a resource into front matter and named sections. Section
// names are the lower-cased heading text with spaces replaced by
// underscores ("Expected Output" -> "expected_output").
func parse(data []byte) (*document, error) {
	body := string(bytes.TrimPrefix(data, []byte("\ufeff")))
	doc := &document{sections: map[string]string{}}

	if fm, rest, ok := splitFrontMatter(body); ok {
		if err := yaml.Unmarshal([]byte(fm), &doc.meta); err != nil {
			return nil, fmt.Errorf("front matter: %w", err)
		}
		body = rest
	}

	var (
		current string
		buf     strings.Builder
	)

	flush := func() {
		if current != "" {
			doc.sections[current] = strings.TrimSpace(buf.String())
		}
		buf.Reset()
	}

	sc := bufio.NewScanner(strings.NewReader(body))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		line := sc.Text()
		if heading, ok := strings.CutPrefix(line, "## "); ok {
			flush()
			current = sectionKey(heading)
			continue
		}
		if current != "" {
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}

	flush()

	return doc, nil
}

func splitFrontMatter(body string) (string, string, bool) {
	if !strings.HasPrefix(body, frontMatterDelim+"\n") && !strings.HasPrefix(body, frontMatterDelim+"\r\n") {
		return "", body, false
	}

	rest := body[strings.Index(body, "\n")+1:]

	for offset := 0; offset < len(rest); {
		end := strings.Index(rest[offset:], "\n")
		line := rest[offset:]
		if end >= 0 {
			line = rest[offset : offset+end]
		}

		if strings.TrimRight(line, "\r") == frontMatterDelim {
			after := ""
			if end >= 0 {
				after = rest[offset+end+1:]
			}
			return rest[:offset], after, true
		}

		if end < 0 {
			break
		}
		offset += end + 1
	}

	return "", body, false
}

func sectionKey(heading string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(heading)), " ", "_")
}
