package promptctx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const maxDocSize = 32 * 1024

// ResolveDocs renders the "Referenced Documentation" section for a task's
// doc list. Each entry is either a bare file path (whole file) or
// "file.md#Section" (the named heading and every line under it until a
// sibling or higher-level heading). A missing file or missing section
// never errors — it renders a placeholder marker instead.
func ResolveDocs(projectRoot string, refs []string) string {
	if len(refs) == 0 {
		return ""
	}

	var buf strings.Builder
	for _, ref := range refs {
		path, heading, hasHeading := strings.Cut(ref, "#")
		full := filepath.Join(projectRoot, path)

		data, err := os.ReadFile(full)
		if err != nil {
			fmt.Fprintf(&buf, "\n### %s\n\n(file not found: %s)\n", ref, path)
			continue
		}
		content := string(data)
		if len(content) > maxDocSize {
			content = content[:maxDocSize] + "\n... (truncated)"
		}

		if !hasHeading {
			fmt.Fprintf(&buf, "\n### %s\n\n%s\n", path, content)
			continue
		}

		section, ok := extractSection(content, heading)
		if !ok {
			fmt.Fprintf(&buf, "\n### %s\n\n(section not found: %s)\n", ref, heading)
			continue
		}
		fmt.Fprintf(&buf, "\n### %s\n\n%s\n", ref, section)
	}
	return buf.String()
}

// extractSection returns the body of a markdown heading, including every
// subordinate line up to (but not including) the next heading of equal or
// higher level.
func extractSection(content, heading string) (string, bool) {
	lines := strings.Split(content, "\n")
	startIdx := -1
	startLevel := 0

	for i, line := range lines {
		level, title := parseHeading(line)
		if level == 0 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(title), strings.TrimSpace(heading)) {
			startIdx = i
			startLevel = level
			break
		}
	}
	if startIdx == -1 {
		return "", false
	}

	var out []string
	for i := startIdx + 1; i < len(lines); i++ {
		level, _ := parseHeading(lines[i])
		if level > 0 && level <= startLevel {
			break
		}
		out = append(out, lines[i])
	}
	return strings.TrimSpace(strings.Join(out, "\n")), true
}

// parseHeading returns the markdown heading level (number of leading '#')
// and title text, or (0, "") if the line is not a heading.
func parseHeading(line string) (int, string) {
	trimmed := strings.TrimLeft(line, " ")
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level == 0 || level >= len(trimmed) || trimmed[level] != ' ' {
		return 0, ""
	}
	return level, strings.TrimSpace(trimmed[level:])
}
