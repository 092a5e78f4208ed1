package supervisor

import "strings"

// wellKnownPrefixes are the text-mode output lines echoed to the console
// even outside debug mode — enough signal to follow progress without the
// noise of every line an agent prints.
var wellKnownPrefixes = []string{
	"Using", "Tool", "Reading", "Writing", "Editing", "✓", "✗", "Error", "Warning",
}

// shouldEchoLine reports whether a text-mode line is worth echoing to the
// console: it starts with a well-known prefix, or mentions SUCCESS/FAILED.
func shouldEchoLine(line string) bool {
	for _, p := range wellKnownPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return strings.Contains(line, "SUCCESS") || strings.Contains(line, "FAILED")
}
