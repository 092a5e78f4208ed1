package promptctx

import (
	"os"
	"path/filepath"
	"strings"
)

// Def is a loaded agent definition: the model it runs under, the tool
// allowlist it declares, and the system prompt that seeds every invocation.
type Def struct {
	Model        string
	Tools        []string
	SystemPrompt string
}

// LoadAgentDef reads an agent's definition file, preferring a project-local
// override at <projectRoot>/.claude/agents/<name>.agent.md over the
// user-global <home>/.claude/agents/<name>.agent.md. The file format is a
// front-matter block delimited by "---" lines containing at minimum
// "model:" and "tools:" (comma-separated); everything after the closing
// "---" is the system prompt.
//
// AUTOFLOW_MODEL, if set, overrides whatever model the front matter names.
func LoadAgentDef(projectRoot, name string) (*Def, error) {
	candidates := agentDefPaths(projectRoot, name)

	var data []byte
	var foundPath string
	for _, path := range candidates {
		b, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		data = b
		foundPath = path
		break
	}
	if data == nil {
		return nil, &AgentFileNotFound{Name: name, Tried: candidates}
	}

	def, err := parseAgentDef(foundPath, string(data))
	if err != nil {
		return nil, err
	}
	if override := os.Getenv("AUTOFLOW_MODEL"); override != "" {
		def.Model = override
	}
	return def, nil
}

func agentDefPaths(projectRoot, name string) []string {
	fileName := name + ".agent.md"
	var paths []string
	if projectRoot != "" {
		paths = append(paths, filepath.Join(projectRoot, ".claude", "agents", fileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".claude", "agents", fileName))
	}
	return paths
}

func parseAgentDef(path, content string) (*Def, error) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return nil, &AgentFormatInvalid{Path: path, Reason: "missing opening front-matter delimiter"}
	}

	def := &Def{}
	closed := false
	bodyStart := len(lines)
	for i := 1; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "---" {
			closed = true
			bodyStart = i + 1
			break
		}
		switch {
		case strings.HasPrefix(trimmed, "model:"):
			def.Model = strings.TrimSpace(strings.TrimPrefix(trimmed, "model:"))
		case strings.HasPrefix(trimmed, "tools:"):
			raw := strings.TrimSpace(strings.TrimPrefix(trimmed, "tools:"))
			if raw != "" {
				for _, t := range strings.Split(raw, ",") {
					if t = strings.TrimSpace(t); t != "" {
						def.Tools = append(def.Tools, t)
					}
				}
			}
		}
	}
	if !closed {
		return nil, &AgentFormatInvalid{Path: path, Reason: "missing closing front-matter delimiter"}
	}
	if def.Model == "" {
		return nil, &AgentFormatInvalid{Path: path, Reason: "front matter missing model:"}
	}
	if len(def.Tools) == 0 {
		return nil, &AgentFormatInvalid{Path: path, Reason: "front matter missing tools:"}
	}

	def.SystemPrompt = strings.TrimSpace(strings.Join(lines[bodyStart:], "\n"))
	return def, nil
}

// FinalPrompt assembles the prompt actually sent to the agent binary's
// stdin: the system prompt, followed by a "# Context" section containing
// the assembled context body.
func FinalPrompt(def *Def, contextBody string) string {
	return def.SystemPrompt + "\n\n# Context\n\n" + contextBody
}
