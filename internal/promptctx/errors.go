package promptctx

import "fmt"

// AgentFileNotFound is returned when neither the project-local nor home
// agent definition file exists for the given name.
type AgentFileNotFound struct {
	Name string
	Tried []string
}

func (e *AgentFileNotFound) Error() string {
	return fmt.Sprintf("promptctx: agent definition %q not found (tried %v)", e.Name, e.Tried)
}

// AgentFormatInvalid is returned when an agent definition file exists but
// its front-matter block is missing or malformed.
type AgentFormatInvalid struct {
	Path   string
	Reason string
}

func (e *AgentFormatInvalid) Error() string {
	return fmt.Sprintf("promptctx: agent definition %s has invalid format: %s", e.Path, e.Reason)
}
