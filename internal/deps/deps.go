package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names an external program the pipeline shells out to.
type Requirement struct {
	Name        string
	Command     string
	Description string
	// Optional tools only narrow the accepted inputs when missing.
	Optional bool
}

// Status is the lookup outcome for one Requirement.
type Status struct {
	Requirement
	Path      string
	Available bool
	Detail    string
}

// Check resolves req on PATH. Command may also be an absolute path.
func Check(req Requirement) Status {
	req.Command = strings.TrimSpace(req.Command)
	req.Description = strings.TrimSpace(req.Description)
	status := Status{Requirement: req}
	if req.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	path, err := exec.LookPath(req.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", req.Command)
		return status
	}
	status.Path = path
	status.Available = true
	return status
}

// CheckBinaries runs Check over every requirement in order.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, len(requirements))
	for i, req := range requirements {
		results[i] = Check(req)
	}
	return results
}

// MissingRequired filters statuses down to unavailable, non-optional tools.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s)
		}
	}
	return missing
}
