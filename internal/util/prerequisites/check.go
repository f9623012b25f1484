// Package prerequisites checks that the client tools kubeship shells out
// to are present on PATH before any cluster work starts.
package prerequisites

import (
	"fmt"
	"os/exec"
	"strings"
)

// Tool is a client binary kubeship may invoke.
type Tool struct {
	// Name is the binary name looked up in PATH.
	Name string

	// Required indicates the tool is mandatory for the selected flow.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// InstallURL points at installation instructions.
	InstallURL string
}

// BuildTools returns the tools needed to build application images.
func BuildTools() []Tool {
	return []Tool{
		{
			Name:        "docker",
			Required:    true,
			Description: "Required for building application container images",
			InstallURL:  "https://docs.docker.com/get-docker/",
		},
	}
}

// MinikubeTools returns the additional tools needed when the active
// context is minikube (addon enable, image load).
func MinikubeTools() []Tool {
	return []Tool{
		{
			Name:        "minikube",
			Required:    true,
			Description: "Required for enabling the ingress addon and loading images",
			InstallURL:  "https://minikube.sigs.k8s.io/docs/start/",
		},
	}
}

// Result holds the outcome for one tool.
type Result struct {
	Tool  Tool
	Found bool
	Path  string
}

// Results aggregates the outcomes for a tool set.
type Results struct {
	Results []Result
	Missing []Tool
}

// Err returns an error naming the missing required tools, or nil.
func (r *Results) Err() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.InstallURL))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// lookPath is a factory variable replaced in tests.
var lookPath = exec.LookPath

// Check looks up each tool in PATH.
func Check(tools []Tool) *Results {
	results := &Results{}

	for _, tool := range tools {
		result := Result{Tool: tool}

		if path, err := lookPath(tool.Name); err == nil {
			result.Found = true
			result.Path = path
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}

// CheckFor checks the tools needed for a deployment against the given
// context: docker always, plus minikube when the context is minikube.
func CheckFor(minikube bool) *Results {
	tools := BuildTools()
	if minikube {
		tools = append(tools, MinikubeTools()...)
	}
	return Check(tools)
}
