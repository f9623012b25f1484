// Package apps renders the application manifests and reconciles them
// against the cluster.
//
// Manifests are embedded templates so the binary carries everything it
// deploys. Reconciliation is delete-then-recreate: re-running against
// the same cluster leaves exactly one Deployment per application.
package apps

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/kubeship/kubeship/internal/config"
)

//go:embed templates/*.yaml.tmpl
var templatesFS embed.FS

type appData struct {
	Namespace string
	App       config.App
}

type ingressData struct {
	Namespace string
	Host      string
	Apps      []config.App
}

// Render produces the multi-document YAML for every application's
// Deployment and Service plus the shared Ingress.
func Render(cfg *config.Config) ([]byte, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.yaml.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest templates: %w", err)
	}

	var combined bytes.Buffer
	for _, app := range cfg.Apps {
		if err := executeInto(&combined, tmpl, "app.yaml.tmpl", appData{
			Namespace: cfg.Namespace,
			App:       app,
		}); err != nil {
			return nil, fmt.Errorf("failed to render manifests for %s: %w", app.Name, err)
		}
	}

	if err := executeInto(&combined, tmpl, "ingress.yaml.tmpl", ingressData{
		Namespace: cfg.Namespace,
		Host:      cfg.Ingress.Host,
		Apps:      cfg.Apps,
	}); err != nil {
		return nil, fmt.Errorf("failed to render ingress manifest: %w", err)
	}

	return combined.Bytes(), nil
}

func executeInto(buf *bytes.Buffer, tmpl *template.Template, name string, data any) error {
	if buf.Len() > 0 {
		buf.WriteString("---\n")
	}
	return tmpl.ExecuteTemplate(buf, name, data)
}
