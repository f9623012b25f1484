package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	okStyle      = lipgloss.NewStyle().Foreground(colorGreen)
	badStyle     = lipgloss.NewStyle().Foreground(colorRed)
)

// Renderer turns reports into terminal output. Styling is disabled when
// stdout is not a terminal.
type Renderer struct {
	styled bool
}

// NewRenderer returns a Renderer with styling enabled iff stdout is a
// terminal.
func NewRenderer() *Renderer {
	return &Renderer{styled: isTerminal()}
}

// NewPlainRenderer returns a Renderer that never emits styling.
func NewPlainRenderer() *Renderer {
	return &Renderer{styled: false}
}

func isTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.styled {
		return text
	}
	return s.Render(text)
}

// RenderAccess formats the access report.
func (r *Renderer) RenderAccess(access *Access) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(r.style(titleStyle, fmt.Sprintf("  Access (%s)", access.Context)))
	b.WriteString("\n")
	b.WriteString(r.style(dimStyle, "  "+strings.Repeat("═", 30)))
	b.WriteString("\n")

	if access.LoadBalancerIP != "" {
		b.WriteString(fmt.Sprintf("    LoadBalancer IP: %s\n", r.style(okStyle, access.LoadBalancerIP)))
	} else if !access.TunnelHint {
		b.WriteString(r.style(dimStyle, "    No LoadBalancer IP assigned, using NodePort"))
		b.WriteString("\n")
	}

	for _, ep := range access.Endpoints {
		b.WriteString(fmt.Sprintf("    %-8s %s\n", ep.App, ep.URL))
	}

	if access.TunnelHint {
		b.WriteString("\n")
		b.WriteString(r.style(dimStyle, "  Run `minikube tunnel` in a separate terminal for LoadBalancer access."))
		b.WriteString("\n")
	}

	return b.String()
}

// RenderStatus formats the cluster status snapshot.
func (r *Renderer) RenderStatus(status *Status) string {
	var b strings.Builder

	for _, ns := range status.Namespaces {
		b.WriteString("\n")
		b.WriteString(r.style(sectionStyle, fmt.Sprintf("  Namespace %s", ns.Name)))
		b.WriteString("\n")
		b.WriteString(r.style(dimStyle, "  "+strings.Repeat("─", 35)))
		b.WriteString("\n")

		if ns.Missing {
			b.WriteString(r.style(dimStyle, "    not present"))
			b.WriteString("\n")
			continue
		}

		for _, d := range ns.Deployments {
			ready := fmt.Sprintf("%d/%d", d.Ready, d.Desired)
			style := okStyle
			if d.Ready < d.Desired {
				style = badStyle
			}
			b.WriteString(fmt.Sprintf("    deploy  %-30s %s\n", d.Name, r.style(style, ready)))
		}
		for _, s := range ns.Services {
			external := s.ExternalIP
			if external == "" {
				external = "-"
			}
			b.WriteString(fmt.Sprintf("    svc     %-30s %-12s %-15s %s\n", s.Name, s.Type, s.ClusterIP, external))
		}
		for _, p := range ns.Pods {
			style := okStyle
			if p.Phase != "Running" && p.Phase != "Succeeded" {
				style = badStyle
			}
			b.WriteString(fmt.Sprintf("    pod     %-40s %-10s restarts=%d\n", p.Name, r.style(style, p.Phase), p.Restarts))
		}
	}

	return b.String()
}
