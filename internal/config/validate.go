package config

import (
	"fmt"
	"net"
	"regexp"
	"strings"
)

// nameRegex validates app names: DNS-1123 labels, max 63 characters.
var nameRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Namespace == "" {
		return fmt.Errorf("namespace must not be empty")
	}
	if len(c.Apps) == 0 {
		return fmt.Errorf("at least one app must be configured")
	}

	seenNames := make(map[string]bool)
	seenPaths := make(map[string]bool)
	for _, app := range c.Apps {
		if err := app.validate(); err != nil {
			return fmt.Errorf("app %q: %w", app.Name, err)
		}
		if seenNames[app.Name] {
			return fmt.Errorf("duplicate app name %q", app.Name)
		}
		if seenPaths[app.Path] {
			return fmt.Errorf("duplicate ingress path %q", app.Path)
		}
		seenNames[app.Name] = true
		seenPaths[app.Path] = true
	}

	if c.MetalLB.AddressRange != "" {
		if err := validateAddressRange(c.MetalLB.AddressRange); err != nil {
			return fmt.Errorf("metallb.addressRange: %w", err)
		}
	}

	return nil
}

func (a App) validate() error {
	if !nameRegex.MatchString(a.Name) {
		return fmt.Errorf("name must be a lowercase DNS label")
	}
	if a.Image == "" {
		return fmt.Errorf("image must not be empty")
	}
	if a.Port < 1 || a.Port > 65535 {
		return fmt.Errorf("port %d out of range", a.Port)
	}
	if a.Replicas < 1 {
		return fmt.Errorf("replicas must be at least 1")
	}
	if !strings.HasPrefix(a.Path, "/") {
		return fmt.Errorf("path %q must start with /", a.Path)
	}
	return nil
}

// validateAddressRange checks a "first-last" IP range.
func validateAddressRange(r string) error {
	first, last, ok := strings.Cut(r, "-")
	if !ok {
		return fmt.Errorf("expected \"first-last\", got %q", r)
	}
	for _, s := range []string{first, last} {
		if net.ParseIP(strings.TrimSpace(s)) == nil {
			return fmt.Errorf("invalid IP address %q", s)
		}
	}
	return nil
}
