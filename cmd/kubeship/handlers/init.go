package handlers

import (
	"context"
	"log"

	"github.com/kubeship/kubeship/internal/config"
	"github.com/kubeship/kubeship/internal/config/wizard"
)

// Factory function variables for the init flow, replaced in tests.
var (
	runWizard       = wizard.Run
	writeConfigFile = wizard.WriteFile
)

// Init interactively creates a kubeship.yaml in the current directory.
func Init(ctx context.Context, force bool) error {
	cfg, err := runWizard(ctx)
	if err != nil {
		return err
	}

	if err := writeConfigFile(config.DefaultConfigFile, cfg, force); err != nil {
		return err
	}

	log.Printf("[init] wrote %s, run `kubeship deploy` to provision", config.DefaultConfigFile)
	return nil
}
