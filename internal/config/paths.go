package config

import (
	"os"

	"github.com/nibzard/starter/internal/utils"
)

// expandPath expands environment variables and a leading "~" in p.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	home, err := os.UserHomeDir()
	if err != nil {
		return expanded
	}
	return utils.ExpandHome(expanded, home)
}
