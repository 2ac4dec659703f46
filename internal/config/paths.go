package config

import (
	"fmt"
	"os"
)

// EnsureDirectories creates every configured directory that does not
// exist yet. Called once at startup.
func (p PathsConfig) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.ReportsDir, p.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
