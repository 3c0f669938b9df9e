// Package bootstrap prepares the on-disk layout before the server starts.
package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"

	"sonicpdf/internal/applog"
	"sonicpdf/internal/config"
)

// EnsureDirs creates the upload, music and effects roots if missing and checks that the
// frontend build has an index document. A missing index is logged, not fatal: API routes
// keep working without a frontend build.
func EnsureDirs(p config.PathsConfig, log *applog.Logger) error {
	for _, dir := range []string{p.UploadDir, p.MusicDir, p.EffectsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	index := filepath.Join(p.FrontendDir, "index.html")
	if fi, err := os.Stat(index); err != nil || fi.IsDir() {
		log.Warn("frontend_index_missing", map[string]any{
			"component": "bootstrap",
			"path":      index,
		})
	}
	log.Info("directories_ready", map[string]any{
		"component":    "bootstrap",
		"upload_dir":   p.UploadDir,
		"music_dir":    p.MusicDir,
		"effects_dir":  p.EffectsDir,
		"frontend_dir": p.FrontendDir,
	})
	return nil
}
