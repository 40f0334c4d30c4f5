package output

import "browser-task/internal/domain/entity"

// ArtifactStore persists failure diagnostics and returns the written path.
type ArtifactStore interface {
	SaveScreenshot(name string, shot *entity.Screenshot) (string, error)
	SaveSnapshot(name string, html string) (string, error)
}
