package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"browser-task/internal/application/port/output"
	"browser-task/internal/domain/entity"
	"browser-task/internal/infrastructure/snapshot"
)

var _ output.ArtifactStore = (*Store)(nil)

const maxNameLen = 120

// Store writes diagnostics into one directory. Names never overwrite an
// existing file: a numeric suffix is added on collision.
type Store struct {
	dir   string
	clean *snapshot.CleanConfig
	now   func() time.Time
}

func NewStore(dir string) *Store {
	return &Store{
		dir:   dir,
		clean: &snapshot.DefaultCleanConfig,
		now:   time.Now,
	}
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) SaveScreenshot(name string, shot *entity.Screenshot) (string, error) {
	if shot == nil || len(shot.Data) == 0 {
		return "", errors.New("empty screenshot")
	}
	base := fmt.Sprintf("screenshot_%s_%d", Sanitize(name), s.now().Unix())
	return s.write(base, extension(shot.Format), shot.Data)
}

func (s *Store) SaveSnapshot(name string, html string) (string, error) {
	cleaned, err := snapshot.Clean(html, s.clean)
	if err != nil {
		return "", fmt.Errorf("clean snapshot: %w", err)
	}
	base := fmt.Sprintf("snapshot_%s_%d", Sanitize(name), s.now().Unix())
	return s.write(base, "html", []byte(cleaned))
}

func (s *Store) write(base, ext string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}

	for i := 0; ; i++ {
		filename := base + "." + ext
		if i > 0 {
			filename = fmt.Sprintf("%s_%d.%s", base, i, ext)
		}
		path := filepath.Join(s.dir, filename)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create %s: %w", path, err)
		}

		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", fmt.Errorf("write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close %s: %w", path, err)
		}
		return path, nil
	}
}

// Sanitize maps name to [A-Za-z0-9_.-] and caps it at 120 bytes.
func Sanitize(name string) string {
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, name)
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	return name
}

func extension(format string) string {
	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		return "jpg"
	case "":
		return "png"
	default:
		return strings.ToLower(format)
	}
}
