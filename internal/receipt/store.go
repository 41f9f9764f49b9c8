package receipt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Store persists generated receipt documents and serves them back for
// download and email attachment.
type Store interface {
	// Save writes the document under the given filename and returns its
	// absolute path.
	Save(ctx context.Context, filename string, data []byte) (string, error)

	// Path resolves a previously saved filename to an absolute path.
	// Filenames that escape the receipts directory are rejected.
	Path(filename string) (string, error)
}

// fileStore implements Store on the local filesystem, mirroring each saved
// document to an optional archiver.
type fileStore struct {
	dir      string
	archiver Archiver // nil when archiving is disabled
	logger   zerolog.Logger
}

// NewFileStore creates a Store rooted at dir. The directory is created if
// it does not exist. archiver may be nil.
func NewFileStore(dir string, archiver Archiver, logger zerolog.Logger) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create receipts directory: %w", err)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve receipts directory: %w", err)
	}

	return &fileStore{
		dir:      abs,
		archiver: archiver,
		logger:   logger.With().Str("component", "receipt-store").Logger(),
	}, nil
}

// Save writes the document locally, then mirrors it to the archiver.
// Archive failures are logged, not returned: the local copy is the one the
// checkout pipeline depends on.
func (s *fileStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	path, err := s.Path(filename)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("failed to write receipt file")
		return "", fmt.Errorf("failed to write receipt file: %w", err)
	}

	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, filename, data); err != nil {
			s.logger.Warn().Err(err).Str("filename", filename).Msg("failed to archive receipt")
		}
	}

	s.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("receipt file saved")
	return path, nil
}

// Path resolves filename inside the receipts directory.
func (s *fileStore) Path(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("receipt filename is empty")
	}

	path := filepath.Join(s.dir, filepath.Base(filename))
	if filepath.Base(filename) != filename {
		return "", fmt.Errorf("invalid receipt filename: %s", filename)
	}

	return path, nil
}

// Filename derives a deterministic, filesystem-safe receipt name from the
// user identity and the order time. Non-alphanumeric identity characters
// are replaced so concurrent checkouts by different users cannot collide.
func Filename(userEmail string, ts time.Time) string {
	return fmt.Sprintf("receipt_%s_%s.pdf", sanitize(userEmail), ts.Format("20060102150405"))
}

func sanitize(userEmail string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, userEmail)
}
