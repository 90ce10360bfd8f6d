package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// FileRepository stores favorites as a JSON array in a single file.
type FileRepository struct {
	path   string
	logger *log.Logger
}

// FileOption configures a FileRepository.
type FileOption func(*FileRepository)

// WithLogger sets the logger used to report unreadable files.
func WithLogger(logger *log.Logger) FileOption {
	return func(r *FileRepository) {
		r.logger = logger
	}
}

// NewFileRepository creates a FileRepository at path.
func NewFileRepository(path string, opts ...FileOption) *FileRepository {
	r := &FileRepository{path: path, logger: log.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Path returns the file path where favorites are stored.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the favorites file. A missing, unreadable or unparsable file
// reads as empty, so a damaged file is replaced on the next write instead of
// blocking the tools.
func (r *FileRepository) Load(context.Context) ([]Favorite, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return []Favorite{}, nil
	}
	if err != nil {
		r.logger.Warn("favorites file unreadable, treating as empty", "path", r.path, "err", err)
		return []Favorite{}, nil
	}

	var list []Favorite
	if err := json.Unmarshal(data, &list); err != nil || list == nil {
		if err != nil {
			r.logger.Warn("favorites file corrupt, treating as empty", "path", r.path, "err", err)
		}
		return []Favorite{}, nil
	}
	return list, nil
}

// Save writes list to a temp file beside the target and renames it into place.
func (r *FileRepository) Save(_ context.Context, list []Favorite) error {
	if list == nil {
		list = []Favorite{}
	}

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding favorites: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating favorites directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp favorites file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing favorites file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing favorites file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replacing favorites file: %w", err)
	}
	return nil
}

func (r *FileRepository) Close() error {
	return nil
}
