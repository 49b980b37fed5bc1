// Package store persists boards as named text files in a save directory.
package store

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lgbarn/chessboard-go/internal/chess"
	"github.com/lgbarn/chessboard-go/internal/errors"
)

// Extension is appended to every save name to form its file name.
const Extension = ".txt"

var validName = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Store maps save names to <dir>/<name>.txt files.
type Store struct {
	dir string
	log zerolog.Logger
}

// New creates a store rooted at dir. The directory is created on the
// first Save.
func New(dir string, log zerolog.Logger) *Store {
	return &Store{
		dir: dir,
		log: log.With().Str("component", "store").Logger(),
	}
}

// Dir returns the save directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path for a save name.
func (s *Store) Path(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name+Extension), nil
}

// ValidateName reports ErrInvalidName unless name consists of 1-64
// letters, digits, '-' or '_'.
func ValidateName(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("%q: %w", name, errors.ErrInvalidName)
	}
	return nil
}

// Save writes the board under name. The file is written to a temporary
// file in the same directory and renamed into place.
func (s *Store) Save(name string, board *chess.Board) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating save directory %s", s.dir)
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+"-*.tmp")
	if err != nil {
		return errors.Wrapf(err, "saving %s", name)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // already renamed on success

	if _, err := tmp.WriteString(board.Serialize()); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "saving %s", name)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "saving %s", name)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, "saving %s", name)
	}

	s.log.Debug().Str("name", name).Str("path", path).Msg("board saved")
	return nil
}

// Load reads the board saved under name.
func (s *Store) Load(name string) (*chess.Board, error) {
	b := chess.NewEmptyBoard()
	if err := s.LoadInto(name, b); err != nil {
		return nil, err
	}
	return b, nil
}

// LoadInto replaces the grid of board with the save named name. On any
// error, including a malformed file, board is left unchanged.
func (s *Store) LoadInto(name string, board *chess.Board) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path is built from a validated name
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%q: %w", name, errors.ErrSaveNotFound)
		}
		return errors.Wrapf(err, "loading %s", name)
	}

	if err := board.Deserialize(string(data)); err != nil {
		var parseErr *errors.ParseError
		if errors.As(err, &parseErr) {
			parseErr.File = path
		}
		s.log.Warn().Err(err).Str("name", name).Msg("rejected malformed save")
		return err
	}

	s.log.Debug().Str("name", name).Msg("board loaded")
	return nil
}

// Delete removes the save named name.
func (s *Store) Delete(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%q: %w", name, errors.ErrSaveNotFound)
		}
		return errors.Wrapf(err, "deleting %s", name)
	}
	return nil
}

// Exists reports whether a save named name is present.
func (s *Store) Exists(name string) bool {
	path, err := s.Path(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// List returns the sorted names of all saves. A missing save directory
// yields an empty list.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, errors.Wrapf(err, "listing %s", s.dir)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() && e.Type() != fs.ModeSymlink {
			continue
		}
		name, ok := strings.CutSuffix(e.Name(), Extension)
		if !ok || ValidateName(name) != nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
