package credentials

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

const tokenFileName = "token"

var _ Store = (*FileStore)(nil)

// FileStore keeps the token in a single file under a directory, surviving
// process restarts on the same machine/profile. Every operation is best
// effort: an unreadable or unwritable medium is treated as an absent token,
// never as an error the caller must handle.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(dir string) *FileStore {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		log.Debug().Err(err).Str("dir", dir).Msg("credential dir unavailable")
	}
	return &FileStore{dir: dir}
}

func (fs *FileStore) path() string {
	return filepath.Join(fs.dir, tokenFileName)
}

func (fs *FileStore) Get() (string, bool) {
	data, err := os.ReadFile(fs.path())
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", false
	}
	return token, true
}

func (fs *FileStore) Set(token string) {
	if err := os.WriteFile(fs.path(), []byte(token), 0o600); err != nil {
		log.Debug().Err(err).Msg("failed to persist token")
	}
}

func (fs *FileStore) Clear() {
	if err := os.Remove(fs.path()); err != nil && !os.IsNotExist(err) {
		log.Debug().Err(err).Msg("failed to clear persisted token")
	}
}
