package fs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"Gallerist/internal/cli/repo"
)

// AuthFSStore — файловое хранилище bearer-токена galleryctl.
type AuthFSStore struct {
	Path string
}

var _ repo.TokenStore = AuthFSStore{}

// Save сохраняет токен в файл, создавая каталог с правами только для владельца.
func (s AuthFSStore) Save(token string) error {
	if s.Path == "" {
		return errors.New("token file path is not configured")
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.Path, []byte(strings.TrimSpace(token)), 0o600)
}

// Load читает токен из файла.
func (s AuthFSStore) Load() (string, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return "", err
	}
	// обрезаем завершающие переводы строки/пробелы
	tok := strings.TrimSpace(string(b))
	if tok == "" {
		return "", errors.New("empty token file")
	}
	return tok, nil
}

func (s AuthFSStore) Clear() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
