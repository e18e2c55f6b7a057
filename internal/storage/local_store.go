// Copyright (C) 2024 JuniorHub Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store persists uploaded files and hands back a URL path the API serves
// them under. Callers never learn the on-disk layout.
type Store interface {
	Save(category string, originalFilename string, r io.Reader) (string, error)
}

type LocalStore struct {
	dir      string
	basePath string
}

// NewLocalStore creates the upload directory if needed. basePath is the
// URL prefix the files get served under, e.g. /uploads.
func NewLocalStore(dir, basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("could not create upload directory: %w", err)
	}
	return &LocalStore{dir: dir, basePath: strings.TrimSuffix(basePath, "/")}, nil
}

func LocalStoreFactory() (*LocalStore, error) {
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "./uploads"
	}
	return NewLocalStore(dir, "/uploads")
}

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// Save writes the file under a random name, keeping only the extension of
// the original. The returned path is opaque - it carries no user input.
func (s *LocalStore) Save(category string, originalFilename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("unsupported file extension: %s", ext)
	}

	if err := os.MkdirAll(filepath.Join(s.dir, category), 0o750); err != nil {
		return "", fmt.Errorf("could not create category directory: %w", err)
	}

	name := uuid.NewString() + ext
	f, err := os.Create(filepath.Join(s.dir, category, name))
	if err != nil {
		return "", fmt.Errorf("could not create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("could not write file: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.basePath, category, name), nil
}

// Dir exposes the root directory so the server can mount a static route.
func (s *LocalStore) Dir() string {
	return s.dir
}
