// Package storage adaptadores de almacenamiento de objetos para las imágenes de cultivos.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/farmlink-api/internal/application/media"
)

var _ media.ObjectStorage = (*LocalStorage)(nil)

// LocalStorage guarda objetos en disco bajo dir; la API los sirve como estáticos en publicURL.
type LocalStorage struct {
	dir       string
	publicURL string
}

// NewLocalStorage crea el directorio raíz si no existe.
func NewLocalStorage(dir, publicURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de uploads: %w", err)
	}
	return &LocalStorage{dir: dir, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// Put escribe el objeto de forma atómica (archivo temporal + rename) y devuelve su URL pública.
func (s *LocalStorage) Put(ctx context.Context, key, _ string, r io.Reader, _ int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("clave de objeto inválida: %q", key)
	}
	dst := filepath.Join(s.dir, clean)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("crear directorio: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("crear archivo temporal: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("escribir objeto: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("cerrar objeto: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("publicar objeto: %w", err)
	}
	return s.publicURL + "/" + filepath.ToSlash(clean), nil
}

// Dir directorio raíz (para servirlo como estático).
func (s *LocalStorage) Dir() string { return s.dir }
