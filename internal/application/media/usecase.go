// Package media subida de imágenes de cultivos.
package media

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/farmlink-api/internal/application/dto"
	"github.com/jhoicas/farmlink-api/internal/domain"
	"github.com/jhoicas/farmlink-api/internal/domain/access"
	"github.com/jhoicas/farmlink-api/internal/domain/entity"
)

// DefaultMaxBytes tamaño máximo por defecto de una imagen (5 MB).
const DefaultMaxBytes int64 = 5 * 1024 * 1024

// ObjectStorage almacén de objetos donde se guardan las imágenes.
type ObjectStorage interface {
	// Put guarda el contenido bajo key y devuelve la URL pública.
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error)
}

// extensión → content type aceptado
var allowed = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// UseCase valida y guarda imágenes con clave "<userID>/<uuid>.<ext>".
type UseCase struct {
	storage  ObjectStorage
	maxBytes int64
}

// NewUseCase construye el caso de uso. maxBytes <= 0 usa DefaultMaxBytes.
func NewUseCase(storage ObjectStorage, maxBytes int64) *UseCase {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &UseCase{storage: storage, maxBytes: maxBytes}
}

// UploadImage guarda una imagen JPG o PNG del agricultor de la sesión.
// El tipo se valida por extensión y por el contenido real del archivo.
func (uc *UseCase) UploadImage(ctx context.Context, s access.Session, filename string, size int64, r io.Reader) (*dto.UploadImageResponse, error) {
	if err := access.Require(s, entity.RoleFarmer); err != nil {
		return nil, err
	}
	ext := strings.ToLower(path.Ext(filename))
	wantType, ok := allowed[ext]
	if !ok {
		return nil, domain.ErrUnsupportedImage
	}
	if size > uc.maxBytes {
		return nil, domain.ErrImageTooLarge
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: archivo vacío", domain.ErrInvalidInput)
	}

	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("leer imagen: %w", err)
	}
	if http.DetectContentType(head) != wantType {
		return nil, domain.ErrUnsupportedImage
	}

	if ext == ".jpeg" {
		ext = ".jpg"
	}
	key := s.UserID + "/" + uuid.New().String() + ext
	url, err := uc.storage.Put(ctx, key, wantType, io.LimitReader(br, uc.maxBytes), size)
	if err != nil {
		return nil, err
	}
	return &dto.UploadImageResponse{URL: url, Key: key, ContentType: wantType, Size: size}, nil
}
