package documentos

import (
	"context"
	"io"
	"time"
)

// ObjectStore almacenamiento de los bytes de los documentos adjuntos (S3 o disco local).
// Las claves son relativas al prefijo configurado en el adaptador.
type ObjectStore interface {
	Provider() string
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// URL devuelve un enlace temporal de descarga; vacío si el proveedor no lo soporta.
	URL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}
