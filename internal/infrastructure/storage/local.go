package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jhoicas/contabilidadcq-api/internal/application/documentos"
	"github.com/jhoicas/contabilidadcq-api/internal/domain"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
	"github.com/jhoicas/contabilidadcq-api/pkg/config"
)

var _ documentos.ObjectStore = (*LocalStore)(nil)

// LocalStore guarda los documentos en disco (desarrollo y despliegues sin S3).
type LocalStore struct {
	root string
}

// NewLocalStore crea el directorio raíz si no existe.
func NewLocalStore(root string) (*LocalStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("ruta de almacenamiento: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("crear %s: %w", abs, err)
	}
	return &LocalStore{root: abs}, nil
}

// Provider identifica el proveedor en los metadatos del archivo.
func (s *LocalStore) Provider() string { return entity.StorageLocal }

// resolve impide que una clave escape del directorio raíz.
func (s *LocalStore) resolve(key string) (string, error) {
	p := filepath.Join(s.root, filepath.FromSlash(key))
	if p != s.root && !strings.HasPrefix(p, s.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: clave fuera del almacenamiento", domain.ErrInvalidInput)
	}
	return p, nil
}

// Put escribe el archivo; se escribe primero a un temporal y luego se renombra.
func (s *LocalStore) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	p, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return fmt.Errorf("crear directorio: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return fmt.Errorf("crear temporal: %w", err)
	}
	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("escribir %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cerrar %s: %w", key, err)
	}
	return os.Rename(tmp.Name(), p)
}

// Get abre el archivo para lectura.
func (s *LocalStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: objeto %s", domain.ErrNotFound, key)
		}
		return nil, fmt.Errorf("abrir %s: %w", key, err)
	}
	return f, nil
}

// URL no aplica en disco local; la descarga pasa por la API.
func (s *LocalStore) URL(context.Context, string, time.Duration) (string, error) {
	return "", nil
}

// Delete borra el archivo; si no existe no es error.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	p, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("borrar %s: %w", key, err)
	}
	return nil
}

// New construye el almacenamiento según STORAGE_PROVIDER.
func New(ctx context.Context, cfg config.StorageConfig) (documentos.ObjectStore, error) {
	switch cfg.Provider {
	case entity.StorageS3:
		return NewS3Store(ctx, cfg)
	case entity.StorageLocal, "":
		return NewLocalStore(cfg.LocalDir)
	}
	return nil, fmt.Errorf("proveedor de almacenamiento %q no soportado", cfg.Provider)
}
