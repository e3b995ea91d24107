// Package documentos casos de uso de los documentos soporte adjuntos a la factura.
package documentos

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/contabilidadcq-api/internal/application/dto"
	"github.com/jhoicas/contabilidadcq-api/internal/application/workflow"
	"github.com/jhoicas/contabilidadcq-api/internal/domain"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/repository"
	"github.com/jhoicas/contabilidadcq-api/pkg/logger"
)

// Options límites de carga y vigencia de los enlaces.
type Options struct {
	MaxBytes   int64
	PresignTTL time.Duration
}

// Upload archivo recibido para adjuntar.
type Upload struct {
	DocType     string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UseCase guarda los bytes en el ObjectStore y los metadatos en la base.
// El almacenamiento externo se usa fuera de la transacción.
type UseCase struct {
	tx    repository.TxRunner
	store ObjectStore
	opts  Options
	log   *logger.Logger
	now   func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx repository.TxRunner, store ObjectStore, opts Options, log *logger.Logger) *UseCase {
	if opts.PresignTTL <= 0 {
		opts.PresignTTL = 15 * time.Minute
	}
	return &UseCase{tx: tx, store: store, opts: opts, log: log.Component("documentos"), now: time.Now}
}

// Upload adjunta un documento. Solo OC admite varios archivos por factura.
func (uc *UseCase) Upload(ctx context.Context, actor entity.Actor, facturaID string, in Upload) (*dto.FacturaFileResponse, error) {
	docType := entity.DocType(strings.ToUpper(strings.TrimSpace(in.DocType)))
	filename := sanitizeFilename(in.Filename)
	var reasons []string
	if !docType.Valid() {
		reasons = append(reasons, fmt.Sprintf("tipo de documento %q no reconocido", in.DocType))
	}
	if filename == "" {
		reasons = append(reasons, "el nombre del archivo es obligatorio")
	}
	if in.Size <= 0 {
		reasons = append(reasons, "el archivo está vacío")
	}
	if uc.opts.MaxBytes > 0 && in.Size > uc.opts.MaxBytes {
		reasons = append(reasons, fmt.Sprintf("el archivo supera el máximo de %d bytes", uc.opts.MaxBytes))
	}
	if len(reasons) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(reasons, "; "))
	}

	if err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		f, err := getFactura(ctx, repos, facturaID)
		if err != nil {
			return err
		}
		if err := workflow.CanEdit(actor, f); err != nil {
			return err
		}
		if docType.AllowsMultiple() {
			return nil
		}
		existing, err := repos.Files.ListByFactura(ctx, facturaID, docType)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return fmt.Errorf("%w: la factura ya tiene un documento %s", domain.ErrDuplicate, docType)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	key := path.Join(facturaID, string(docType), uuid.New().String()+"-"+filename)
	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := uc.store.Put(ctx, key, in.Body, in.Size, contentType); err != nil {
		return nil, fmt.Errorf("guardar documento: %w", err)
	}

	file := &entity.FacturaFile{
		FacturaID:       facturaID,
		DocType:         docType,
		StorageProvider: uc.store.Provider(),
		StoragePath:     key,
		Filename:        filename,
		ContentType:     contentType,
		SizeBytes:       in.Size,
		UploadedBy:      actor.UserRef(),
		CreatedAt:       uc.now(),
	}
	if err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		return repos.Files.Create(ctx, file)
	}); err != nil {
		if derr := uc.store.Delete(ctx, key); derr != nil {
			uc.log.Error().Err(derr).Str("key", key).Msg("no se pudo eliminar el objeto huérfano")
		}
		return nil, err
	}
	uc.log.Info().
		Str("factura_id", facturaID).
		Str("doc_type", string(docType)).
		Int64("bytes", in.Size).
		Str("provider", file.StorageProvider).
		Msg("documento adjuntado")
	out := dto.FileFrom(file)
	return &out, nil
}

// List documentos de la factura, opcionalmente de un tipo.
func (uc *UseCase) List(ctx context.Context, facturaID, docType string) ([]dto.FacturaFileResponse, error) {
	var files []*entity.FacturaFile
	err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		if _, err := getFactura(ctx, repos, facturaID); err != nil {
			return err
		}
		var err error
		files, err = repos.Files.ListByFactura(ctx, facturaID, entity.DocType(strings.ToUpper(docType)))
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.FacturaFileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, dto.FileFrom(f))
	}
	return out, nil
}

// Get metadatos del documento con un enlace temporal si el proveedor lo soporta.
func (uc *UseCase) Get(ctx context.Context, fileID string) (*dto.FacturaFileResponse, error) {
	file, err := uc.getFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	out := dto.FileFrom(file)
	if out.URL, err = uc.store.URL(ctx, file.StoragePath, uc.opts.PresignTTL); err != nil {
		return nil, fmt.Errorf("enlace de descarga: %w", err)
	}
	return &out, nil
}

// Open abre el contenido del documento. El llamador cierra el lector.
func (uc *UseCase) Open(ctx context.Context, fileID string) (*entity.FacturaFile, io.ReadCloser, error) {
	file, err := uc.getFile(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}
	body, err := uc.store.Get(ctx, file.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	return file, body, nil
}

// Delete elimina los metadatos y luego el objeto.
func (uc *UseCase) Delete(ctx context.Context, actor entity.Actor, fileID string) error {
	var file *entity.FacturaFile
	err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		file, err = repos.Files.GetByID(ctx, fileID)
		if err != nil {
			return err
		}
		if file == nil {
			return fmt.Errorf("%w: documento %s", domain.ErrNotFound, fileID)
		}
		f, err := getFactura(ctx, repos, file.FacturaID)
		if err != nil {
			return err
		}
		if err := workflow.CanEdit(actor, f); err != nil {
			return err
		}
		return repos.Files.Delete(ctx, fileID)
	})
	if err != nil {
		return err
	}
	if err := uc.store.Delete(ctx, file.StoragePath); err != nil {
		uc.log.Error().Err(err).Str("key", file.StoragePath).Msg("no se pudo eliminar el objeto")
	}
	uc.log.Info().Str("factura_id", file.FacturaID).Str("doc_type", string(file.DocType)).Msg("documento eliminado")
	return nil
}

func (uc *UseCase) getFile(ctx context.Context, fileID string) (*entity.FacturaFile, error) {
	var file *entity.FacturaFile
	err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		file, err = repos.Files.GetByID(ctx, fileID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, fmt.Errorf("%w: documento %s", domain.ErrNotFound, fileID)
	}
	return file, nil
}

func getFactura(ctx context.Context, repos repository.TxRepos, id string) (*entity.Factura, error) {
	f, err := repos.Facturas.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
	}
	return f, nil
}

// sanitizeFilename deja solo el nombre base sin separadores ni caracteres de control.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
}
