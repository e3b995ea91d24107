package documentos_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/contabilidadcq-api/internal/application/documentos"
	"github.com/jhoicas/contabilidadcq-api/internal/domain"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
	"github.com/jhoicas/contabilidadcq-api/internal/infrastructure/memory"
	"github.com/jhoicas/contabilidadcq-api/internal/infrastructure/storage"
	"github.com/jhoicas/contabilidadcq-api/pkg/logger"
)

const facturaID = "8d5e0a3c-1111-4000-8000-000000000001"

type fixture struct {
	uc    *documentos.UseCase
	store *memory.Store
	objs  *storage.LocalStore
	actor entity.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.NewStore()
	tes := st.AddArea("Tesorería", entity.AreaCodeTesoreria)
	st.PutFactura(entity.Factura{
		ID: facturaID, Proveedor: "Proveedor", NumeroFactura: "FE-1", Total: decimal.NewFromInt(10),
		AreaID: tes, EstadoID: entity.EstadoEnTesoreria,
	})
	objs, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return &fixture{
		uc:    documentos.NewUseCase(st, objs, documentos.Options{MaxBytes: 1024}, logger.Nop()),
		store: st,
		objs:  objs,
		actor: entity.Actor{UserID: "u-tes", Role: entity.RoleTesoreria, AreaID: tes},
	}
}

func upload(docType, name, body string) documentos.Upload {
	return documentos.Upload{DocType: docType, Filename: name, ContentType: "application/pdf", Size: int64(len(body)), Body: strings.NewReader(body)}
}

func TestUpload_GuardaYLee(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	out, err := fx.uc.Upload(ctx, fx.actor, facturaID, upload("ec", "../../extracto.pdf", "contenido"))
	require.NoError(t, err)
	assert.Equal(t, "EC", out.DocType)
	assert.Equal(t, "extracto.pdf", out.Filename)
	assert.Equal(t, entity.StorageLocal, out.StorageProvider)
	require.NotNil(t, out.UploadedBy)
	assert.Equal(t, "u-tes", *out.UploadedBy)

	file, body, err := fx.uc.Open(ctx, out.ID)
	require.NoError(t, err)
	defer body.Close()
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "contenido", string(data))
	assert.True(t, strings.HasPrefix(file.StoragePath, facturaID+"/EC/"))
}

func TestUpload_UnicoPorTipoExceptoOC(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.uc.Upload(ctx, fx.actor, facturaID, upload("PEC", "a.pdf", "1"))
	require.NoError(t, err)
	_, err = fx.uc.Upload(ctx, fx.actor, facturaID, upload("PEC", "b.pdf", "2"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = fx.uc.Upload(ctx, fx.actor, facturaID, upload("OC", "oc1.pdf", "1"))
	require.NoError(t, err)
	_, err = fx.uc.Upload(ctx, fx.actor, facturaID, upload("OC", "oc2.pdf", "2"))
	require.NoError(t, err)

	ocs, err := fx.uc.List(ctx, facturaID, "oc")
	require.NoError(t, err)
	assert.Len(t, ocs, 2)
	all, err := fx.uc.List(ctx, facturaID, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpload_EntradaInvalida(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.uc.Upload(context.Background(), fx.actor, facturaID, upload("RUT", "", ""))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "RUT")
	assert.Contains(t, err.Error(), "vacío")

	_, err = fx.uc.Upload(context.Background(), fx.actor, facturaID, upload("EC", "x.pdf", strings.Repeat("a", 2048)))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpload_FacturaDeOtraArea(t *testing.T) {
	fx := newFixture(t)
	otro := entity.Actor{UserID: "u-x", Role: entity.RoleContabilidad, AreaID: "cont"}
	_, err := fx.uc.Upload(context.Background(), otro, facturaID, upload("EC", "x.pdf", "1"))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = fx.uc.Upload(context.Background(), fx.actor, "no-existe", upload("EC", "x.pdf", "1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_BorraMetadatosYObjeto(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	out, err := fx.uc.Upload(ctx, fx.actor, facturaID, upload("PCE", "p.pdf", "1"))
	require.NoError(t, err)
	file, body, err := fx.uc.Open(ctx, out.ID)
	require.NoError(t, err)
	body.Close()

	require.NoError(t, fx.uc.Delete(ctx, fx.actor, out.ID))

	_, err = fx.uc.Get(ctx, out.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = fx.objs.Get(ctx, file.StoragePath)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
