package storage_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/contabilidadcq-api/internal/domain"
	"github.com/jhoicas/contabilidadcq-api/internal/infrastructure/storage"
	"github.com/jhoicas/contabilidadcq-api/pkg/config"
)

func TestLocalStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	st, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "local", st.Provider())

	body := "contenido del pdf"
	require.NoError(t, st.Put(ctx, "f1/PEC/soporte.pdf", strings.NewReader(body), int64(len(body)), "application/pdf"))

	rc, err := st.Get(ctx, "f1/PEC/soporte.pdf")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, body, string(got))

	url, err := st.URL(ctx, "f1/PEC/soporte.pdf", time.Minute)
	require.NoError(t, err)
	assert.Empty(t, url, "el disco local no genera enlaces firmados")

	require.NoError(t, st.Delete(ctx, "f1/PEC/soporte.pdf"))
	_, err = st.Get(ctx, "f1/PEC/soporte.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, st.Delete(ctx, "f1/PEC/soporte.pdf"), "borrar dos veces no es error")
}

func TestLocalStore_ClaveFueraDeRaiz(t *testing.T) {
	st, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	err = st.Put(context.Background(), "../fuera.txt", strings.NewReader("x"), 1, "text/plain")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNew_ProveedorDesconocido(t *testing.T) {
	_, err := storage.New(context.Background(), config.StorageConfig{Provider: "ftp"})
	assert.Error(t, err)
}

func TestNew_Local(t *testing.T) {
	st, err := storage.New(context.Background(), config.StorageConfig{Provider: "local", LocalDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "local", st.Provider())
}
