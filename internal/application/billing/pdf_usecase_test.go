package billing_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/jhoicas/factura-local/internal/application/billing"
	"github.com/jhoicas/factura-local/internal/domain"
	"github.com/jhoicas/factura-local/internal/domain/entity"
)

// stubGenerator generador controlable para aislar la frontera de exportación
// del renderizador real.
type stubGenerator struct {
	data []byte
	err  error
}

func (g *stubGenerator) GenerateInvoicePDF(_ context.Context, _ *entity.Invoice) ([]byte, error) {
	return g.data, g.err
}

func newPDFEnv(t *testing.T, gen appbilling.InvoicePDFGenerator) (*appbilling.PDFUseCase, *entity.Invoice) {
	t.Helper()
	env := newBillingEnv(t)
	saved, fieldErrs, err := env.saver.Save(context.Background(), draftInvoice())
	require.NoError(t, err)
	require.Empty(t, fieldErrs)

	previews := appbilling.NewPreviewStore(time.Minute)
	return appbilling.NewPDFUseCase(env.repo, gen, previews), saved
}

func TestPDFUseCase_Download(t *testing.T) {
	uc, inv := newPDFEnv(t, &stubGenerator{data: []byte("%PDF-1.7 contenido")})

	data, filename, err := uc.Download(context.Background(), inv.ID)

	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7 contenido"), data)
	assert.Equal(t, "Invoice_"+inv.Number+".pdf", filename)
}

func TestPDFUseCase_DownloadInexistente(t *testing.T) {
	uc, _ := newPDFEnv(t, &stubGenerator{data: []byte("x")})

	_, _, err := uc.Download(context.Background(), "no-existe")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// TestPDFUseCase_BorradorNoExporta una factura sin número no se puede
// exportar: primero hay que generarla.
func TestPDFUseCase_BorradorNoExporta(t *testing.T) {
	env := newBillingEnv(t)
	ctx := context.Background()

	draft := draftInvoice()
	draft.ID = "draft-1"
	draft.CreatedAt = time.Now()
	require.NoError(t, env.repo.Save(ctx, &draft))

	uc := appbilling.NewPDFUseCase(env.repo, &stubGenerator{data: []byte("x")}, appbilling.NewPreviewStore(time.Minute))
	_, _, err := uc.Download(ctx, "draft-1")

	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// TestPDFUseCase_FalloDelRenderizador se reporta como ErrRender, distinguible
// de un fallo de persistencia.
func TestPDFUseCase_FalloDelRenderizador(t *testing.T) {
	uc, inv := newPDFEnv(t, &stubGenerator{err: errors.New("fuente corrupta")})

	_, _, err := uc.Download(context.Background(), inv.ID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRender))
	assert.Contains(t, err.Error(), "fuente corrupta")
}

func TestPDFUseCase_SaveToDir(t *testing.T) {
	uc, inv := newPDFEnv(t, &stubGenerator{data: []byte("%PDF-bytes")})
	dir := filepath.Join(t.TempDir(), "exportes")

	path, err := uc.SaveToDir(context.Background(), inv.ID, dir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Invoice_"+inv.Number+".pdf"), path)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-bytes"), written)
}

// TestPDFUseCase_PreviewCicloCompleto token → bytes → revocación.
func TestPDFUseCase_PreviewCicloCompleto(t *testing.T) {
	uc, inv := newPDFEnv(t, &stubGenerator{data: []byte("%PDF-preview")})
	ctx := context.Background()

	token, err := uc.Preview(ctx, inv.ID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	data, ok := uc.PreviewBytes(token)
	require.True(t, ok)
	assert.Equal(t, []byte("%PDF-preview"), data)

	uc.ReleasePreview(token)
	_, ok = uc.PreviewBytes(token)
	assert.False(t, ok, "el token revocado no debe resolver")
}
