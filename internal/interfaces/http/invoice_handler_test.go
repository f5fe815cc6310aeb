package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/jhoicas/factura-local/internal/application/billing"
	"github.com/jhoicas/factura-local/internal/application/dto"
	"github.com/jhoicas/factura-local/internal/domain/entity"
	"github.com/jhoicas/factura-local/internal/infrastructure/sqlite"
	apihttp "github.com/jhoicas/factura-local/internal/interfaces/http"
)

// stubGenerator evita depender del renderizador real en los tests de la API.
type stubGenerator struct{}

func (stubGenerator) GenerateInvoicePDF(_ context.Context, _ *entity.Invoice) ([]byte, error) {
	return []byte("%PDF-stub"), nil
}

// apiStack aplicación completa sobre un almacén temporal, con el repositorio
// expuesto para que los tests puedan sembrar estado directamente.
type apiStack struct {
	app  *fiber.App
	repo *sqlite.LazyInvoiceRepo
}

func newAPIStack(t *testing.T) *apiStack {
	t.Helper()
	db := sqlite.NewDB(filepath.Join(t.TempDir(), "facturas.db"))
	t.Cleanup(func() { _ = db.Close() })

	broadcaster := sqlite.NewBroadcaster()
	repo := sqlite.NewLazyInvoiceRepository(db)
	saver := appbilling.NewSaveInvoiceUseCase(sqlite.NewTxRunner(db), broadcaster, "GST")
	invoiceUC := appbilling.NewInvoiceUseCase(repo, saver, broadcaster)
	pdfUC := appbilling.NewPDFUseCase(repo, stubGenerator{}, appbilling.NewPreviewStore(time.Minute))

	app := fiber.New()
	apihttp.Router(app, apihttp.RouterDeps{
		SaveInvoice: saver,
		InvoiceUC:   invoiceUC,
		PDFUC:       pdfUC,
	})
	return &apiStack{app: app, repo: repo}
}

func newTestApp(t *testing.T) *fiber.App {
	return newAPIStack(t).app
}

func saveBody() map[string]any {
	return map[string]any{
		"presetKey": "INDIA_GST",
		"seller": map[string]any{
			"name":    "Acme Corp",
			"address": "Calle 1 #2-34",
			"taxId":   "900123456-1",
		},
		"customer": map[string]any{"name": "Cliente"},
		"items": []map[string]any{
			{"name": "Consultoría", "qty": 2, "price": "100"},
			{"name": "Soporte", "qty": 1, "price": "50"},
		},
	}
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	rec.Code = resp.StatusCode
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_, _ = rec.Body.Write(data)
	for k, v := range resp.Header {
		rec.Header()[k] = v
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "cuerpo: %s", rec.Body.String())
	return out
}

// TestAPI_SaveYConsultar el alta devuelve 201 con número asignado y el GET
// posterior devuelve el mismo registro.
func TestAPI_SaveYConsultar(t *testing.T) {
	app := newTestApp(t)

	rec := doJSON(t, app, fiber.MethodPost, "/api/invoices", saveBody())
	require.Equal(t, fiber.StatusCreated, rec.Code, rec.Body.String())
	created := decode[dto.InvoiceResponse](t, rec)

	assert.NotEmpty(t, created.ID)
	assert.Regexp(t, `^GST-\d{4}-00001$`, created.InvoiceNumber)
	assert.Equal(t, "250", created.Totals.Subtotal.String())
	assert.Equal(t, "295", created.Totals.Total.String())

	rec = doJSON(t, app, fiber.MethodGet, "/api/invoices/"+created.ID, nil)
	require.Equal(t, fiber.StatusOK, rec.Code)
	fetched := decode[dto.InvoiceResponse](t, rec)
	assert.Equal(t, created.InvoiceNumber, fetched.InvoiceNumber)
	assert.Len(t, fetched.Items, 2)
}

// TestAPI_SaveInvalido422 errores de campo como datos, nunca 500.
func TestAPI_SaveInvalido422(t *testing.T) {
	app := newTestApp(t)

	body := saveBody()
	body["seller"] = map[string]any{"name": "", "address": ""}

	rec := doJSON(t, app, fiber.MethodPost, "/api/invoices", body)
	require.Equal(t, fiber.StatusUnprocessableEntity, rec.Code)
	resp := decode[dto.ValidationErrorResponse](t, rec)

	assert.Equal(t, "VALIDATION", resp.Code)
	assert.Contains(t, resp.Fields, "seller.name")
	assert.Contains(t, resp.Fields, "seller.address")
	assert.Contains(t, resp.Fields, "seller.taxId")
}

// TestAPI_RegrabarConservaNumero un segundo POST con el mismo ID conserva el
// número asignado.
func TestAPI_RegrabarConservaNumero(t *testing.T) {
	app := newTestApp(t)

	created := decode[dto.InvoiceResponse](t, doJSON(t, app, fiber.MethodPost, "/api/invoices", saveBody()))

	body := saveBody()
	body["id"] = created.ID
	rec := doJSON(t, app, fiber.MethodPost, "/api/invoices", body)
	require.Equal(t, fiber.StatusCreated, rec.Code)
	updated := decode[dto.InvoiceResponse](t, rec)

	assert.Equal(t, created.InvoiceNumber, updated.InvoiceNumber)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

// TestAPI_ColisionDeNumeros409 agotar los reintentos de numeración responde
// 409 conflicto, nunca 500.
func TestAPI_ColisionDeNumeros409(t *testing.T) {
	stack := newAPIStack(t)
	ctx := context.Background()
	year := time.Now().UTC().Year()

	// Un registro ajeno ya ocupa el número que la secuencia propone; la
	// reserva revierte con cada transacción fallida, así que todos los
	// intentos chocan con él.
	seed := &entity.Invoice{
		ID:            "seed-1",
		Number:        fmt.Sprintf("GST-%d-00001", year),
		CreatedAt:     time.Now(),
		Currency:      entity.Currency{Code: "INR", Symbol: "₹", MinorUnits: 2},
		Tax:           entity.Tax{Mode: entity.TaxModeNone},
		SchemaVersion: entity.SchemaVersion,
	}
	require.NoError(t, stack.repo.Save(ctx, seed))

	rec := doJSON(t, stack.app, fiber.MethodPost, "/api/invoices", saveBody())

	require.Equal(t, fiber.StatusConflict, rec.Code, rec.Body.String())
	resp := decode[dto.ErrorResponse](t, rec)
	assert.Equal(t, "NUMBER_COLLISION", resp.Code)
}

func TestAPI_GetInexistente404(t *testing.T) {
	app := newTestApp(t)

	rec := doJSON(t, app, fiber.MethodGet, "/api/invoices/no-existe", nil)

	require.Equal(t, fiber.StatusNotFound, rec.Code)
	resp := decode[dto.ErrorResponse](t, rec)
	assert.Equal(t, "NOT_FOUND", resp.Code)
}

// TestAPI_ListRecent respeta el límite y ordena por creación descendente.
func TestAPI_ListRecent(t *testing.T) {
	app := newTestApp(t)

	for i := 0; i < 3; i++ {
		rec := doJSON(t, app, fiber.MethodPost, "/api/invoices", saveBody())
		require.Equal(t, fiber.StatusCreated, rec.Code)
	}

	rec := doJSON(t, app, fiber.MethodGet, "/api/invoices?limit=2", nil)
	require.Equal(t, fiber.StatusOK, rec.Code)
	list := decode[[]dto.InvoiceResponse](t, rec)
	assert.Len(t, list, 2)
}

func TestAPI_Delete204(t *testing.T) {
	app := newTestApp(t)

	created := decode[dto.InvoiceResponse](t, doJSON(t, app, fiber.MethodPost, "/api/invoices", saveBody()))

	rec := doJSON(t, app, fiber.MethodDelete, "/api/invoices/"+created.ID, nil)
	assert.Equal(t, fiber.StatusNoContent, rec.Code)

	rec = doJSON(t, app, fiber.MethodGet, "/api/invoices/"+created.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, rec.Code)
}

// TestAPI_Duplicate la copia sale con ID y número propios.
func TestAPI_Duplicate(t *testing.T) {
	app := newTestApp(t)

	created := decode[dto.InvoiceResponse](t, doJSON(t, app, fiber.MethodPost, "/api/invoices", saveBody()))

	rec := doJSON(t, app, fiber.MethodPost, "/api/invoices/"+created.ID+"/duplicate", nil)
	require.Equal(t, fiber.StatusCreated, rec.Code)
	dup := decode[dto.InvoiceResponse](t, rec)

	assert.NotEqual(t, created.ID, dup.ID)
	assert.NotEqual(t, created.InvoiceNumber, dup.InvoiceNumber)
}

func TestAPI_Share(t *testing.T) {
	app := newTestApp(t)

	created := decode[dto.InvoiceResponse](t, doJSON(t, app, fiber.MethodPost, "/api/invoices", saveBody()))

	rec := doJSON(t, app, fiber.MethodGet, "/api/invoices/"+created.ID+"/share", nil)
	require.Equal(t, fiber.StatusOK, rec.Code)
	resp := decode[dto.ShareResponse](t, rec)

	assert.Contains(t, resp.Text, created.InvoiceNumber)
	assert.Contains(t, resp.Text, "INR")
}

func TestAPI_Catalog(t *testing.T) {
	app := newTestApp(t)

	rec := doJSON(t, app, fiber.MethodGet, "/api/catalog", nil)
	require.Equal(t, fiber.StatusOK, rec.Code)
	resp := decode[dto.CatalogResponse](t, rec)

	assert.NotEmpty(t, resp.Currencies)
	assert.NotEmpty(t, resp.Presets)
	assert.Equal(t, "INDIA_GST", resp.Presets[0].Key)
}
