package billing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jhoicas/factura-local/internal/domain"
	"github.com/jhoicas/factura-local/internal/domain/entity"
	"github.com/jhoicas/factura-local/internal/domain/repository"
)

// PDFUseCase frontera de exportación: renderiza una factura persistida y la
// entrega en dos modos, descarga con nombre determinista y previsualización
// vía handle transitorio revocable. Un fallo del renderizador se reporta como
// ErrRender, distinguible de un fallo de persistencia: el llamador puede decir
// "la factura quedó guardada pero no exportada".
type PDFUseCase struct {
	repo      repository.InvoiceRepository
	generator InvoicePDFGenerator
	previews  *PreviewStore
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(repo repository.InvoiceRepository, generator InvoicePDFGenerator, previews *PreviewStore) *PDFUseCase {
	return &PDFUseCase{repo: repo, generator: generator, previews: previews}
}

// Filename nombre determinista del documento: Invoice_<número>.pdf.
func Filename(inv *entity.Invoice) string {
	return fmt.Sprintf("Invoice_%s.pdf", inv.Number)
}

// render carga la factura y produce los bytes del documento.
func (uc *PDFUseCase) render(ctx context.Context, id string) ([]byte, *entity.Invoice, error) {
	inv, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, nil, domain.ErrNotFound
	}
	if inv.Number == "" {
		return nil, nil, fmt.Errorf("%w: la factura no está finalizada, genera el número antes de exportar", domain.ErrInvalidInput)
	}

	data, err := uc.generator.GenerateInvoicePDF(ctx, inv)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrRender, err)
	}
	return data, inv, nil
}

// Download renderiza y devuelve (bytes, nombre de archivo).
func (uc *PDFUseCase) Download(ctx context.Context, id string) ([]byte, string, error) {
	data, inv, err := uc.render(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return data, Filename(inv), nil
}

// SaveToDir renderiza y escribe el documento en dir; devuelve la ruta final.
func (uc *PDFUseCase) SaveToDir(ctx context.Context, id, dir string) (string, error) {
	data, inv, err := uc.render(ctx, id)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("pdf: crear directorio de salida: %w", err)
	}
	path := filepath.Join(dir, Filename(inv))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("pdf: escribir %s: %w", path, err)
	}
	return path, nil
}

// Preview renderiza y registra los bytes como handle transitorio; devuelve el
// token. Los mismos bytes que la descarga, con vida acotada.
func (uc *PDFUseCase) Preview(ctx context.Context, id string) (string, error) {
	data, _, err := uc.render(ctx, id)
	if err != nil {
		return "", err
	}
	return uc.previews.Put(data), nil
}

// PreviewBytes resuelve un token vigente a sus bytes.
func (uc *PDFUseCase) PreviewBytes(token string) ([]byte, bool) {
	return uc.previews.Get(token)
}

// ReleasePreview revoca el token antes de su expiración.
func (uc *PDFUseCase) ReleasePreview(token string) {
	uc.previews.Release(token)
}
