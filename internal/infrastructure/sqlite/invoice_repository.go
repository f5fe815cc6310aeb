package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/factura-local/internal/domain"
	"github.com/jhoicas/factura-local/internal/domain/entity"
	"github.com/jhoicas/factura-local/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con handle o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar handle o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Save hace upsert de la cabecera por ID y reemplaza las líneas. Ejecutado
// dentro del TxRunner, cabecera y líneas confirman como un todo.
func (r *InvoiceRepo) Save(ctx context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		return fmt.Errorf("guardar factura: %w: id vacío", domain.ErrInvalidInput)
	}
	const query = `
		INSERT INTO invoices (
			id, invoice_number, created_at,
			seller_name, seller_address, seller_tax_id,
			customer_name, customer_address, customer_tax_id,
			currency_code, currency_symbol, currency_minor_units,
			tax_mode, tax_label, tax_rate,
			subtotal, tax_amount, total,
			qr_enabled, schema_version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			invoice_number       = excluded.invoice_number,
			created_at           = excluded.created_at,
			seller_name          = excluded.seller_name,
			seller_address       = excluded.seller_address,
			seller_tax_id        = excluded.seller_tax_id,
			customer_name        = excluded.customer_name,
			customer_address     = excluded.customer_address,
			customer_tax_id      = excluded.customer_tax_id,
			currency_code        = excluded.currency_code,
			currency_symbol      = excluded.currency_symbol,
			currency_minor_units = excluded.currency_minor_units,
			tax_mode             = excluded.tax_mode,
			tax_label            = excluded.tax_label,
			tax_rate             = excluded.tax_rate,
			subtotal             = excluded.subtotal,
			tax_amount           = excluded.tax_amount,
			total                = excluded.total,
			qr_enabled           = excluded.qr_enabled,
			schema_version       = excluded.schema_version`

	qrEnabled := 0
	if inv.QREnabled {
		qrEnabled = 1
	}
	_, err := r.q.ExecContext(ctx, query,
		inv.ID, inv.Number, toMillis(inv.CreatedAt),
		inv.Seller.Name, inv.Seller.Address, inv.Seller.TaxID,
		inv.Customer.Name, inv.Customer.Address, inv.Customer.TaxID,
		inv.Currency.Code, inv.Currency.Symbol, inv.Currency.MinorUnits,
		inv.Tax.Mode, inv.Tax.Label, inv.Tax.Rate.String(),
		inv.Totals.Subtotal.String(), inv.Totals.TaxAmount.String(), inv.Totals.Total.String(),
		qrEnabled, inv.SchemaVersion,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("guardar factura %s: %w", inv.ID, domain.ErrDuplicateNumber)
		}
		return fmt.Errorf("guardar factura: %w", err)
	}

	if _, err := r.q.ExecContext(ctx, `DELETE FROM invoice_items WHERE invoice_id = ?`, inv.ID); err != nil {
		return fmt.Errorf("reemplazar líneas: %w", err)
	}
	const itemQuery = `
		INSERT INTO invoice_items (invoice_id, position, id, name, qty, price)
		VALUES (?, ?, ?, ?, ?, ?)`
	for i, it := range inv.Items {
		if _, err := r.q.ExecContext(ctx, itemQuery,
			inv.ID, i, it.ID, it.Name, it.Qty, it.Price.String(),
		); err != nil {
			return fmt.Errorf("insertar línea %d: %w", i, err)
		}
	}
	return nil
}

const invoiceColumns = `
	id, invoice_number, created_at,
	seller_name, seller_address, seller_tax_id,
	customer_name, customer_address, customer_tax_id,
	currency_code, currency_symbol, currency_minor_units,
	tax_mode, tax_label, tax_rate,
	subtotal, tax_amount, total,
	qr_enabled, schema_version`

// GetByID obtiene una factura completa por ID. Devuelve (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `SELECT` + invoiceColumns + ` FROM invoices WHERE id = ?`
	inv, err := scanInvoice(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if err := r.loadItems(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// ListRecent devuelve hasta limit facturas por created_at descendente,
// desempatando por id. Lectura top-K sobre el índice, no scan completo.
func (r *InvoiceRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Invoice, error) {
	if limit <= 0 {
		return nil, nil
	}
	query := `SELECT` + invoiceColumns + `
		FROM invoices
		ORDER BY created_at DESC, id DESC
		LIMIT ?`
	rows, err := r.q.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listar facturas: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("escanear factura: %w", err)
		}
		list = append(list, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listar facturas: %w", err)
	}
	for _, inv := range list {
		if err := r.loadItems(ctx, inv); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// Delete borra la factura y sus líneas (cascade). Idempotente: un ID
// inexistente es éxito silencioso.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM invoices WHERE id = ?`, id); err != nil {
		return fmt.Errorf("borrar factura: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) loadItems(ctx context.Context, inv *entity.Invoice) error {
	const query = `
		SELECT id, name, qty, price
		FROM invoice_items
		WHERE invoice_id = ?
		ORDER BY position`
	rows, err := r.q.QueryContext(ctx, query, inv.ID)
	if err != nil {
		return fmt.Errorf("listar líneas: %w", err)
	}
	defer rows.Close()

	items := []entity.InvoiceItem{}
	for rows.Next() {
		var it entity.InvoiceItem
		var price string
		if err := rows.Scan(&it.ID, &it.Name, &it.Qty, &price); err != nil {
			return fmt.Errorf("escanear línea: %w", err)
		}
		if it.Price, err = decimal.NewFromString(price); err != nil {
			return fmt.Errorf("precio corrupto en línea %s: %w", it.ID, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("listar líneas: %w", err)
	}
	inv.Items = items
	return nil
}

// rowScanner cubre *sql.Row y *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner) (*entity.Invoice, error) {
	var inv entity.Invoice
	var createdAt int64
	var taxRate, subtotal, taxAmount, total string
	var qrEnabled int

	err := row.Scan(
		&inv.ID, &inv.Number, &createdAt,
		&inv.Seller.Name, &inv.Seller.Address, &inv.Seller.TaxID,
		&inv.Customer.Name, &inv.Customer.Address, &inv.Customer.TaxID,
		&inv.Currency.Code, &inv.Currency.Symbol, &inv.Currency.MinorUnits,
		&inv.Tax.Mode, &inv.Tax.Label, &taxRate,
		&subtotal, &taxAmount, &total,
		&qrEnabled, &inv.SchemaVersion,
	)
	if err != nil {
		return nil, err
	}

	inv.CreatedAt = fromMillis(createdAt)
	inv.QREnabled = qrEnabled != 0
	if inv.Tax.Rate, err = decimal.NewFromString(taxRate); err != nil {
		return nil, fmt.Errorf("tasa corrupta: %w", err)
	}
	if inv.Totals.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return nil, fmt.Errorf("subtotal corrupto: %w", err)
	}
	if inv.Totals.TaxAmount, err = decimal.NewFromString(taxAmount); err != nil {
		return nil, fmt.Errorf("impuesto corrupto: %w", err)
	}
	if inv.Totals.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("total corrupto: %w", err)
	}
	return &inv, nil
}
