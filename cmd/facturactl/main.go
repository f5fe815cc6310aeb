// facturactl: utilidad de línea de comandos sobre el mismo almacén local que
// la API: listar, inspeccionar, duplicar, borrar, exportar PDF y compartir.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	appbilling "github.com/jhoicas/factura-local/internal/application/billing"
	domainbilling "github.com/jhoicas/factura-local/internal/domain/billing"
	"github.com/jhoicas/factura-local/internal/domain/entity"
	infrapdf "github.com/jhoicas/factura-local/internal/infrastructure/pdf"
	"github.com/jhoicas/factura-local/internal/infrastructure/sqlite"
	"github.com/jhoicas/factura-local/pkg/config"
	"github.com/jhoicas/factura-local/pkg/logger"
)

// deps cableado compartido por todos los comandos.
type deps struct {
	db        *sqlite.DB
	invoiceUC *appbilling.InvoiceUseCase
	pdfUC     *appbilling.PDFUseCase
	outputDir string
}

func buildDeps(dbPath string) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	if dbPath == "" {
		dbPath = cfg.Store.Path()
	}

	db := sqlite.NewDB(dbPath)
	broadcaster := sqlite.NewBroadcaster()
	txRunner := sqlite.NewTxRunner(db)
	repo := sqlite.NewLazyInvoiceRepository(db)

	saveUC := appbilling.NewSaveInvoiceUseCase(txRunner, broadcaster, cfg.Invoicing.Prefix)
	invoiceUC := appbilling.NewInvoiceUseCase(repo, saveUC, broadcaster)
	previews := appbilling.NewPreviewStore(cfg.PDF.PreviewTTL())
	pdfUC := appbilling.NewPDFUseCase(repo, infrapdf.NewMarotoPDFGenerator(), previews)

	return &deps{
		db:        db,
		invoiceUC: invoiceUC,
		pdfUC:     pdfUC,
		outputDir: cfg.PDF.OutputDir,
	}, nil
}

// collectionFingerprint resume la lista visible para detectar cambios entre
// sondeos sin comparar campo a campo.
func collectionFingerprint(list []*entity.Invoice) string {
	var b strings.Builder
	for _, inv := range list {
		fmt.Fprintf(&b, "%s|%s|%d|%s\n",
			inv.ID, inv.Number, inv.CreatedAt.UTC().UnixMilli(), inv.Totals.Total.String())
	}
	return b.String()
}

func printInvoiceLine(inv *entity.Invoice) {
	number := inv.Number
	if number == "" {
		number = "(borrador)"
	}
	fmt.Printf("%-36s  %-16s  %s  %s %s\n",
		inv.ID, number,
		inv.CreatedAt.Format("2006-01-02 15:04"),
		domainbilling.FormatAmount(inv.Totals.Total, inv.Currency),
		inv.Currency.Code,
	)
}

func main() {
	log := logger.New(logger.Config{Env: "development", Level: "warn"})

	var d *deps
	app := &cli.App{
		Name:  "facturactl",
		Usage: "gestiona el almacén local de facturas",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Usage: "ruta del archivo SQLite (por defecto, la configurada)"},
		},
		Before: func(c *cli.Context) error {
			var err error
			d, err = buildDeps(c.String("db"))
			return err
		},
		After: func(c *cli.Context) error {
			if d != nil {
				return d.db.Close()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "lista las facturas más recientes",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: appbilling.DefaultRecentLimit},
				},
				Action: func(c *cli.Context) error {
					list, err := d.invoiceUC.ListRecent(c.Context, c.Int("limit"))
					if err != nil {
						return err
					}
					for _, inv := range list {
						printInvoiceLine(inv)
					}
					return nil
				},
			},
			{
				Name:      "show",
				Usage:     "muestra una factura",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					inv, err := d.invoiceUC.Get(c.Context, c.Args().First())
					if err != nil {
						return err
					}
					printInvoiceLine(inv)
					fmt.Printf("  Emisor:   %s — %s\n", inv.Seller.Name, inv.Seller.Address)
					fmt.Printf("  Receptor: %s — %s\n", inv.Customer.Name, inv.Customer.Address)
					for _, it := range inv.Items {
						fmt.Printf("  %4d × %-40s %s\n", it.Qty, it.Name,
							domainbilling.FormatAmount(it.Price, inv.Currency))
					}
					fmt.Printf("  Subtotal %s  %s %s  Total %s\n",
						domainbilling.FormatAmount(inv.Totals.Subtotal, inv.Currency),
						inv.Tax.Label,
						domainbilling.FormatAmount(inv.Totals.TaxAmount, inv.Currency),
						domainbilling.FormatAmount(inv.Totals.Total, inv.Currency),
					)
					return nil
				},
			},
			{
				Name:      "duplicate",
				Usage:     "duplica una factura (ID nuevo, número limpio)",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					copyInv, err := d.invoiceUC.Duplicate(c.Context, c.Args().First())
					if err != nil {
						return err
					}
					printInvoiceLine(copyInv)
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "borra una factura (idempotente)",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					return d.invoiceUC.Delete(c.Context, c.Args().First())
				},
			},
			{
				Name:      "pdf",
				Usage:     "exporta la factura como Invoice_<número>.pdf",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Usage: "directorio de salida (por defecto, el configurado)"},
				},
				Action: func(c *cli.Context) error {
					dir := c.String("out")
					if dir == "" {
						dir = d.outputDir
					}
					path, err := d.pdfUC.SaveToDir(c.Context, c.Args().First(), dir)
					if err != nil {
						return err
					}
					fmt.Println(path)
					return nil
				},
			},
			{
				Name:      "share",
				Usage:     "imprime el resumen compartible",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					text, err := d.invoiceUC.Share(c.Context, c.Args().First())
					if err != nil {
						return err
					}
					fmt.Println(text)
					return nil
				},
			},
			{
				Name:  "watch",
				Usage: "re-lista cuando el contenido del almacén cambia",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: appbilling.DefaultRecentLimit},
					&cli.DurationFlag{Name: "interval", Value: 2 * time.Second, Usage: "período de sondeo"},
				},
				Action: func(c *cli.Context) error {
					ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
					defer stop()

					// El archivo lo escriben otros procesos (la API); el difusor
					// de cambios es local a cada proceso, así que aquí se sondea.
					last := ""
					relist := func() error {
						list, err := d.invoiceUC.ListRecent(ctx, c.Int("limit"))
						if err != nil {
							return err
						}
						fp := collectionFingerprint(list)
						if fp == last {
							return nil
						}
						last = fp
						fmt.Println("──")
						for _, inv := range list {
							printInvoiceLine(inv)
						}
						return nil
					}
					if err := relist(); err != nil {
						return err
					}

					ticker := time.NewTicker(c.Duration("interval"))
					defer ticker.Stop()
					for {
						select {
						case <-ctx.Done():
							return nil
						case <-ticker.C:
							if err := relist(); err != nil {
								return err
							}
						}
					}
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error().Err(err).Msg("comando fallido")
		os.Exit(1)
	}
}
