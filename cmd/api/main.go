package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appbilling "github.com/jhoicas/factura-local/internal/application/billing"
	infrapdf "github.com/jhoicas/factura-local/internal/infrastructure/pdf"
	"github.com/jhoicas/factura-local/internal/infrastructure/sqlite"
	httpRouter "github.com/jhoicas/factura-local/internal/interfaces/http"
	"github.com/jhoicas/factura-local/pkg/config"
	"github.com/jhoicas/factura-local/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db", cfg.Store.Path()).
		Msg("iniciando aplicación")

	// Almacén local: apertura perezosa, el primer acceso crea y migra.
	db := sqlite.NewDB(cfg.Store.Path())
	defer db.Close()

	broadcaster := sqlite.NewBroadcaster()
	txRunner := sqlite.NewTxRunner(db)
	invoiceRepo := sqlite.NewLazyInvoiceRepository(db)

	saveUC := appbilling.NewSaveInvoiceUseCase(txRunner, broadcaster, cfg.Invoicing.Prefix)
	invoiceUC := appbilling.NewInvoiceUseCase(invoiceRepo, saveUC, broadcaster)

	previews := appbilling.NewPreviewStore(cfg.PDF.PreviewTTL())
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	pdfUC := appbilling.NewPDFUseCase(invoiceRepo, pdfGenerator, previews)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go previews.Run(ctx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SaveInvoice: saveUC,
		InvoiceUC:   invoiceUC,
		PDFUC:       pdfUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
