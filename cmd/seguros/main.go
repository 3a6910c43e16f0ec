package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/rafabene/seguros-backoffice/internal/application"
	"github.com/rafabene/seguros-backoffice/internal/cli"
	"github.com/rafabene/seguros-backoffice/internal/domain/ports"
	"github.com/rafabene/seguros-backoffice/internal/infrastructure/config"
	"github.com/rafabene/seguros-backoffice/internal/infrastructure/logging"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("seguros", "Back-office de seguros: clientes, apólices, sinistros e relatórios")
	envFile := kingpinApp.Flag("env-file", "Arquivo .env carregado antes do ambiente").Default(".env").String()
	lang := kingpinApp.Flag("lang", "Idioma das mensagens (pt-BR, en)").String()

	menuCmd := kingpinApp.Command("menu", "Menu interativo").Default()

	setupCmd := kingpinApp.Command("setup", "Cria tabelas, coleções, índices e o usuário admin")

	exportCmd := kingpinApp.Command("export", "Exporta relatórios para o diretório de exportação")
	exportReport := exportCmd.Flag("report", "Relatório a exportar; vazio exporta todas as entidades").String()
	exportFormat := exportCmd.Flag("format", "Formato da exportação").Default("csv").Enum("csv", "json")

	auditCmd := kingpinApp.Command("audit", "Consulta o log de auditoria")
	auditLimit := auditCmd.Flag("limit", "Quantidade de entradas").Default(fmt.Sprint(cli.DefaultAuditLimit)).Int()
	auditRecentCmd := auditCmd.Command("recent", "Últimas entradas").Default()
	auditUserCmd := auditCmd.Command("user", "Entradas de um usuário")
	auditUser := auditUserCmd.Arg("username", "Usuário").Required().String()
	auditEntityCmd := auditCmd.Command("entity", "Entradas de uma entidade")
	auditEntity := auditEntityCmd.Arg("entity", "Entidade (cliente, seguro, apolice, sinistro...)").Required().String()
	auditStatsCmd := auditCmd.Command("stats", "Estatísticas do log")
	auditProfilesCmd := auditCmd.Command("profiles", "Perfis de clientes")

	importCmd := kingpinApp.Command("import-json", "Importa os arquivos JSON legados")
	importDir := importCmd.Flag("dir", "Diretório com clientes.json, seguros.json, apolices.json e sinistros.json").Default(".").String()

	serveCmd := kingpinApp.Command("serve", "API HTTP de consulta (relatórios e auditoria)")

	command := kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *lang != "" {
		cfg.Language = *lang
	}

	logger, err := logging.NewZapLogger(cfg.Logging.Level, cfg.Logging.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// os.Exit por último, depois de fechar as conexões
	exitCode := 0
	defer func() { os.Exit(exitCode) }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := application.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		exitCode = 1
		return
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Close(closeCtx); err != nil {
			logger.Warn("shutdown finished with errors", "error", err)
		}
	}()

	tr := app.I18n.For(cfg.Language)
	batch := cli.NewBatch(os.Stdout, tr, app.CLIServices(), app.Imports, logger)
	viewer := cli.NewViewer(os.Stdout, tr, app.Audit, app.Profiles)

	if app.UsingFallback() && command != setupCmd.FullCommand() {
		fmt.Fprintln(os.Stderr, tr.T("cli.document_store_fallback", map[string]any{"Path": app.AuditFilePath()}))
	}

	switch command {
	case menuCmd.FullCommand():
		err = cli.New(os.Stdin, os.Stdout, tr, app.CLIServices(), logger).Run(ctx)
	case setupCmd.FullCommand():
		var report *application.SetupReport
		if report, err = app.Setup(ctx); err == nil {
			batch.PrintSetup(report.Collections != nil, report.AdminCreated, app.AuditFilePath())
		}
	case exportCmd.FullCommand():
		err = batch.Export(ctx, *exportReport, *exportFormat)
	case auditRecentCmd.FullCommand():
		err = viewer.Recent(ctx, *auditLimit)
	case auditUserCmd.FullCommand():
		err = viewer.ByUser(ctx, *auditUser, *auditLimit)
	case auditEntityCmd.FullCommand():
		err = viewer.ByEntity(ctx, *auditEntity, *auditLimit)
	case auditStatsCmd.FullCommand():
		err = viewer.Stats(ctx)
	case auditProfilesCmd.FullCommand():
		err = viewer.Profiles(ctx)
	case importCmd.FullCommand():
		err = batch.Import(ctx, *importDir)
	case serveCmd.FullCommand():
		err = serve(app, logger)
	}

	if err != nil {
		logger.Error("command failed", "command", command, "error", err)
		exitCode = 1
	}
}

func serve(app *application.App, logger ports.Logger) error {
	cfg := app.Config
	if cfg.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required to serve the API")
	}

	srv := &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           app.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			"host", cfg.Server.Host,
			"port", cfg.Server.Port,
			"archive", app.ArchiveURI(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", "error", err)
		if closeErr := srv.Close(); closeErr != nil {
			logger.Error("forced close failed", "error", closeErr)
		}
	}

	logger.Info("server exited")
	return nil
}
