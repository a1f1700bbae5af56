package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KromaEnergia/api-departamento-pessoal/internal/backup"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/colaborador"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/lancamento"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/relatorio"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/rotas"
)

func servirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "servir",
		Short: "Sobe a API HTTP (comando padrão)",
		Args:  cobra.NoArgs,
		RunE:  rodarServidor,
	}
}

func rodarServidor(cmd *cobra.Command, _ []string) error {
	amb, err := abrirAmbiente()
	if err != nil {
		return err
	}
	defer amb.Close()

	handler := rotas.NewRouter(rotas.Handlers{
		Colaboradores: colaborador.NewHandler(colaborador.NewService(amb.arm, amb.notif, amb.log)),
		Lancamentos:   lancamento.NewHandler(lancamento.NewService(amb.arm, amb.notif, amb.log)),
		Relatorios:    relatorio.NewHandler(relatorio.NewService(amb.arm)),
		Backup:        backup.NewHandler(backup.NewService(amb.arm, amb.notif, amb.log)),
	}, amb.cfg.OrigensCORS)

	srv := &http.Server{
		Addr:              ":" + amb.cfg.Porta,
		Handler:           handler,
		ReadHeaderTimeout: amb.cfg.ReadHeaderTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	erros := make(chan error, 1)
	go func() {
		amb.log.Info("http_listen", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			erros <- err
		}
		close(erros)
	}()

	select {
	case err := <-erros:
		if err != nil {
			amb.log.Error("http_server_error", "err", err)
			return err
		}
	case <-ctx.Done():
	}

	amb.log.Info("shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), amb.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		amb.log.Error("http_shutdown_error", "err", err)
		return err
	}
	amb.log.Info("stopped")
	return nil
}
