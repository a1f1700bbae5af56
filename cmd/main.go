package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KromaEnergia/api-departamento-pessoal/internal/armazenamento"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/config"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/notificacao"
)

var caminhoConfig string

func main() {
	if err := novoRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func novoRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dp",
		Short:         "API do departamento pessoal: colaboradores, empréstimos e folha mensal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          rodarServidor,
	}
	root.PersistentFlags().StringVar(&caminhoConfig, "config", "", "arquivo YAML de configuração (padrão: $CONFIG_PATH)")

	root.AddCommand(servirCmd(), exportarCmd(), importarCmd())
	return root
}

// ambiente é o que todo subcomando precisa: configuração, log, armazenamento
// e notificador, fechados juntos no fim.
type ambiente struct {
	cfg   *config.Config
	log   *slog.Logger
	arm   armazenamento.Armazenamento
	notif notificacao.Notificador
}

func abrirAmbiente() (*ambiente, error) {
	cfg, err := config.Load(caminhoConfig)
	if err != nil {
		return nil, err
	}
	log := config.InitLogger(cfg.LogLevel)

	arm, err := armazenamento.Abrir(cfg.Armazenamento, log)
	if err != nil {
		return nil, fmt.Errorf("abrir armazenamento: %w", err)
	}
	log.Info("storage_opened", "mode", cfg.Armazenamento.Modo)

	return &ambiente{
		cfg:   cfg,
		log:   log,
		arm:   arm,
		notif: notificacao.Novo(cfg.Notificacao, log),
	}, nil
}

func (a *ambiente) Close() {
	if err := a.notif.Close(); err != nil {
		a.log.Warn("notification_close_error", "err", err)
	}
	if err := a.arm.Close(); err != nil {
		a.log.Error("storage_close_error", "err", err)
	}
}
