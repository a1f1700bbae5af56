// Package armazenamentotest abre as duas estratégias de armazenamento em
// diretórios temporários para os testes dos serviços.
package armazenamentotest

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/KromaEnergia/api-departamento-pessoal/internal/armazenamento"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/config"
)

// Logger descarta tudo.
var Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Novo abre a estratégia do modo informado em t.TempDir() e a fecha no fim
// do teste. O modo relacional usa SQLite.
func Novo(t *testing.T, modo string) armazenamento.Armazenamento {
	t.Helper()
	dir := t.TempDir()
	a, err := armazenamento.Abrir(config.Armazenamento{
		Modo:         modo,
		ArquivoDados: filepath.Join(dir, "dados.json"),
		Banco: config.Banco{
			Driver:  config.DriverSQLite,
			Caminho: filepath.Join(dir, "dp.db"),
		},
	}, Logger)
	if err != nil {
		t.Fatalf("abrir armazenamento %s: %v", modo, err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// Modos lista as estratégias que todo teste de serviço deve cobrir.
var Modos = []string{config.ModoDocumento, config.ModoRelacional}
