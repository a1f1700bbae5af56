// Package armazenamento persiste o grafo de colaboradores, empréstimos e
// lançamentos. Há duas estratégias intercambiáveis: um documento JSON único
// (Documento) e tabelas relacionais via gorm (Relacional).
//
// Nenhuma das duas coordena escritores concorrentes: cada operação lê o grafo,
// altera em memória e grava de volta. Com duas requisições simultâneas no modo
// documento, a última gravação vence e a outra alteração se perde.
package armazenamento

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KromaEnergia/api-departamento-pessoal/internal/config"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/metricas"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/models"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/utils/db"
)

// ErrFalhaArmazenamento marca erros de E/S ou de transação.
var ErrFalhaArmazenamento = errors.New("falha no armazenamento")

// ResultadoExclusao informa quantos dependentes saíram junto com o colaborador.
type ResultadoExclusao struct {
	EmprestimosRemovidos int `json:"emprestimosRemovidos"`
	LancamentosRemovidos int `json:"lancamentosRemovidos"`
}

// Armazenamento é o contrato comum às duas estratégias.
type Armazenamento interface {
	// Carregar devolve o grafo completo. O chamador pode alterá-lo livremente.
	Carregar(ctx context.Context) (*models.Dados, error)
	// Salvar grava o grafo inteiro, substituindo o estado anterior.
	Salvar(ctx context.Context, dados *models.Dados) error
	// ExcluirColaborador remove o colaborador, seus empréstimos e seus
	// lançamentos de uma vez.
	ExcluirColaborador(ctx context.Context, id string) (ResultadoExclusao, error)
	// Substituir apaga tudo e insere exatamente o grafo recebido, sem validar.
	Substituir(ctx context.Context, dados *models.Dados) error
	Close() error
}

// Abrir cria a estratégia indicada na configuração.
func Abrir(cfg config.Armazenamento, log *slog.Logger) (Armazenamento, error) {
	switch cfg.Modo {
	case config.ModoDocumento:
		d, err := NewDocumento(cfg.ArquivoDados, log)
		if err != nil {
			return nil, err
		}
		return d, nil
	case config.ModoRelacional:
		dialector, err := db.Dialector(cfg.Banco)
		if err != nil {
			return nil, err
		}
		conn, err := db.ConnectDataBase(dialector)
		if err != nil {
			return nil, err
		}
		r, err := NewRelacional(conn)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("modo de armazenamento desconhecido: %q", cfg.Modo)
	}
}

func falha(operacao string, err error) error {
	metricas.Falhas.WithLabelValues(operacao).Inc()
	return fmt.Errorf("%w: %s: %w", ErrFalhaArmazenamento, operacao, err)
}
