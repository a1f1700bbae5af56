package colaborador

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/KromaEnergia/api-departamento-pessoal/internal/armazenamento"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/emprestimo"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/models"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/notificacao"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/utils"
)

// Service concentra as regras do cadastro de colaboradores.
type Service struct {
	Armazenamento armazenamento.Armazenamento
	Notificador   notificacao.Notificador
	Log           *slog.Logger
	Agora         func() time.Time
	NovoID        func() string
}

func NewService(a armazenamento.Armazenamento, n notificacao.Notificador, log *slog.Logger) *Service {
	if n == nil {
		n = notificacao.Nenhum{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		Armazenamento: a,
		Notificador:   n,
		Log:           log,
		Agora:         utils.Agora,
		NovoID:        utils.NovoID,
	}
}

// Listar devolve os colaboradores em ordem de cadastro.
func (s *Service) Listar(ctx context.Context) ([]models.Colaborador, error) {
	dados, err := s.Armazenamento.Carregar(ctx)
	if err != nil {
		return nil, err
	}
	out := dados.Colaboradores
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DataCadastro.Before(out[j].DataCadastro)
	})
	return out, nil
}

func (s *Service) Buscar(ctx context.Context, id string) (*models.Colaborador, error) {
	dados, err := s.Armazenamento.Carregar(ctx)
	if err != nil {
		return nil, err
	}
	idx := dados.IndiceColaborador(id)
	if idx < 0 {
		return nil, models.ErrColaboradorNaoEncontrado
	}
	return &dados.Colaboradores[idx], nil
}

// Salvar cria (id vazio) ou edita (id existente) um colaborador. A edição
// substitui todos os campos e concilia os empréstimos com os enviados.
// O booleano indica se houve criação.
func (s *Service) Salvar(ctx context.Context, in Entrada) (*models.Colaborador, bool, error) {
	in.ID = strings.TrimSpace(in.ID)
	cpf := strings.TrimSpace(in.CPF)
	if strings.TrimSpace(in.Nome) == "" {
		return nil, false, fmt.Errorf("%w: nome é obrigatório", models.ErrDadosInvalidos)
	}
	if cpf == "" {
		return nil, false, fmt.Errorf("%w: cpf é obrigatório", models.ErrDadosInvalidos)
	}

	dados, err := s.Armazenamento.Carregar(ctx)
	if err != nil {
		return nil, false, err
	}

	idx := -1
	if in.ID != "" {
		idx = dados.IndiceColaborador(in.ID)
		if idx < 0 {
			return nil, false, models.ErrColaboradorNaoEncontrado
		}
	}

	for _, c := range dados.Colaboradores {
		if strings.TrimSpace(c.CPF) == cpf && c.ID != in.ID {
			notificacao.Disparar(ctx, s.Notificador, s.Log, notificacao.Evento{
				Tipo:     notificacao.EventoCPFDuplicado,
				Mensagem: "Tentativa de cadastro com CPF já existente",
				Dados:    map[string]any{"cpf": cpf, "colaboradorId": c.ID},
			})
			return nil, false, models.ErrCPFDuplicado
		}
	}

	agora := s.Agora()
	criado := idx < 0
	var c models.Colaborador
	if criado {
		c = models.Colaborador{ID: s.NovoID(), DataCadastro: agora}
	} else {
		c = dados.Colaboradores[idx]
		c.DataAtualizacao = &agora
	}
	in.aplicar(&c)

	plano := emprestimo.Reconciliar(c.ID, c.Emprestimos, in.Emprestimos, s.NovoID)
	c.Emprestimos = plano.Aplicar()

	if criado {
		dados.Colaboradores = append(dados.Colaboradores, c)
	} else {
		dados.Colaboradores[idx] = c
	}
	if err := s.Armazenamento.Salvar(ctx, dados); err != nil {
		return nil, false, err
	}

	s.Log.Info("colaborador_salvo",
		"id", c.ID,
		"criado", criado,
		"emprestimos_criados", len(plano.Criar),
		"emprestimos_atualizados", len(plano.Atualizar),
		"emprestimos_excluidos", len(plano.Excluir),
	)
	return &c, criado, nil
}

// Excluir remove o colaborador junto com empréstimos e lançamentos.
func (s *Service) Excluir(ctx context.Context, id string) (armazenamento.ResultadoExclusao, error) {
	res, err := s.Armazenamento.ExcluirColaborador(ctx, id)
	if err != nil {
		return res, err
	}

	s.Log.Info("colaborador_excluido",
		"id", id,
		"emprestimos_removidos", res.EmprestimosRemovidos,
		"lancamentos_removidos", res.LancamentosRemovidos,
	)
	notificacao.Disparar(ctx, s.Notificador, s.Log, notificacao.Evento{
		Tipo:     notificacao.EventoColaboradorExcluido,
		Mensagem: "Colaborador excluído",
		Dados: map[string]any{
			"colaboradorId":        id,
			"emprestimosRemovidos": res.EmprestimosRemovidos,
			"lancamentosRemovidos": res.LancamentosRemovidos,
		},
	})
	return res, nil
}

// ParcelasDoMes soma as parcelas de empréstimo do colaborador que vencem em
// mes (YYYY-MM).
func (s *Service) ParcelasDoMes(ctx context.Context, id, mes string) (emprestimo.ParcelasMes, error) {
	c, err := s.Buscar(ctx, id)
	if err != nil {
		return emprestimo.ParcelasMes{}, err
	}
	return emprestimo.ParcelasDoMes(c.Emprestimos, mes)
}
