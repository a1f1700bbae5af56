package lancamento

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/KromaEnergia/api-departamento-pessoal/internal/armazenamento"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/models"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/notificacao"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/utils"
)

// Service mantém a folha mensal: no máximo um lançamento por colaborador e
// mês, editável só enquanto aberto.
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

// Listar aplica o filtro e anota nome e CPF do colaborador quando ele ainda
// existe. A ordem é mês, depois criação.
func (s *Service) Listar(ctx context.Context, f Filtro) ([]models.Lancamento, error) {
	dados, err := s.Armazenamento.Carregar(ctx)
	if err != nil {
		return nil, err
	}

	porID := make(map[string]*models.Colaborador, len(dados.Colaboradores))
	for i := range dados.Colaboradores {
		porID[dados.Colaboradores[i].ID] = &dados.Colaboradores[i]
	}

	out := []models.Lancamento{}
	for _, l := range dados.Lancamentos {
		if !f.aceita(l) {
			continue
		}
		if c, ok := porID[l.ColaboradorID]; ok {
			l.ColaboradorNome = c.Nome
			l.ColaboradorCPF = c.CPF
		}
		out = append(out, l)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Mes != b.Mes {
			return a.Mes < b.Mes
		}
		if !a.DataCriacao.Equal(b.DataCriacao) {
			return a.DataCriacao.Before(b.DataCriacao)
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (s *Service) Buscar(ctx context.Context, id string) (*models.Lancamento, error) {
	dados, err := s.Armazenamento.Carregar(ctx)
	if err != nil {
		return nil, err
	}
	idx := dados.IndiceLancamento(id)
	if idx < 0 {
		return nil, models.ErrLancamentoNaoEncontrado
	}
	return &dados.Lancamentos[idx], nil
}

// Criar abre um lançamento. O colaborador precisa existir e não pode ter
// outro lançamento no mesmo mês.
func (s *Service) Criar(ctx context.Context, in Entrada) (*models.Lancamento, error) {
	colaboradorID := strings.TrimSpace(in.ColaboradorID)
	mes := strings.TrimSpace(in.Mes)
	if colaboradorID == "" {
		return nil, fmt.Errorf("%w: colaboradorId é obrigatório", models.ErrDadosInvalidos)
	}
	if _, err := models.ParseMes(mes); err != nil {
		return nil, err
	}

	dados, err := s.Armazenamento.Carregar(ctx)
	if err != nil {
		return nil, err
	}
	if dados.IndiceColaborador(colaboradorID) < 0 {
		return nil, models.ErrColaboradorInexistente
	}
	if ocupado(dados, colaboradorID, mes, "") {
		return nil, models.ErrLancamentoDuplicado
	}

	l := models.Lancamento{
		ID:            s.NovoID(),
		ColaboradorID: colaboradorID,
		Mes:           mes,
		Status:        models.StatusAberto,
		DataCriacao:   s.Agora(),
	}
	in.aplicarValores(&l)

	dados.Lancamentos = append(dados.Lancamentos, l)
	if err := s.Armazenamento.Salvar(ctx, dados); err != nil {
		return nil, err
	}
	s.Log.Info("lancamento_criado", "id", l.ID, "colaborador_id", l.ColaboradorID, "mes", l.Mes)
	return &l, nil
}

// Atualizar substitui os valores do lançamento. Finalizado só aceita edição
// com Reabrir. Trocar colaborador ou mês revalida a existência do colaborador
// e a unicidade do par.
func (s *Service) Atualizar(ctx context.Context, id string, in Entrada) (*models.Lancamento, error) {
	dados, err := s.Armazenamento.Carregar(ctx)
	if err != nil {
		return nil, err
	}
	idx := dados.IndiceLancamento(id)
	if idx < 0 {
		return nil, models.ErrLancamentoNaoEncontrado
	}
	l := dados.Lancamentos[idx]

	if l.Status == models.StatusFinalizado && !in.Reabrir {
		return nil, models.ErrLancamentoFinalizado
	}

	status := strings.TrimSpace(in.Status)
	if status != "" && status != models.StatusAberto && status != models.StatusFinalizado {
		return nil, fmt.Errorf("%w: status %q desconhecido", models.ErrDadosInvalidos, status)
	}

	colaboradorID := strings.TrimSpace(in.ColaboradorID)
	if colaboradorID == "" {
		colaboradorID = l.ColaboradorID
	}
	mes := strings.TrimSpace(in.Mes)
	if mes == "" {
		mes = l.Mes
	}
	if colaboradorID != l.ColaboradorID || mes != l.Mes {
		if _, err := models.ParseMes(mes); err != nil {
			return nil, err
		}
		if dados.IndiceColaborador(colaboradorID) < 0 {
			return nil, models.ErrColaboradorInexistente
		}
		if ocupado(dados, colaboradorID, mes, l.ID) {
			return nil, models.ErrLancamentoDuplicado
		}
	}

	agora := s.Agora()
	l.ColaboradorID = colaboradorID
	l.Mes = mes
	in.aplicarValores(&l)
	l.DataAtualizacao = &agora
	if status != "" && status != l.Status {
		transicionar(&l, status, agora)
	}

	dados.Lancamentos[idx] = l
	if err := s.Armazenamento.Salvar(ctx, dados); err != nil {
		return nil, err
	}
	s.Log.Info("lancamento_atualizado", "id", l.ID, "status", l.Status, "reabrir", in.Reabrir)
	return &l, nil
}

// Finalizar fecha o lançamento. Repetir só renova o carimbo de finalização.
func (s *Service) Finalizar(ctx context.Context, id string) (*models.Lancamento, error) {
	l, err := s.mudarStatus(ctx, id, models.StatusFinalizado)
	if err != nil {
		return nil, err
	}
	notificacao.Disparar(ctx, s.Notificador, s.Log, notificacao.Evento{
		Tipo:     notificacao.EventoLancamentoFinalizado,
		Mensagem: "Lançamento finalizado",
		Dados: map[string]any{
			"lancamentoId":  l.ID,
			"colaboradorId": l.ColaboradorID,
			"mes":           l.Mes,
			"liquidoTotal":  l.LiquidoTotal,
		},
	})
	return l, nil
}

// Reabrir devolve o lançamento ao estado aberto.
func (s *Service) Reabrir(ctx context.Context, id string) (*models.Lancamento, error) {
	return s.mudarStatus(ctx, id, models.StatusAberto)
}

func (s *Service) mudarStatus(ctx context.Context, id, status string) (*models.Lancamento, error) {
	dados, err := s.Armazenamento.Carregar(ctx)
	if err != nil {
		return nil, err
	}
	idx := dados.IndiceLancamento(id)
	if idx < 0 {
		return nil, models.ErrLancamentoNaoEncontrado
	}

	l := &dados.Lancamentos[idx]
	transicionar(l, status, s.Agora())
	if err := s.Armazenamento.Salvar(ctx, dados); err != nil {
		return nil, err
	}
	s.Log.Info("lancamento_status", "id", id, "status", status)
	out := *l
	return &out, nil
}

func (s *Service) Excluir(ctx context.Context, id string) error {
	dados, err := s.Armazenamento.Carregar(ctx)
	if err != nil {
		return err
	}
	idx := dados.IndiceLancamento(id)
	if idx < 0 {
		return models.ErrLancamentoNaoEncontrado
	}
	dados.Lancamentos = append(dados.Lancamentos[:idx], dados.Lancamentos[idx+1:]...)
	if err := s.Armazenamento.Salvar(ctx, dados); err != nil {
		return err
	}
	s.Log.Info("lancamento_excluido", "id", id)
	return nil
}

func transicionar(l *models.Lancamento, status string, quando time.Time) {
	l.Status = status
	if status == models.StatusFinalizado {
		l.DataFinalizacao = &quando
	} else {
		l.DataReabertura = &quando
	}
}

// ocupado informa se já há lançamento do colaborador no mês, fora ignorar.
func ocupado(dados *models.Dados, colaboradorID, mes, ignorar string) bool {
	for _, l := range dados.Lancamentos {
		if l.ID != ignorar && l.ColaboradorID == colaboradorID && l.Mes == mes {
			return true
		}
	}
	return false
}
