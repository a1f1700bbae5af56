// Package backup exporta e restaura o grafo completo. A restauração é o
// caminho de recuperação do operador: não passa por nenhuma validação do
// cadastro (CPF único, lançamento único por mês, colaborador existente).
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/KromaEnergia/api-departamento-pessoal/internal/armazenamento"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/models"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/notificacao"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/utils"
)

type Service struct {
	Armazenamento armazenamento.Armazenamento
	Notificador   notificacao.Notificador
	Log           *slog.Logger
	NovoID        func() string
}

func NewService(a armazenamento.Armazenamento, n notificacao.Notificador, log *slog.Logger) *Service {
	if n == nil {
		n = notificacao.Nenhum{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{Armazenamento: a, Notificador: n, Log: log, NovoID: utils.NovoID}
}

func (s *Service) Exportar(ctx context.Context) (*models.Dados, error) {
	return s.Armazenamento.Carregar(ctx)
}

// Restaurar apaga tudo e grava exatamente o grafo recebido, com os ids como
// vieram. Empréstimos são religados ao colaborador que os contém; os que
// chegam sem id recebem um novo.
func (s *Service) Restaurar(ctx context.Context, dados *models.Dados) error {
	if dados == nil {
		return fmt.Errorf("%w: backup vazio", models.ErrDadosInvalidos)
	}
	dados.Normalizar()
	for i := range dados.Colaboradores {
		for j := range dados.Colaboradores[i].Emprestimos {
			if dados.Colaboradores[i].Emprestimos[j].ID == "" {
				dados.Colaboradores[i].Emprestimos[j].ID = s.NovoID()
			}
		}
	}

	if err := s.Armazenamento.Substituir(ctx, dados); err != nil {
		return err
	}

	s.Log.Warn("dados_restaurados",
		"colaboradores", len(dados.Colaboradores),
		"lancamentos", len(dados.Lancamentos),
	)
	notificacao.Disparar(ctx, s.Notificador, s.Log, notificacao.Evento{
		Tipo:     notificacao.EventoDadosRestaurados,
		Mensagem: "Base restaurada a partir de backup",
		Dados: map[string]any{
			"colaboradores": len(dados.Colaboradores),
			"lancamentos":   len(dados.Lancamentos),
		},
	})
	return nil
}

// Escrever grava o backup em w, indentado.
func (s *Service) Escrever(ctx context.Context, w io.Writer) error {
	dados, err := s.Exportar(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dados)
}

// Ler restaura a partir de um backup em r.
func (s *Service) Ler(ctx context.Context, r io.Reader) error {
	var dados models.Dados
	if err := utils.DecodificarJSON(r, &dados); err != nil {
		return fmt.Errorf("%w: backup ilegível: %v", models.ErrDadosInvalidos, err)
	}
	return s.Restaurar(ctx, &dados)
}

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

func (h *Handler) Registrar(r *mux.Router) {
	r.HandleFunc("/api/backup", h.Exportar).Methods(http.MethodGet)
	r.HandleFunc("/api/dados", h.Exportar).Methods(http.MethodGet)
	r.HandleFunc("/api/restaurar", h.Restaurar).Methods(http.MethodPost)
}

func (h *Handler) Exportar(w http.ResponseWriter, r *http.Request) {
	dados, err := h.Service.Exportar(r.Context())
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.EscreverJSON(w, http.StatusOK, dados)
}

func (h *Handler) Restaurar(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Ler(r.Context(), r.Body); err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.EscreverJSON(w, http.StatusOK, map[string]string{"mensagem": "Dados restaurados com sucesso"})
}
