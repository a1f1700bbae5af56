// Package relatorio calcula os números do painel a partir do grafo gravado.
package relatorio

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/KromaEnergia/api-departamento-pessoal/internal/armazenamento"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/models"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/utils"
)

// Dashboard é o resumo exibido na página inicial.
type Dashboard struct {
	TotalColaboradores     int     `json:"totalColaboradores"`
	LancamentosAbertos     int     `json:"lancamentosAbertos"`
	LancamentosFinalizados int     `json:"lancamentosFinalizados"`
	TotalPagoMesAtual      float64 `json:"totalPagoMesAtual"`
	MesAtual               string  `json:"mesAtual"`
}

type Service struct {
	Armazenamento armazenamento.Armazenamento
	Agora         func() time.Time
}

func NewService(a armazenamento.Armazenamento) *Service {
	return &Service{Armazenamento: a, Agora: time.Now}
}

// Dashboard recalcula tudo a cada chamada. O mês atual segue o fuso local
// do servidor.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	dados, err := s.Armazenamento.Carregar(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	mes := s.Agora().Local().Format(models.LayoutMes)
	out := Dashboard{
		TotalColaboradores: len(dados.Colaboradores),
		MesAtual:           mes,
	}

	total := decimal.Zero
	for _, l := range dados.Lancamentos {
		switch l.Status {
		case models.StatusAberto:
			out.LancamentosAbertos++
		case models.StatusFinalizado:
			out.LancamentosFinalizados++
		}
		if l.Mes == mes {
			total = total.Add(decimal.NewFromFloat(l.LiquidoTotal))
		}
	}
	out.TotalPagoMesAtual = total.InexactFloat64()
	return out, nil
}

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

func (h *Handler) Registrar(r *mux.Router) {
	r.HandleFunc("/api/relatorios/dashboard", h.Dashboard).Methods(http.MethodGet)
	r.HandleFunc("/api/relatorios/resumo", h.Resumo).Methods(http.MethodGet)
	r.HandleFunc("/api/relatorios/lancamentos.csv", h.CSV).Methods(http.MethodGet)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Service.Dashboard(r.Context())
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.EscreverJSON(w, http.StatusOK, d)
}

func (h *Handler) Resumo(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.Service.Resumo(r.Context(), q.Get("mes"), q.Get("colaboradorId"))
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.EscreverJSON(w, http.StatusOK, res)
}

// CSV monta o arquivo inteiro antes de responder para que um erro ainda
// possa sair como JSON.
func (h *Handler) CSV(w http.ResponseWriter, r *http.Request) {
	mes := r.URL.Query().Get("mes")
	var buf bytes.Buffer
	if _, err := h.Service.EscreverCSV(r.Context(), mes, &buf); err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	nome, _ := NomeArquivoCSV(mes)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+nome+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
