package lancamento

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/KromaEnergia/api-departamento-pessoal/internal/utils"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

// Registrar monta as rotas em r.
func (h *Handler) Registrar(r *mux.Router) {
	r.HandleFunc("/api/lancamentos", h.Listar).Methods(http.MethodGet)
	r.HandleFunc("/api/lancamentos", h.Criar).Methods(http.MethodPost)
	r.HandleFunc("/api/lancamentos/{id}", h.Buscar).Methods(http.MethodGet)
	r.HandleFunc("/api/lancamentos/{id}", h.Atualizar).Methods(http.MethodPut)
	r.HandleFunc("/api/lancamentos/{id}", h.Excluir).Methods(http.MethodDelete)
	r.HandleFunc("/api/lancamentos/{id}/finalizar", h.Finalizar).Methods(http.MethodPost, http.MethodPut)
	r.HandleFunc("/api/lancamentos/{id}/reabrir", h.Reabrir).Methods(http.MethodPost, http.MethodPut)
}

// Listar aceita ?mes=&colaboradorId=&status=.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lista, err := h.Service.Listar(r.Context(), Filtro{
		Mes:           strings.TrimSpace(q.Get("mes")),
		ColaboradorID: strings.TrimSpace(q.Get("colaboradorId")),
		Status:        strings.TrimSpace(q.Get("status")),
	})
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.EscreverJSON(w, http.StatusOK, lista)
}

func (h *Handler) Buscar(w http.ResponseWriter, r *http.Request) {
	l, err := h.Service.Buscar(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.EscreverJSON(w, http.StatusOK, l)
}

// Criar cria o lançamento; com id no corpo, edita (o formulário usa POST
// para as duas coisas).
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var in Entrada
	if err := utils.DecodificarJSON(r.Body, &in); err != nil {
		utils.EscreverErro(w, http.StatusBadRequest, "payload inválido")
		return
	}

	if id := strings.TrimSpace(in.ID); id != "" {
		l, err := h.Service.Atualizar(r.Context(), id, in)
		if err != nil {
			utils.ResponderErro(w, r, err)
			return
		}
		utils.EscreverJSON(w, http.StatusOK, l)
		return
	}

	l, err := h.Service.Criar(r.Context(), in)
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.EscreverJSON(w, http.StatusCreated, l)
}

func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	var in Entrada
	if err := utils.DecodificarJSON(r.Body, &in); err != nil {
		utils.EscreverErro(w, http.StatusBadRequest, "payload inválido")
		return
	}
	l, err := h.Service.Atualizar(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.EscreverJSON(w, http.StatusOK, l)
}

func (h *Handler) Finalizar(w http.ResponseWriter, r *http.Request) {
	l, err := h.Service.Finalizar(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.EscreverJSON(w, http.StatusOK, l)
}

func (h *Handler) Reabrir(w http.ResponseWriter, r *http.Request) {
	l, err := h.Service.Reabrir(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.EscreverJSON(w, http.StatusOK, l)
}

func (h *Handler) Excluir(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Excluir(r.Context(), mux.Vars(r)["id"]); err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.EscreverJSON(w, http.StatusOK, Mensagem{Mensagem: "Lançamento excluído com sucesso"})
}
