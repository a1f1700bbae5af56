package colaborador

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/KromaEnergia/api-departamento-pessoal/internal/utils"
)

// Handler expõe o cadastro de colaboradores via HTTP.
type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

// Registrar monta as rotas em r.
func (h *Handler) Registrar(r *mux.Router) {
	r.HandleFunc("/api/colaboradores", h.Listar).Methods(http.MethodGet)
	r.HandleFunc("/api/colaboradores", h.Salvar).Methods(http.MethodPost)
	r.HandleFunc("/api/colaboradores/{id}", h.Buscar).Methods(http.MethodGet)
	r.HandleFunc("/api/colaboradores/{id}", h.Atualizar).Methods(http.MethodPut)
	r.HandleFunc("/api/colaboradores/{id}", h.Excluir).Methods(http.MethodDelete)
	r.HandleFunc("/api/colaboradores/{id}/emprestimos/parcelas", h.Parcelas).Methods(http.MethodGet)
}

func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	lista, err := h.Service.Listar(r.Context())
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.EscreverJSON(w, http.StatusOK, lista)
}

func (h *Handler) Buscar(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.Buscar(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.EscreverJSON(w, http.StatusOK, c)
}

// Salvar cria ou edita conforme o id do corpo.
func (h *Handler) Salvar(w http.ResponseWriter, r *http.Request) {
	var in Entrada
	if err := utils.DecodificarJSON(r.Body, &in); err != nil {
		utils.EscreverErro(w, http.StatusBadRequest, "payload inválido")
		return
	}
	h.salvar(w, r, in)
}

// Atualizar edita o colaborador do caminho; o id do corpo é ignorado.
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	var in Entrada
	if err := utils.DecodificarJSON(r.Body, &in); err != nil {
		utils.EscreverErro(w, http.StatusBadRequest, "payload inválido")
		return
	}
	in.ID = mux.Vars(r)["id"]
	h.salvar(w, r, in)
}

func (h *Handler) salvar(w http.ResponseWriter, r *http.Request, in Entrada) {
	c, criado, err := h.Service.Salvar(r.Context(), in)
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	code := http.StatusOK
	if criado {
		code = http.StatusCreated
	}
	utils.EscreverJSON(w, code, c)
}

func (h *Handler) Excluir(w http.ResponseWriter, r *http.Request) {
	res, err := h.Service.Excluir(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.EscreverJSON(w, http.StatusOK, RespostaExclusao{
		Mensagem:             "Colaborador excluído com sucesso",
		EmprestimosRemovidos: res.EmprestimosRemovidos,
		LancamentosRemovidos: res.LancamentosRemovidos,
	})
}

// Parcelas responde as parcelas de empréstimo do mês (?mes=YYYY-MM).
func (h *Handler) Parcelas(w http.ResponseWriter, r *http.Request) {
	res, err := h.Service.ParcelasDoMes(r.Context(), mux.Vars(r)["id"], r.URL.Query().Get("mes"))
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.EscreverJSON(w, http.StatusOK, res)
}
