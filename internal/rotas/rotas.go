// Package rotas monta o roteador HTTP da API.
package rotas

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/KromaEnergia/api-departamento-pessoal/internal/backup"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/colaborador"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/lancamento"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/relatorio"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/utils"
)

// Handlers reúne os handlers de cada recurso.
type Handlers struct {
	Colaboradores *colaborador.Handler
	Lancamentos   *lancamento.Handler
	Relatorios    *relatorio.Handler
	Backup        *backup.Handler
}

// NewRouter registra todas as rotas e envolve o roteador com CORS, log e
// métricas.
func NewRouter(h Handlers, origens []string) http.Handler {
	r := mux.NewRouter()
	r.Use(observar)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.EscreverJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	h.Colaboradores.Registrar(r)
	h.Lancamentos.Registrar(r)
	h.Relatorios.Registrar(r)
	h.Backup.Registrar(r)

	r.NotFoundHandler = observar(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.EscreverErro(w, http.StatusNotFound, "rota não encontrada")
	}))
	r.MethodNotAllowedHandler = observar(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.EscreverErro(w, http.StatusMethodNotAllowed, "método não permitido")
	}))

	c := cors.New(cors.Options{
		AllowedOrigins: origens,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(r)
}
