package rotas

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/KromaEnergia/api-departamento-pessoal/internal/metricas"
)

type statusRW struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusRW) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRW) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// observar registra cada requisição no log e nas métricas. A rota é o
// template do mux (/api/colaboradores/{id}), não o caminho, para não
// explodir a cardinalidade dos rótulos.
func observar(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusRW{ResponseWriter: w}
		next.ServeHTTP(srw, r)
		if srw.status == 0 {
			srw.status = http.StatusOK
		}

		rota := "desconhecida"
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				rota = tpl
			}
		}
		dur := time.Since(start)

		metricas.Requisicoes.WithLabelValues(r.Method, rota, strconv.Itoa(srw.status)).Inc()
		metricas.DuracaoRequisicao.WithLabelValues(r.Method, rota).Observe(dur.Seconds())
		slog.Info("http_request",
			"method", r.Method, "path", r.URL.Path, "route", rota,
			"status", srw.status, "bytes", srw.bytes,
			"duration_ms", dur.Milliseconds(),
			"remote", r.RemoteAddr,
		)
	})
}
