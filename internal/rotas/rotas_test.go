package rotas

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/KromaEnergia/api-departamento-pessoal/internal/armazenamento/armazenamentotest"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/backup"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/colaborador"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/config"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/lancamento"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/relatorio"
)

func novoServidor(t *testing.T, origens []string) http.Handler {
	t.Helper()
	a := armazenamentotest.Novo(t, config.ModoDocumento)
	log := armazenamentotest.Logger
	return NewRouter(Handlers{
		Colaboradores: colaborador.NewHandler(colaborador.NewService(a, nil, log)),
		Lancamentos:   lancamento.NewHandler(lancamento.NewService(a, nil, log)),
		Relatorios:    relatorio.NewHandler(relatorio.NewService(a)),
		Backup:        backup.NewHandler(backup.NewService(a, nil, log)),
	}, origens)
}

func fazer(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h := novoServidor(t, []string{"*"})
	rec := fazer(t, h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("status=%d body=%s", rec.Code, rec.Body)
	}
}

func TestMetricas_RotuloPorTemplate(t *testing.T) {
	h := novoServidor(t, []string{"*"})
	fazer(t, h, http.MethodGet, "/api/colaboradores/abc", "")

	rec := fazer(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `dp_http_requisicoes_total{metodo="GET",rota="/api/colaboradores/{id}",status="404"}`) {
		t.Errorf("contador por template ausente:\n%s", body)
	}
	if strings.Contains(body, `rota="/api/colaboradores/abc"`) {
		t.Error("rótulo não deveria usar o caminho concreto")
	}
}

func TestNaoEncontradoEmJSON(t *testing.T) {
	h := novoServidor(t, []string{"*"})
	rec := fazer(t, h, http.MethodGet, "/api/nada", "")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), `"erro"`) {
		t.Errorf("status=%d body=%s", rec.Code, rec.Body)
	}
	rec = fazer(t, h, http.MethodPatch, "/api/colaboradores", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("PATCH status = %d", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	h := novoServidor(t, []string{"http://rh.local"})

	req := httptest.NewRequest(http.MethodOptions, "/api/colaboradores", nil)
	req.Header.Set("Origin", "http://rh.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://rh.local" {
		t.Errorf("preflight Allow-Origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/colaboradores", nil)
	req.Header.Set("Origin", "http://outro.local")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("origem não permitida recebeu Allow-Origin = %q", got)
	}
}

func TestFluxoEntreRecursos(t *testing.T) {
	h := novoServidor(t, []string{"*"})

	rec := fazer(t, h, http.MethodPost, "/api/colaboradores", `{"nome":"Ana","cpf":"111"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("criar colaborador: %d %s", rec.Code, rec.Body)
	}
	var c struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &c)

	mes := time.Now().Format("2006-01")
	rec = fazer(t, h, http.MethodPost, "/api/lancamentos", `{"colaboradorId":"`+c.ID+`","mes":"`+mes+`","liquidoTotal":2750.5}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("criar lançamento: %d %s", rec.Code, rec.Body)
	}

	rec = fazer(t, h, http.MethodGet, "/api/relatorios/dashboard", "")
	var d relatorio.Dashboard
	_ = json.Unmarshal(rec.Body.Bytes(), &d)
	if d.TotalColaboradores != 1 || d.LancamentosAbertos != 1 || d.TotalPagoMesAtual != 2750.5 || d.MesAtual != mes {
		t.Errorf("dashboard = %+v", d)
	}

	rec = fazer(t, h, http.MethodDelete, "/api/colaboradores/"+c.ID, "")
	if !strings.Contains(rec.Body.String(), `"lancamentosRemovidos":1`) {
		t.Errorf("exclusão = %s", rec.Body)
	}

	rec = fazer(t, h, http.MethodGet, "/api/lancamentos", "")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("lançamentos após cascata = %s", rec.Body)
	}
}
