package utils

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/KromaEnergia/api-departamento-pessoal/internal/armazenamento"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/models"
)

// EscreverJSON serializa v com o status informado.
func EscreverJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// EscreverErro responde {"erro": msg}.
func EscreverErro(w http.ResponseWriter, code int, msg string) {
	EscreverJSON(w, code, map[string]string{"erro": msg})
}

// DecodificarJSON lê exatamente um objeto JSON do corpo.
func DecodificarJSON(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("conteúdo JSON adicional inesperado")
	}
	return nil
}

// StatusDoErro traduz erros de domínio em status HTTP.
func StatusDoErro(err error) int {
	switch {
	case errors.Is(err, models.ErrDadosInvalidos),
		errors.Is(err, models.ErrCPFDuplicado),
		errors.Is(err, models.ErrLancamentoDuplicado),
		errors.Is(err, models.ErrLancamentoFinalizado):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrColaboradorNaoEncontrado),
		errors.Is(err, models.ErrLancamentoNaoEncontrado),
		errors.Is(err, models.ErrColaboradorInexistente):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ResponderErro escreve o erro com o status correspondente. Falhas internas
// vão para o log com detalhe e para o cliente com mensagem genérica.
func ResponderErro(w http.ResponseWriter, r *http.Request, err error) {
	code := StatusDoErro(err)
	if code != http.StatusInternalServerError {
		EscreverErro(w, code, err.Error())
		return
	}
	slog.Error("request_failed",
		"method", r.Method,
		"path", r.URL.Path,
		"storage", errors.Is(err, armazenamento.ErrFalhaArmazenamento),
		"err", err,
	)
	EscreverErro(w, code, "erro interno ao processar a requisição")
}
