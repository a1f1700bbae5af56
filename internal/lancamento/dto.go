package lancamento

import (
	"strings"

	"github.com/KromaEnergia/api-departamento-pessoal/internal/models"
)

// Entrada é o corpo de criação e edição de um lançamento. Valores numéricos
// ausentes viram zero; a edição substitui todos eles.
type Entrada struct {
	ID            string `json:"id"`
	ColaboradorID string `json:"colaboradorId"`
	Mes           string `json:"mes"`
	Ferias        string `json:"ferias"`

	Remuneracao         float64 `json:"remuneracao"`
	Bonificacao         float64 `json:"bonificacao"`
	TotalRecebido       float64 `json:"totalRecebido"`
	AdiantamentoEspecie float64 `json:"adiantamentoEspecie"`
	AdiantamentoContab  float64 `json:"adiantamentoContab"`
	HorasExtras         float64 `json:"horasExtras"`
	ValeTransporte      float64 `json:"valeTransporte"`
	Emprestimo          float64 `json:"emprestimo"`
	Outros              float64 `json:"outros"`
	LiquidoTotal        float64 `json:"liquidoTotal"`
	PagamentoContab     float64 `json:"pagamentoContab"`
	PagamentoEspecie    float64 `json:"pagamentoEspecie"`
	FormaPagamento      string  `json:"formaPagamento"`

	// Status só é considerado na edição. Vazio mantém o atual.
	Status string `json:"status"`
	// Reabrir libera a edição de um lançamento finalizado.
	Reabrir bool `json:"reabrir"`
}

// Filtro restringe a listagem. Campos vazios não filtram.
type Filtro struct {
	Mes           string
	ColaboradorID string
	Status        string
}

func (f Filtro) aceita(l models.Lancamento) bool {
	return (f.Mes == "" || l.Mes == f.Mes) &&
		(f.ColaboradorID == "" || l.ColaboradorID == f.ColaboradorID) &&
		(f.Status == "" || l.Status == f.Status)
}

type Mensagem struct {
	Mensagem string `json:"mensagem"`
}

func (in Entrada) aplicarValores(l *models.Lancamento) {
	l.Ferias = strings.TrimSpace(in.Ferias)
	l.Remuneracao = in.Remuneracao
	l.Bonificacao = in.Bonificacao
	l.TotalRecebido = in.TotalRecebido
	l.AdiantamentoEspecie = in.AdiantamentoEspecie
	l.AdiantamentoContab = in.AdiantamentoContab
	l.HorasExtras = in.HorasExtras
	l.ValeTransporte = in.ValeTransporte
	l.Emprestimo = in.Emprestimo
	l.Outros = in.Outros
	l.LiquidoTotal = in.LiquidoTotal
	l.PagamentoContab = in.PagamentoContab
	l.PagamentoEspecie = in.PagamentoEspecie

	l.FormaPagamento = strings.TrimSpace(in.FormaPagamento)
	if l.FormaPagamento == "" {
		l.FormaPagamento = models.FormaPagamentoPadrao
	}
}
