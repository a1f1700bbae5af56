package colaborador

import (
	"strings"

	"github.com/KromaEnergia/api-departamento-pessoal/internal/emprestimo"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/models"
)

// Entrada é o corpo de criação/edição. Id vazio cria, id preenchido edita.
type Entrada struct {
	ID          string `json:"id"`
	Nome        string `json:"nome"`
	CPF         string `json:"cpf"`
	Endereco    string `json:"endereco"`
	Funcao      string `json:"funcao"`
	Contratacao string `json:"contratacao"`
	Admissao    string `json:"admissao"`

	Remuneracao float64 `json:"remuneracao"`
	Premio      float64 `json:"premio"`
	Total       float64 `json:"total"`

	ValeRefeicao   string `json:"valeRefeicao"`
	ValeTransporte string `json:"valeTransporte"`
	SeguroVida     string `json:"seguroVida"`
	PlanoOdonto    string `json:"planoOdonto"`
	Dependentes    int    `json:"dependentes"`

	TemAdiantamento   string  `json:"temAdiantamento"`
	ValorAdiantamento float64 `json:"valorAdiantamento"`
	TipoAdiantamento  string  `json:"tipoAdiantamento"`

	Observacoes string `json:"observacoes"`

	Emprestimos []emprestimo.Entrada `json:"emprestimos"`
}

// RespostaExclusao é devolvida pelo DELETE.
type RespostaExclusao struct {
	Mensagem             string `json:"mensagem"`
	EmprestimosRemovidos int    `json:"emprestimosRemovidos"`
	LancamentosRemovidos int    `json:"lancamentosRemovidos"`
}

// aplicar copia os campos editáveis para c, com os padrões do cadastro.
func (in Entrada) aplicar(c *models.Colaborador) {
	c.Nome = strings.TrimSpace(in.Nome)
	c.CPF = strings.TrimSpace(in.CPF)
	c.Endereco = in.Endereco
	c.Funcao = in.Funcao
	c.Contratacao = padrao(in.Contratacao, models.ContratacaoPadrao)
	c.Admissao = in.Admissao

	c.Remuneracao = in.Remuneracao
	c.Premio = in.Premio
	c.Total = in.Total

	c.ValeRefeicao = padrao(in.ValeRefeicao, models.OpcaoNao)
	c.ValeTransporte = padrao(in.ValeTransporte, models.OpcaoNao)
	c.SeguroVida = padrao(in.SeguroVida, models.SeguroVidaPadrao)
	c.PlanoOdonto = padrao(in.PlanoOdonto, models.OpcaoNao)
	c.Dependentes = in.Dependentes

	c.TemAdiantamento = padrao(in.TemAdiantamento, models.OpcaoNao)
	c.ValorAdiantamento = in.ValorAdiantamento
	c.TipoAdiantamento = padrao(in.TipoAdiantamento, models.TipoAdiantamentoPadrao)

	c.Observacoes = in.Observacoes
}

func padrao(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}
