// models/colaborador.go
package models

import "time"

// Valores padrão aplicados quando o campo não vem no cadastro.
const (
	ContratacaoPadrao      = "CLT"
	OpcaoNao               = "Não"
	SeguroVidaPadrao       = "Inativo"
	TipoAdiantamentoPadrao = "Espécie"
	DescricaoEmprestimo    = "Sem descrição"
)

// Colaborador é a raiz do agregado: é dono dos empréstimos e é referenciado
// pelos lançamentos de folha.
type Colaborador struct {
	ID          string `gorm:"primaryKey;size:64" json:"id"`
	Nome        string `gorm:"size:255;not null" json:"nome"`
	CPF         string `gorm:"column:cpf;size:32;index" json:"cpf"` // unicidade garantida pelo cadastro, não pelo banco
	Endereco    string `json:"endereco"`
	Funcao      string `gorm:"size:255" json:"funcao"`
	Contratacao string `gorm:"size:50" json:"contratacao"`
	Admissao    string `gorm:"size:32" json:"admissao"`

	Remuneracao float64 `gorm:"not null;default:0" json:"remuneracao"`
	Premio      float64 `gorm:"not null;default:0" json:"premio"`
	Total       float64 `gorm:"not null;default:0" json:"total"`

	// Benefícios ("Sim" | "Não", seguro de vida "Ativo" | "Inativo")
	ValeRefeicao   string `gorm:"size:20" json:"valeRefeicao"`
	ValeTransporte string `gorm:"size:20" json:"valeTransporte"`
	SeguroVida     string `gorm:"size:20" json:"seguroVida"`
	PlanoOdonto    string `gorm:"size:20" json:"planoOdonto"`
	Dependentes    int    `gorm:"not null;default:0" json:"dependentes"`

	TemAdiantamento   string  `gorm:"size:20" json:"temAdiantamento"`
	ValorAdiantamento float64 `gorm:"not null;default:0" json:"valorAdiantamento"`
	TipoAdiantamento  string  `gorm:"size:50" json:"tipoAdiantamento"`

	Observacoes string `json:"observacoes"`

	Emprestimos []Emprestimo `gorm:"foreignKey:ColaboradorID;constraint:OnDelete:CASCADE" json:"emprestimos"`

	DataCadastro    time.Time  `json:"dataCadastro"`
	DataAtualizacao *time.Time `json:"dataAtualizacao,omitempty"`
}

// TableName fixa o nome da tabela (o plural do gorm seria "colaboradors").
func (Colaborador) TableName() string { return "colaboradores" }

// Emprestimo é uma dívida do colaborador descontada em parcelas mensais.
type Emprestimo struct {
	ID            string  `gorm:"primaryKey;size:64" json:"id"`
	ColaboradorID string  `gorm:"size:64;not null;index" json:"colaboradorId,omitempty"`
	Valor         float64 `gorm:"not null;default:0" json:"valor"`
	Parcelas      int     `gorm:"not null" json:"parcelas"`
	Inicio        string  `gorm:"size:32" json:"inicio"` // "YYYY-MM" ou "YYYY-MM-DD"
	Descricao     string  `gorm:"size:255" json:"descricao"`
	// Ordem é a posição na lista do colaborador. Não vai para o JSON: no
	// documento a posição é a do próprio array.
	Ordem int `gorm:"not null;default:0" json:"-"`
}

// TableName fixa o nome da tabela.
func (Emprestimo) TableName() string { return "emprestimos" }
