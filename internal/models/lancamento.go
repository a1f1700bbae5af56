// models/lancamento.go
package models

import (
	"fmt"
	"time"
)

// Status de um lançamento de folha.
const (
	StatusAberto     = "aberto"
	StatusFinalizado = "finalizado"
)

// FormaPagamentoPadrao é usada quando o lançamento não informa a forma.
const FormaPagamentoPadrao = "PIX"

// Lancamento é o registro de folha de um colaborador em um mês (YYYY-MM).
type Lancamento struct {
	ID            string `gorm:"primaryKey;size:64" json:"id"`
	ColaboradorID string `gorm:"size:64;not null;index" json:"colaboradorId"`
	Mes           string `gorm:"size:7;not null;index" json:"mes"`
	Ferias        string `gorm:"size:20" json:"ferias"`

	Remuneracao         float64 `gorm:"not null;default:0" json:"remuneracao"`
	Bonificacao         float64 `gorm:"not null;default:0" json:"bonificacao"`
	TotalRecebido       float64 `gorm:"not null;default:0" json:"totalRecebido"`
	AdiantamentoEspecie float64 `gorm:"not null;default:0" json:"adiantamentoEspecie"`
	AdiantamentoContab  float64 `gorm:"not null;default:0" json:"adiantamentoContab"`
	HorasExtras         float64 `gorm:"not null;default:0" json:"horasExtras"`
	ValeTransporte      float64 `gorm:"not null;default:0" json:"valeTransporte"`
	Emprestimo          float64 `gorm:"not null;default:0" json:"emprestimo"`
	Outros              float64 `gorm:"not null;default:0" json:"outros"`
	LiquidoTotal        float64 `gorm:"not null;default:0" json:"liquidoTotal"`
	PagamentoContab     float64 `gorm:"not null;default:0" json:"pagamentoContab"`
	PagamentoEspecie    float64 `gorm:"not null;default:0" json:"pagamentoEspecie"`
	FormaPagamento      string  `gorm:"size:50" json:"formaPagamento"`

	Status string `gorm:"size:20;not null;index" json:"status"`

	DataCriacao     time.Time  `json:"dataCriacao"`
	DataAtualizacao *time.Time `json:"dataAtualizacao,omitempty"`
	DataFinalizacao *time.Time `json:"dataFinalizacao,omitempty"`
	DataReabertura  *time.Time `json:"dataReabertura,omitempty"`

	// Preenchidos apenas na listagem, quando o colaborador ainda existe.
	ColaboradorNome string `gorm:"-" json:"colaboradorNome,omitempty"`
	ColaboradorCPF  string `gorm:"-" json:"colaboradorCPF,omitempty"`

	Colaborador *Colaborador `gorm:"foreignKey:ColaboradorID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName fixa o nome da tabela.
func (Lancamento) TableName() string { return "lancamentos" }

// LayoutMes é o formato do campo mes.
const LayoutMes = "2006-01"

// ParseMes interpreta "YYYY-MM". Qualquer outro formato é ErrDadosInvalidos.
func ParseMes(mes string) (time.Time, error) {
	t, err := time.Parse(LayoutMes, mes)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: mês %q fora do formato YYYY-MM", ErrDadosInvalidos, mes)
	}
	return t, nil
}
