package relatorio

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/KromaEnergia/api-departamento-pessoal/internal/models"
)

// Resumo são os totais dos cartões do painel para um filtro de mês e
// colaborador. Filtro vazio considera todos.
type Resumo struct {
	Mes                   string  `json:"mes,omitempty"`
	ColaboradorID         string  `json:"colaboradorId,omitempty"`
	Lancamentos           int     `json:"lancamentos"`
	TotalAdiantamento     float64 `json:"totalAdiantamento"`
	TotalPagamentoEspecie float64 `json:"totalPagamentoEspecie"`
	LiquidoEspecie        float64 `json:"liquidoEspecie"`
	TotalGeral            float64 `json:"totalGeral"`
}

// Resumo soma adiantamentos (espécie + contabilidade) e pagamentos em espécie
// dos lançamentos filtrados. Líquido em espécie = pagamento - adiantamento;
// total geral = adiantamento + pagamento.
func (s *Service) Resumo(ctx context.Context, mes, colaboradorID string) (Resumo, error) {
	if mes != "" {
		if _, err := models.ParseMes(mes); err != nil {
			return Resumo{}, err
		}
	}
	dados, err := s.Armazenamento.Carregar(ctx)
	if err != nil {
		return Resumo{}, err
	}

	out := Resumo{Mes: mes, ColaboradorID: colaboradorID}
	adiantamento, pagamento := decimal.Zero, decimal.Zero
	for _, l := range dados.Lancamentos {
		if mes != "" && l.Mes != mes {
			continue
		}
		if colaboradorID != "" && l.ColaboradorID != colaboradorID {
			continue
		}
		out.Lancamentos++
		adiantamento = adiantamento.
			Add(decimal.NewFromFloat(l.AdiantamentoEspecie)).
			Add(decimal.NewFromFloat(l.AdiantamentoContab))
		pagamento = pagamento.Add(decimal.NewFromFloat(l.PagamentoEspecie))
	}

	out.TotalAdiantamento = adiantamento.InexactFloat64()
	out.TotalPagamentoEspecie = pagamento.InexactFloat64()
	out.LiquidoEspecie = pagamento.Sub(adiantamento).InexactFloat64()
	out.TotalGeral = adiantamento.Add(pagamento).InexactFloat64()
	return out, nil
}
