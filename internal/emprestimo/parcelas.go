package emprestimo

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KromaEnergia/api-departamento-pessoal/internal/models"
)

// Parcela é a prestação de um empréstimo que cai no mês consultado.
type Parcela struct {
	EmprestimoID string  `json:"emprestimoId"`
	Descricao    string  `json:"descricao"`
	Numero       int     `json:"numero"`
	Total        int     `json:"total"`
	Valor        float64 `json:"valor"`
	Detalhe      string  `json:"detalhe"`
}

// ParcelasMes soma as prestações devidas em um mês.
type ParcelasMes struct {
	Mes      string    `json:"mes"`
	Total    float64   `json:"total"`
	Parcelas []Parcela `json:"parcelas"`
}

// ParcelasDoMes calcula, para cada empréstimo, a parcela que vence em mes
// (YYYY-MM). Um empréstimo de n parcelas iniciado em I cobra de I até I+n-1.
// Empréstimos com início ilegível são ignorados.
func ParcelasDoMes(emprestimos []models.Emprestimo, mes string) (ParcelasMes, error) {
	alvo, err := models.ParseMes(mes)
	if err != nil {
		return ParcelasMes{}, err
	}

	res := ParcelasMes{Mes: mes, Parcelas: []Parcela{}}
	total := decimal.Zero
	for _, e := range emprestimos {
		if e.Parcelas < 1 {
			continue
		}
		inicio, ok := mesDeInicio(e.Inicio)
		if !ok {
			continue
		}
		k := mesesEntre(inicio, alvo)
		if k < 0 || k >= e.Parcelas {
			continue
		}

		valor := decimal.NewFromFloat(e.Valor).Div(decimal.NewFromInt(int64(e.Parcelas)))
		total = total.Add(valor)
		arredondado := valor.Round(2)
		res.Parcelas = append(res.Parcelas, Parcela{
			EmprestimoID: e.ID,
			Descricao:    e.Descricao,
			Numero:       k + 1,
			Total:        e.Parcelas,
			Valor:        arredondado.InexactFloat64(),
			Detalhe:      fmt.Sprintf("%s: %d/%d - R$ %s", e.Descricao, k+1, e.Parcelas, arredondado.StringFixed(2)),
		})
	}
	res.Total = total.Round(2).InexactFloat64()
	return res, nil
}

// mesDeInicio aceita "YYYY-MM" ou "YYYY-MM-DD".
func mesDeInicio(s string) (time.Time, bool) {
	if len(s) < len(models.LayoutMes) {
		return time.Time{}, false
	}
	t, err := time.Parse(models.LayoutMes, s[:len(models.LayoutMes)])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func mesesEntre(de, ate time.Time) int {
	return (ate.Year()-de.Year())*12 + int(ate.Month()) - int(de.Month())
}
