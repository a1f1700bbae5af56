package relatorio

import (
	"cmp"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/KromaEnergia/api-departamento-pessoal/internal/models"
)

// bom faz o Excel abrir o arquivo como UTF-8.
const bom = "\ufeff"

var cabecalhoCSV = []string{
	"Nome",
	"Adiantamento Contabilidade",
	"Adiantamento Espécie",
	"Pagamento Contabilidade",
	"Pagamento Espécie",
}

var mesesAbreviados = [...]string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

// NomeArquivoCSV devolve "lancamentos_Jan-2024.csv" para "2024-01".
func NomeArquivoCSV(mes string) (string, error) {
	t, err := models.ParseMes(mes)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("lancamentos_%s-%d.csv", mesesAbreviados[t.Month()-1], t.Year()), nil
}

// EscreverCSV grava os lançamentos do mês separados por ";" com valores no
// formato brasileiro (vírgula decimal), ordenados pelo nome do colaborador.
// Retorna quantas linhas de dados foram escritas.
func (s *Service) EscreverCSV(ctx context.Context, mes string, w io.Writer) (int, error) {
	if mes == "" {
		return 0, fmt.Errorf("%w: informe o mês", models.ErrDadosInvalidos)
	}
	if _, err := models.ParseMes(mes); err != nil {
		return 0, err
	}
	dados, err := s.Armazenamento.Carregar(ctx)
	if err != nil {
		return 0, err
	}

	nomes := make(map[string]string, len(dados.Colaboradores))
	for _, c := range dados.Colaboradores {
		nomes[c.ID] = c.Nome
	}
	nome := func(l models.Lancamento) string {
		if n, ok := nomes[l.ColaboradorID]; ok {
			return n
		}
		return "Desconhecido"
	}

	var linhas []models.Lancamento
	for _, l := range dados.Lancamentos {
		if l.Mes == mes {
			linhas = append(linhas, l)
		}
	}
	slices.SortStableFunc(linhas, func(a, b models.Lancamento) int {
		return cmp.Or(cmp.Compare(nome(a), nome(b)), cmp.Compare(a.ID, b.ID))
	})

	if _, err := io.WriteString(w, bom); err != nil {
		return 0, err
	}
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(cabecalhoCSV); err != nil {
		return 0, err
	}
	for _, l := range linhas {
		err := cw.Write([]string{
			nome(l),
			valorBR(l.AdiantamentoContab),
			valorBR(l.AdiantamentoEspecie),
			valorBR(l.PagamentoContab),
			valorBR(l.PagamentoEspecie),
		})
		if err != nil {
			return 0, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}
	return len(linhas), nil
}

func valorBR(v float64) string {
	return strings.Replace(decimal.NewFromFloat(v).StringFixed(2), ".", ",", 1)
}
