// Package emprestimo concilia o conjunto de empréstimos de um colaborador com
// o conjunto enviado no cadastro e calcula as parcelas devidas em um mês.
package emprestimo

import (
	"encoding/json"
	"strings"

	"github.com/KromaEnergia/api-departamento-pessoal/internal/models"
)

// IDFlexivel aceita id como string ou número. O formulário antigo gerava ids
// numéricos (timestamp + fração aleatória) e esses ids ainda aparecem nos
// cadastros enviados.
type IDFlexivel string

func (i *IDFlexivel) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*i = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*i = IDFlexivel(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*i = IDFlexivel(n.String())
	return nil
}

// Entrada é um empréstimo como vem na requisição. Campos nil não foram
// enviados e, numa atualização, mantêm o valor anterior.
type Entrada struct {
	ID        IDFlexivel `json:"id"`
	Valor     *float64   `json:"valor"`
	Parcelas  *int       `json:"parcelas"`
	Inicio    *string    `json:"inicio"`
	Descricao *string    `json:"descricao"`
}

// Plano descreve o que muda no conjunto de empréstimos.
type Plano struct {
	Excluir   []string
	Atualizar []models.Emprestimo
	Criar     []models.Emprestimo

	ordem []string
}

// Reconciliar compara o que está gravado com o que foi enviado, por id.
//
// Gravados que não aparecem no envio são excluídos. Um enviado cujo id casa
// com um gravado atualiza esse empréstimo; cada gravado casa no máximo uma
// vez, então um id repetido no envio vira empréstimo novo. Enviados sem id ou
// com id desconhecido são criados com id gerado por novoID.
func Reconciliar(colaboradorID string, existentes []models.Emprestimo, enviados []Entrada, novoID func() string) Plano {
	gravados := make(map[string]models.Emprestimo, len(existentes))
	for _, e := range existentes {
		gravados[e.ID] = e
	}

	var p Plano
	usados := make(map[string]bool, len(enviados))
	for _, in := range enviados {
		id := string(in.ID)
		if atual, ok := gravados[id]; ok && id != "" && !usados[id] {
			usados[id] = true
			atualizado := aplicarEntrada(atual, in)
			atualizado.ColaboradorID = colaboradorID
			p.Atualizar = append(p.Atualizar, atualizado)
			p.ordem = append(p.ordem, id)
			continue
		}

		novo := aplicarEntrada(models.Emprestimo{
			ID:        novoID(),
			Parcelas:  1,
			Descricao: models.DescricaoEmprestimo,
		}, in)
		novo.ColaboradorID = colaboradorID
		p.Criar = append(p.Criar, novo)
		p.ordem = append(p.ordem, novo.ID)
	}

	for _, e := range existentes {
		if !usados[e.ID] {
			p.Excluir = append(p.Excluir, e.ID)
		}
	}
	return p
}

// Aplicar devolve o conjunto resultante na ordem em que foi enviado.
func (p Plano) Aplicar() []models.Emprestimo {
	porID := make(map[string]models.Emprestimo, len(p.Atualizar)+len(p.Criar))
	for _, e := range p.Atualizar {
		porID[e.ID] = e
	}
	for _, e := range p.Criar {
		porID[e.ID] = e
	}

	out := make([]models.Emprestimo, 0, len(p.ordem))
	for _, id := range p.ordem {
		out = append(out, porID[id])
	}
	return out
}

func aplicarEntrada(e models.Emprestimo, in Entrada) models.Emprestimo {
	if in.Valor != nil {
		e.Valor = *in.Valor
	}
	if in.Parcelas != nil && *in.Parcelas > 0 {
		e.Parcelas = *in.Parcelas
	}
	if in.Inicio != nil {
		e.Inicio = strings.TrimSpace(*in.Inicio)
	}
	if in.Descricao != nil && strings.TrimSpace(*in.Descricao) != "" {
		e.Descricao = strings.TrimSpace(*in.Descricao)
	}
	return e
}
