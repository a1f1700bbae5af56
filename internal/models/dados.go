// models/dados.go
package models

// Dados é o grafo completo persistido: colaboradores (com seus empréstimos)
// e lançamentos. É o formato do backup e do arquivo do modo documento.
type Dados struct {
	Colaboradores []Colaborador `json:"colaboradores"`
	Lancamentos   []Lancamento  `json:"lancamentos"`
}

// NovosDados retorna um grafo vazio com slices inicializados, para que o JSON
// saia como [] e não null.
func NovosDados() *Dados {
	return &Dados{Colaboradores: []Colaborador{}, Lancamentos: []Lancamento{}}
}

// Normalizar troca slices nil por vazios, religa cada empréstimo ao seu
// colaborador e numera os empréstimos na ordem em que aparecem.
func (d *Dados) Normalizar() {
	if d.Colaboradores == nil {
		d.Colaboradores = []Colaborador{}
	}
	if d.Lancamentos == nil {
		d.Lancamentos = []Lancamento{}
	}
	for i := range d.Colaboradores {
		c := &d.Colaboradores[i]
		if c.Emprestimos == nil {
			c.Emprestimos = []Emprestimo{}
		}
		for j := range c.Emprestimos {
			c.Emprestimos[j].ColaboradorID = c.ID
			c.Emprestimos[j].Ordem = j
		}
	}
}

// IndiceColaborador devolve a posição do colaborador no grafo, ou -1.
func (d *Dados) IndiceColaborador(id string) int {
	for i := range d.Colaboradores {
		if d.Colaboradores[i].ID == id {
			return i
		}
	}
	return -1
}

// IndiceLancamento devolve a posição do lançamento no grafo, ou -1.
func (d *Dados) IndiceLancamento(id string) int {
	for i := range d.Lancamentos {
		if d.Lancamentos[i].ID == id {
			return i
		}
	}
	return -1
}
