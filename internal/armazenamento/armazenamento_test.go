package armazenamento

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/KromaEnergia/api-departamento-pessoal/internal/config"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/models"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/utils/db"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newDocumento(t *testing.T) *Documento {
	t.Helper()
	d, err := NewDocumento(filepath.Join(t.TempDir(), "dados.json"), testLogger)
	if err != nil {
		t.Fatalf("NewDocumento: %v", err)
	}
	return d
}

func newRelacional(t *testing.T) *Relacional {
	t.Helper()
	dialector, err := db.Dialector(config.Banco{
		Driver:  config.DriverSQLite,
		Caminho: filepath.Join(t.TempDir(), "dp.db"),
	})
	if err != nil {
		t.Fatalf("Dialector: %v", err)
	}
	conn, err := db.ConnectDataBase(dialector)
	if err != nil {
		t.Fatalf("ConnectDataBase: %v", err)
	}
	r, err := NewRelacional(conn)
	if err != nil {
		t.Fatalf("NewRelacional: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

// cada teste de contrato roda nas duas estratégias.
func backends(t *testing.T) map[string]func(t *testing.T) Armazenamento {
	t.Helper()
	return map[string]func(t *testing.T) Armazenamento{
		"documento":  func(t *testing.T) Armazenamento { return newDocumento(t) },
		"relacional": func(t *testing.T) Armazenamento { return newRelacional(t) },
	}
}

func grafoExemplo() *models.Dados {
	cadastro := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	fim := time.Date(2024, 2, 5, 18, 30, 0, 0, time.UTC)
	return &models.Dados{
		Colaboradores: []models.Colaborador{
			{
				ID: "c1", Nome: "Ana", CPF: "111", Contratacao: "CLT",
				Remuneracao: 3500.5, Dependentes: 2, SeguroVida: "Ativo",
				DataCadastro: cadastro,
				Emprestimos: []models.Emprestimo{
					{ID: "e1", Valor: 1200, Parcelas: 6, Inicio: "2024-01", Descricao: "Notebook"},
					{ID: "e2", Valor: 300, Parcelas: 1, Inicio: "2024-03", Descricao: "Sem descrição"},
				},
			},
			{ID: "c2", Nome: "Bruno", CPF: "222", Contratacao: "PJ", DataCadastro: cadastro},
		},
		Lancamentos: []models.Lancamento{
			{ID: "l1", ColaboradorID: "c1", Mes: "2024-01", LiquidoTotal: 3000, Status: models.StatusFinalizado, FormaPagamento: "PIX", DataCriacao: cadastro, DataFinalizacao: &fim},
			{ID: "l2", ColaboradorID: "c2", Mes: "2024-01", LiquidoTotal: 5000, Status: models.StatusAberto, FormaPagamento: "TED", DataCriacao: cadastro},
			{ID: "l3", ColaboradorID: "c1", Mes: "2024-02", LiquidoTotal: 3100, Status: models.StatusAberto, FormaPagamento: "PIX", DataCriacao: cadastro},
		},
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestArmazenamento_CarregarVazio(t *testing.T) {
	for nome, novo := range backends(t) {
		t.Run(nome, func(t *testing.T) {
			a := novo(t)
			dados, err := a.Carregar(context.Background())
			if err != nil {
				t.Fatalf("Carregar: %v", err)
			}
			if len(dados.Colaboradores) != 0 || len(dados.Lancamentos) != 0 {
				t.Fatalf("esperava grafo vazio, veio %+v", dados)
			}
			if got := mustJSON(t, dados); got != `{"colaboradores":[],"lancamentos":[]}` {
				t.Errorf("json = %s", got)
			}
		})
	}
}

func TestArmazenamento_SalvarCarregarIdentico(t *testing.T) {
	for nome, novo := range backends(t) {
		t.Run(nome, func(t *testing.T) {
			a := novo(t)
			ctx := context.Background()
			if err := a.Salvar(ctx, grafoExemplo()); err != nil {
				t.Fatalf("Salvar: %v", err)
			}
			dados, err := a.Carregar(ctx)
			if err != nil {
				t.Fatalf("Carregar: %v", err)
			}

			want := grafoExemplo()
			want.Normalizar()
			if got, w := mustJSON(t, dados), mustJSON(t, want); got != w {
				t.Errorf("grafo diferente\n got: %s\nwant: %s", got, w)
			}
		})
	}
}

func TestArmazenamento_SalvarRemoveAusentes(t *testing.T) {
	for nome, novo := range backends(t) {
		t.Run(nome, func(t *testing.T) {
			a := novo(t)
			ctx := context.Background()
			if err := a.Salvar(ctx, grafoExemplo()); err != nil {
				t.Fatal(err)
			}

			dados, _ := a.Carregar(ctx)
			dados.Colaboradores[0].Emprestimos = dados.Colaboradores[0].Emprestimos[:1]
			dados.Colaboradores[0].Emprestimos[0].Valor = 999
			dados.Lancamentos = dados.Lancamentos[:1]
			if err := a.Salvar(ctx, dados); err != nil {
				t.Fatalf("Salvar: %v", err)
			}

			dados, err := a.Carregar(ctx)
			if err != nil {
				t.Fatal(err)
			}
			emps := dados.Colaboradores[0].Emprestimos
			if len(emps) != 1 || emps[0].ID != "e1" || emps[0].Valor != 999 {
				t.Errorf("empréstimos = %+v", emps)
			}
			if len(dados.Lancamentos) != 1 || dados.Lancamentos[0].ID != "l1" {
				t.Errorf("lançamentos = %+v", dados.Lancamentos)
			}
		})
	}
}

func TestArmazenamento_OrdemDosEmprestimos(t *testing.T) {
	idsEmprestimos := func(d *models.Dados) []string {
		var out []string
		for _, e := range d.Colaboradores[0].Emprestimos {
			out = append(out, e.ID)
		}
		return out
	}
	iguais := func(a, b []string) bool {
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	}

	for nome, novo := range backends(t) {
		t.Run(nome, func(t *testing.T) {
			a := novo(t)
			ctx := context.Background()
			grafo := &models.Dados{
				Colaboradores: []models.Colaborador{{
					ID: "10", Nome: "Ana", CPF: "111",
					Emprestimos: []models.Emprestimo{
						{ID: "e9", Valor: 100, Parcelas: 1, Inicio: "2024-01"},
						{ID: "e10", Valor: 200, Parcelas: 2, Inicio: "2024-01"},
						{ID: "e1", Valor: 300, Parcelas: 3, Inicio: "2024-01"},
					},
				}},
			}
			if err := a.Salvar(ctx, grafo); err != nil {
				t.Fatal(err)
			}
			dados, err := a.Carregar(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if got, want := idsEmprestimos(dados), []string{"e9", "e10", "e1"}; !iguais(got, want) {
				t.Errorf("ordem após salvar = %v, want %v", got, want)
			}

			// reordenar só com upsert também precisa valer
			emps := dados.Colaboradores[0].Emprestimos
			dados.Colaboradores[0].Emprestimos = []models.Emprestimo{emps[2], emps[0], emps[1]}
			if err := a.Salvar(ctx, dados); err != nil {
				t.Fatal(err)
			}
			dados, err = a.Carregar(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if got, want := idsEmprestimos(dados), []string{"e1", "e9", "e10"}; !iguais(got, want) {
				t.Errorf("ordem após reordenar = %v, want %v", got, want)
			}

			if err := a.Substituir(ctx, grafo); err != nil {
				t.Fatal(err)
			}
			dados, err = a.Carregar(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if got, want := idsEmprestimos(dados), []string{"e9", "e10", "e1"}; !iguais(got, want) {
				t.Errorf("ordem após substituir = %v, want %v", got, want)
			}
		})
	}
}

func TestArmazenamento_ExcluirColaborador(t *testing.T) {
	for nome, novo := range backends(t) {
		t.Run(nome, func(t *testing.T) {
			a := novo(t)
			ctx := context.Background()
			if err := a.Salvar(ctx, grafoExemplo()); err != nil {
				t.Fatal(err)
			}

			res, err := a.ExcluirColaborador(ctx, "c1")
			if err != nil {
				t.Fatalf("ExcluirColaborador: %v", err)
			}
			if res.EmprestimosRemovidos != 2 || res.LancamentosRemovidos != 2 {
				t.Errorf("resultado = %+v, want 2/2", res)
			}

			dados, _ := a.Carregar(ctx)
			if len(dados.Colaboradores) != 1 || dados.Colaboradores[0].ID != "c2" {
				t.Errorf("colaboradores = %+v", dados.Colaboradores)
			}
			if len(dados.Lancamentos) != 1 || dados.Lancamentos[0].ID != "l2" {
				t.Errorf("lançamentos = %+v", dados.Lancamentos)
			}

			if _, err := a.ExcluirColaborador(ctx, "c1"); !errors.Is(err, models.ErrColaboradorNaoEncontrado) {
				t.Errorf("segunda exclusão: err = %v", err)
			}
		})
	}
}

func TestArmazenamento_Substituir(t *testing.T) {
	for nome, novo := range backends(t) {
		t.Run(nome, func(t *testing.T) {
			a := novo(t)
			ctx := context.Background()
			if err := a.Salvar(ctx, grafoExemplo()); err != nil {
				t.Fatal(err)
			}

			novoGrafo := &models.Dados{
				Colaboradores: []models.Colaborador{{ID: "x9", Nome: "Carla", CPF: "333"}},
			}
			if err := a.Substituir(ctx, novoGrafo); err != nil {
				t.Fatalf("Substituir: %v", err)
			}
			dados, _ := a.Carregar(ctx)
			if len(dados.Colaboradores) != 1 || dados.Colaboradores[0].ID != "x9" {
				t.Errorf("colaboradores = %+v", dados.Colaboradores)
			}
			if len(dados.Lancamentos) != 0 {
				t.Errorf("lançamentos = %+v", dados.Lancamentos)
			}
		})
	}
}

func TestDocumento_ArquivoCorrompido(t *testing.T) {
	d := newDocumento(t)
	d.agora = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	if err := os.WriteFile(d.Caminho(), []byte("{nao é json"), 0o644); err != nil {
		t.Fatal(err)
	}

	dados, err := d.Carregar(context.Background())
	if err != nil {
		t.Fatalf("Carregar: %v", err)
	}
	if len(dados.Colaboradores) != 0 {
		t.Errorf("esperava grafo vazio")
	}

	movido := d.Caminho() + ".corrompido-20240501T120000"
	b, err := os.ReadFile(movido)
	if err != nil {
		t.Fatalf("arquivo corrompido não foi preservado: %v", err)
	}
	if string(b) != "{nao é json" {
		t.Errorf("conteúdo preservado = %q", b)
	}
	if _, err := os.Stat(d.Caminho()); !os.IsNotExist(err) {
		t.Errorf("arquivo original deveria ter saído do lugar, stat err = %v", err)
	}
}

func TestDocumento_SalvarNaoDeixaTemporarios(t *testing.T) {
	d := newDocumento(t)
	if err := d.Salvar(context.Background(), grafoExemplo()); err != nil {
		t.Fatal(err)
	}
	entradas, err := os.ReadDir(filepath.Dir(d.Caminho()))
	if err != nil {
		t.Fatal(err)
	}
	if len(entradas) != 1 || entradas[0].Name() != "dados.json" {
		var nomes []string
		for _, e := range entradas {
			nomes = append(nomes, e.Name())
		}
		t.Errorf("arquivos no diretório = %v", nomes)
	}
}

func TestRelacional_SubstituirDesfazEmFalha(t *testing.T) {
	r := newRelacional(t)
	ctx := context.Background()
	if err := r.Salvar(ctx, grafoExemplo()); err != nil {
		t.Fatal(err)
	}

	// id repetido viola a chave primária no meio da inserção
	ruim := &models.Dados{
		Colaboradores: []models.Colaborador{
			{ID: "d1", Nome: "A", CPF: "1"},
			{ID: "d1", Nome: "B", CPF: "2"},
		},
	}
	err := r.Substituir(ctx, ruim)
	if !errors.Is(err, ErrFalhaArmazenamento) {
		t.Fatalf("err = %v, want ErrFalhaArmazenamento", err)
	}

	dados, err := r.Carregar(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := grafoExemplo()
	want.Normalizar()
	if got, w := mustJSON(t, dados), mustJSON(t, want); got != w {
		t.Errorf("estado mudou após rollback\n got: %s\nwant: %s", got, w)
	}
}

func TestRelacional_SubstituirReferenciaPendente(t *testing.T) {
	r := newRelacional(t)
	ruim := &models.Dados{
		Lancamentos: []models.Lancamento{{ID: "l1", ColaboradorID: "fantasma", Mes: "2024-01", Status: models.StatusAberto}},
	}
	if err := r.Substituir(context.Background(), ruim); !errors.Is(err, ErrFalhaArmazenamento) {
		t.Fatalf("err = %v, want ErrFalhaArmazenamento", err)
	}
}

func TestRelacional_ExcluirColaboradorDesfazEmFalha(t *testing.T) {
	r := newRelacional(t)
	ctx := context.Background()
	if err := r.Salvar(ctx, grafoExemplo()); err != nil {
		t.Fatal(err)
	}

	// empréstimos e lançamentos já saíram quando o DELETE do colaborador falha
	err := r.DB.Callback().Delete().Before("gorm:delete").Register("teste:falhar_colaborador", func(tx *gorm.DB) {
		if tx.Statement.Table == "colaboradores" {
			_ = tx.AddError(errors.New("disco cheio"))
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := r.ExcluirColaborador(ctx, "c1"); !errors.Is(err, ErrFalhaArmazenamento) {
		t.Fatalf("err = %v, want ErrFalhaArmazenamento", err)
	}

	dados, err := r.Carregar(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := grafoExemplo()
	want.Normalizar()
	if got, w := mustJSON(t, dados), mustJSON(t, want); got != w {
		t.Errorf("estado mudou após rollback\n got: %s\nwant: %s", got, w)
	}
}
