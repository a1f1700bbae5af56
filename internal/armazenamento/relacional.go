package armazenamento

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/KromaEnergia/api-departamento-pessoal/internal/models"
)

const tamanhoLote = 100

// Relacional guarda cada entidade em sua tabela. Empréstimos e lançamentos
// apontam para colaboradores com chave estrangeira ON DELETE CASCADE, e toda
// escrita roda dentro de uma transação.
type Relacional struct {
	DB *gorm.DB
}

// NewRelacional cria as tabelas que faltarem.
func NewRelacional(db *gorm.DB) (*Relacional, error) {
	if err := db.AutoMigrate(
		&models.Colaborador{},
		&models.Emprestimo{},
		&models.Lancamento{},
	); err != nil {
		return nil, falha("automigrate", err)
	}
	return &Relacional{DB: db}, nil
}

// Carregar lê as três tabelas. Ao contrário do modo documento, erros de
// leitura sobem para o chamador: um grafo vazio aqui seria gravado por cima
// dos dados na próxima escrita.
func (r *Relacional) Carregar(ctx context.Context) (*models.Dados, error) {
	dados := models.NovosDados()

	err := r.DB.WithContext(ctx).
		Preload("Emprestimos", func(db *gorm.DB) *gorm.DB {
			return db.Order("ordem ASC").Order("id ASC")
		}).
		Order("id ASC").
		Find(&dados.Colaboradores).Error
	if err != nil {
		return nil, falha("carregar colaboradores", err)
	}

	if err := r.DB.WithContext(ctx).
		Order("mes ASC").
		Order("id ASC").
		Find(&dados.Lancamentos).Error; err != nil {
		return nil, falha("carregar lancamentos", err)
	}

	dados.Normalizar()
	return dados, nil
}

// Salvar sincroniza as tabelas com o grafo: apaga as linhas que sumiram
// (dependentes antes dos colaboradores) e faz upsert do resto.
func (r *Relacional) Salvar(ctx context.Context, dados *models.Dados) error {
	dados.Normalizar()
	colaboradores, emprestimos, lancamentos := achatar(dados)

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := excluirAusentes(tx, &models.Lancamento{}, ids(lancamentos, func(l models.Lancamento) string { return l.ID })); err != nil {
			return err
		}
		if err := excluirAusentes(tx, &models.Emprestimo{}, ids(emprestimos, func(e models.Emprestimo) string { return e.ID })); err != nil {
			return err
		}
		if err := excluirAusentes(tx, &models.Colaborador{}, ids(colaboradores, func(c models.Colaborador) string { return c.ID })); err != nil {
			return err
		}

		return inserirGrafo(tx, colaboradores, emprestimos, lancamentos, true)
	})
	if err != nil {
		return falha("salvar", err)
	}
	return nil
}

// ExcluirColaborador apaga empréstimos, lançamentos e o colaborador na mesma
// transação. Qualquer erro desfaz tudo.
func (r *Relacional) ExcluirColaborador(ctx context.Context, id string) (ResultadoExclusao, error) {
	var res ResultadoExclusao

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Colaborador{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return models.ErrColaboradorNaoEncontrado
		}

		q := tx.Where("colaborador_id = ?", id).Delete(&models.Emprestimo{})
		if q.Error != nil {
			return q.Error
		}
		res.EmprestimosRemovidos = int(q.RowsAffected)

		q = tx.Where("colaborador_id = ?", id).Delete(&models.Lancamento{})
		if q.Error != nil {
			return q.Error
		}
		res.LancamentosRemovidos = int(q.RowsAffected)

		return tx.Where("id = ?", id).Delete(&models.Colaborador{}).Error
	})
	if errors.Is(err, models.ErrColaboradorNaoEncontrado) {
		return ResultadoExclusao{}, err
	}
	if err != nil {
		return ResultadoExclusao{}, falha("excluir colaborador", err)
	}
	return res, nil
}

// Substituir esvazia as tabelas e insere o grafo recebido. As chaves
// estrangeiras do banco continuam valendo: um lançamento apontando para
// colaborador inexistente faz a transação inteira voltar.
func (r *Relacional) Substituir(ctx context.Context, dados *models.Dados) error {
	dados.Normalizar()
	colaboradores, emprestimos, lancamentos := achatar(dados)

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, modelo := range []any{&models.Lancamento{}, &models.Emprestimo{}, &models.Colaborador{}} {
			if err := tx.Where("1 = 1").Delete(modelo).Error; err != nil {
				return err
			}
		}

		return inserirGrafo(tx, colaboradores, emprestimos, lancamentos, false)
	})
	if err != nil {
		return falha("substituir", err)
	}
	return nil
}

// Close fecha o pool de conexões.
func (r *Relacional) Close() error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// achatar separa o grafo em linhas por tabela.
func achatar(dados *models.Dados) ([]models.Colaborador, []models.Emprestimo, []models.Lancamento) {
	colaboradores := make([]models.Colaborador, 0, len(dados.Colaboradores))
	var emprestimos []models.Emprestimo
	for _, c := range dados.Colaboradores {
		emprestimos = append(emprestimos, c.Emprestimos...)
		c.Emprestimos = nil
		colaboradores = append(colaboradores, c)
	}

	lancamentos := make([]models.Lancamento, 0, len(dados.Lancamentos))
	for _, l := range dados.Lancamentos {
		l.Colaborador = nil
		lancamentos = append(lancamentos, l)
	}
	return colaboradores, emprestimos, lancamentos
}

// inserirGrafo grava as linhas na ordem exigida pelas chaves estrangeiras.
// Com upsert, linhas já existentes têm todas as colunas atualizadas.
func inserirGrafo(tx *gorm.DB, colaboradores []models.Colaborador, emprestimos []models.Emprestimo, lancamentos []models.Lancamento, upsert bool) error {
	if err := inserir(tx, colaboradores, upsert); err != nil {
		return err
	}
	if err := inserir(tx, emprestimos, upsert); err != nil {
		return err
	}
	return inserir(tx, lancamentos, upsert)
}

func inserir[T any](tx *gorm.DB, linhas []T, upsert bool) error {
	if len(linhas) == 0 {
		return nil
	}
	q := tx.Omit(clause.Associations)
	if upsert {
		q = q.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		})
	}
	return q.CreateInBatches(linhas, tamanhoLote).Error
}

func ids[T any](itens []T, id func(T) string) []string {
	out := make([]string, 0, len(itens))
	for _, it := range itens {
		out = append(out, id(it))
	}
	return out
}

func excluirAusentes(tx *gorm.DB, modelo any, manter []string) error {
	q := tx.Where("1 = 1")
	if len(manter) > 0 {
		q = tx.Where("id NOT IN ?", manter)
	}
	return q.Delete(modelo).Error
}
