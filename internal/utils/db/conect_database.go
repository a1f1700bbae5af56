package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/KromaEnergia/api-departamento-pessoal/internal/config"
)

// Dialector escolhe o driver do gorm a partir da configuração do banco.
func Dialector(cfg config.Banco) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.Caminho); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("criar diretório do sqlite: %w", err)
			}
		}
		return sqlite.Open(SQLiteDSN(cfg.Caminho)), nil
	default:
		return nil, fmt.Errorf("driver de banco desconhecido: %q", cfg.Driver)
	}
}

// SQLiteDSN liga as chaves estrangeiras, desligadas por padrão no SQLite.
func SQLiteDSN(caminho string) string {
	return caminho + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// ConnectDataBase abre a conexão com log do gorm restrito a erros.
func ConnectDataBase(dialector gorm.Dialector) (*gorm.DB, error) {
	database, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("conectar ao banco: %w", err)
	}
	return database, nil
}
