package storage

import (
	"embed"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

var (
	// ErrConflict indica violação de unicidade (ex.: número de versão já usado).
	ErrConflict = errors.New("registro em conflito")
	// ErrNotDistributable indica que a alocação não está apta a ser distribuída.
	ErrNotDistributable = errors.New("alocação não está emitida ou já foi distribuída")
)

// DB representa a conexão com o banco de dados PostgreSQL.
type DB struct {
	*sqlx.DB
	logger *zap.Logger
}

// Options ajusta o pool de conexões.
type Options struct {
	MaxOpenConns int
	MaxIdleConns int
}

// NewDB conecta-se ao PostgreSQL e valida a conexão.
func NewDB(dataSourceName string, opts Options, logger *zap.Logger) (*DB, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar ao banco de dados: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("falha ao pingar o banco de dados: %w", err)
	}
	logger.Info("Conexão com PostgreSQL estabelecida com sucesso.")

	return &DB{DB: db, logger: logger}, nil
}

// MigrationSource expõe as migrações SQL embutidas no binário.
func MigrationSource() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations",
	}
}

// Migrate aplica (ou desfaz) as migrações usando sql-migrate.
func (d *DB) Migrate(direction migrate.MigrationDirection) (int, error) {
	n, err := migrate.Exec(d.DB.DB, "postgres", MigrationSource(), direction)
	if err != nil {
		return 0, fmt.Errorf("erro ao aplicar migrações: %w", err)
	}
	if n > 0 {
		d.logger.Info("Migrações aplicadas ao banco de dados.", zap.Int("count", n))
	} else {
		d.logger.Info("Nenhuma migração nova para aplicar.")
	}
	return n, nil
}

// mapError traduz erros do driver para os erros do pacote.
func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrConflict, pqErr.Constraint)
	}
	return err
}
