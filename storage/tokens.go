package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/models"
)

const tokenColumns = `id, name, symbol, standard, spec, contract_text, status, mint_address, minted_supply, created_at, updated_at`

// SaveToken grava (ou atualiza) o token e, se informado, anexa a versão na mesma transação.
// Numa atualização o status, o Mint e o supply emitido existentes são preservados.
func (d *DB) SaveToken(ctx context.Context, token models.TokenRecord, version *models.TokenVersion) error {
	tx, err := d.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("falha ao iniciar transação: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO tokens (`+tokenColumns+`)
		VALUES (:id, :name, :symbol, :standard, :spec, :contract_text, :status, :mint_address, :minted_supply, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			symbol = EXCLUDED.symbol,
			standard = EXCLUDED.standard,
			spec = EXCLUDED.spec,
			contract_text = EXCLUDED.contract_text,
			updated_at = EXCLUDED.updated_at`, token)
	if err != nil {
		return fmt.Errorf("falha ao salvar token: %w", mapError(err))
	}

	if version != nil {
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO token_versions (id, token_id, version_number, spec, created_at)
			VALUES (:id, :token_id, :version_number, :spec, :created_at)`, version)
		if err != nil {
			return fmt.Errorf("falha ao salvar versão do token: %w", mapError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("falha ao confirmar transação: %w", err)
	}
	return nil
}

// GetToken busca um token pelo ID.
func (d *DB) GetToken(ctx context.Context, id string) (models.TokenRecord, bool, error) {
	var token models.TokenRecord
	err := d.GetContext(ctx, &token, `SELECT `+tokenColumns+` FROM tokens WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TokenRecord{}, false, nil
	}
	if err != nil {
		return models.TokenRecord{}, false, fmt.Errorf("falha ao buscar token: %w", err)
	}
	return token, true, nil
}

// ListTokens lista tokens, opcionalmente filtrando por status. limit <= 0 não limita.
func (d *DB) ListTokens(ctx context.Context, status models.TokenStatus, limit int) ([]models.TokenRecord, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens`
	var args []interface{}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(` WHERE status = $%d`, len(args))
	}
	query += ` ORDER BY created_at, id`
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	tokens := []models.TokenRecord{}
	if err := d.SelectContext(ctx, &tokens, query, args...); err != nil {
		return nil, fmt.Errorf("falha ao listar tokens: %w", err)
	}
	return tokens, nil
}

// UpdateTokenStatus altera apenas o status. Retorna false se o token não existe.
func (d *DB) UpdateTokenStatus(ctx context.Context, id string, status models.TokenStatus) (bool, error) {
	res, err := d.ExecContext(ctx, `UPDATE tokens SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return false, fmt.Errorf("falha ao atualizar status do token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListPendingMints lista tokens em pending_mint pela última verificação (updated_at) mais antiga.
func (d *DB) ListPendingMints(ctx context.Context, limit int) ([]models.TokenRecord, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE status = $1 ORDER BY updated_at, id`
	args := []interface{}{models.TokenStatusPendingMint}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	tokens := []models.TokenRecord{}
	if err := d.SelectContext(ctx, &tokens, query, args...); err != nil {
		return nil, fmt.Errorf("falha ao listar emissões pendentes: %w", err)
	}
	return tokens, nil
}

// TouchPendingMint move o token para o fim da fila de verificação.
func (d *DB) TouchPendingMint(ctx context.Context, id string) error {
	_, err := d.ExecContext(ctx,
		`UPDATE tokens SET updated_at = clock_timestamp() WHERE id = $1 AND status = $2`,
		id, models.TokenStatusPendingMint)
	if err != nil {
		return fmt.Errorf("falha ao atualizar verificação do token: %w", err)
	}
	return nil
}

// UpdateTokenMint registra endereço do Mint, supply observado e status.
func (d *DB) UpdateTokenMint(ctx context.Context, id, mintAddress string, mintedSupply int64, status models.TokenStatus) (bool, error) {
	res, err := d.ExecContext(ctx, `
		UPDATE tokens SET mint_address = $1, minted_supply = $2, status = $3, updated_at = now()
		WHERE id = $4`, mintAddress, mintedSupply, status, id)
	if err != nil {
		return false, fmt.Errorf("falha ao atualizar mint do token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// LatestVersionNumber devolve o maior número de versão do token (0 se não houver).
func (d *DB) LatestVersionNumber(ctx context.Context, tokenID string) (int, error) {
	var latest int
	err := d.GetContext(ctx, &latest,
		`SELECT COALESCE(MAX(version_number), 0) FROM token_versions WHERE token_id = $1`, tokenID)
	if err != nil {
		return 0, fmt.Errorf("falha ao buscar última versão: %w", err)
	}
	return latest, nil
}

// ListVersions lista o histórico de versões do token em ordem crescente.
func (d *DB) ListVersions(ctx context.Context, tokenID string) ([]models.TokenVersion, error) {
	versions := []models.TokenVersion{}
	err := d.SelectContext(ctx, &versions, `
		SELECT id, token_id, version_number, spec, created_at
		FROM token_versions WHERE token_id = $1 ORDER BY version_number`, tokenID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar versões: %w", err)
	}
	return versions, nil
}

// GetVersion busca uma versão específica do token.
func (d *DB) GetVersion(ctx context.Context, tokenID string, number int) (models.TokenVersion, bool, error) {
	var version models.TokenVersion
	err := d.GetContext(ctx, &version, `
		SELECT id, token_id, version_number, spec, created_at
		FROM token_versions WHERE token_id = $1 AND version_number = $2`, tokenID, number)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TokenVersion{}, false, nil
	}
	if err != nil {
		return models.TokenVersion{}, false, fmt.Errorf("falha ao buscar versão: %w", err)
	}
	return version, true, nil
}
