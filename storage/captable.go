package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/models"
)

const allocationColumns = `id, investor_name, investor_email, token_id, token_type, amount, status, created_at, updated_at`

// SaveAllocation insere ou atualiza uma alocação.
func (d *DB) SaveAllocation(ctx context.Context, a models.Allocation) error {
	_, err := d.NamedExecContext(ctx, `
		INSERT INTO allocations (`+allocationColumns+`)
		VALUES (:id, :investor_name, :investor_email, :token_id, :token_type, :amount, :status, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			investor_name = EXCLUDED.investor_name,
			investor_email = EXCLUDED.investor_email,
			token_id = EXCLUDED.token_id,
			token_type = EXCLUDED.token_type,
			amount = EXCLUDED.amount,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at`, a)
	if err != nil {
		return fmt.Errorf("falha ao salvar alocação: %w", mapError(err))
	}
	return nil
}

// GetAllocation busca uma alocação pelo ID.
func (d *DB) GetAllocation(ctx context.Context, id string) (models.Allocation, bool, error) {
	var a models.Allocation
	err := d.GetContext(ctx, &a, `SELECT `+allocationColumns+` FROM allocations WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Allocation{}, false, nil
	}
	if err != nil {
		return models.Allocation{}, false, fmt.Errorf("falha ao buscar alocação: %w", err)
	}
	return a, true, nil
}

// ListAllocations lista alocações aplicando os filtros não vazios.
func (d *DB) ListAllocations(ctx context.Context, filter models.AllocationFilter) ([]models.Allocation, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.TokenID != "" {
		args = append(args, filter.TokenID)
		conds = append(conds, fmt.Sprintf("token_id = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		conds = append(conds, fmt.Sprintf("(investor_name ILIKE $%d OR investor_email ILIKE $%d)", len(args), len(args)))
	}

	query := `SELECT ` + allocationColumns + ` FROM allocations`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC, id`

	allocations := []models.Allocation{}
	if err := d.SelectContext(ctx, &allocations, query, args...); err != nil {
		return nil, fmt.Errorf("falha ao listar alocações: %w", err)
	}
	return allocations, nil
}

// UpdateAllocationStatus altera o status de várias alocações de uma vez.
func (d *DB) UpdateAllocationStatus(ctx context.Context, ids []string, status models.AllocationStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`UPDATE allocations SET status = ?, updated_at = ? WHERE id IN (?)`, status, time.Now().UTC(), ids)
	if err != nil {
		return 0, fmt.Errorf("falha ao montar atualização em lote: %w", err)
	}
	res, err := d.ExecContext(ctx, d.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("falha ao atualizar status das alocações: %w", err)
	}
	return res.RowsAffected()
}

// AllocationTotals agrega quantidade e soma por token e status.
func (d *DB) AllocationTotals(ctx context.Context) ([]models.AllocationTotal, error) {
	totals := []models.AllocationTotal{}
	err := d.SelectContext(ctx, &totals, `
		SELECT token_id, status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount
		FROM allocations GROUP BY token_id, status ORDER BY token_id, status`)
	if err != nil {
		return nil, fmt.Errorf("falha ao agregar alocações: %w", err)
	}
	return totals, nil
}

// RecordDistribution marca a alocação como distribuída e grava a distribuição
// na mesma transação. Só alocações com status "minted" são aceitas.
func (d *DB) RecordDistribution(ctx context.Context, dist models.Distribution) error {
	tx, err := d.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("falha ao iniciar transação: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE allocations SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4`,
		models.AllocationStatusDistributed, dist.DistributedAt, dist.AllocationID, models.AllocationStatusMinted)
	if err != nil {
		return fmt.Errorf("falha ao atualizar alocação: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrNotDistributable
	}

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO distributions (id, allocation_id, token_id, investor_name, amount, wallet_address, transaction_hash, distributed_at)
		VALUES (:id, :allocation_id, :token_id, :investor_name, :amount, :wallet_address, :transaction_hash, :distributed_at)`, dist)
	if err != nil {
		return fmt.Errorf("falha ao salvar distribuição: %w", mapError(err))
	}
	return tx.Commit()
}

// ListDistributions lista distribuições, opcionalmente de um único token.
func (d *DB) ListDistributions(ctx context.Context, tokenID string) ([]models.Distribution, error) {
	query := `SELECT id, allocation_id, token_id, investor_name, amount, wallet_address, transaction_hash, distributed_at FROM distributions`
	var args []interface{}
	if tokenID != "" {
		query += ` WHERE token_id = $1`
		args = append(args, tokenID)
	}
	query += ` ORDER BY distributed_at DESC, id`

	distributions := []models.Distribution{}
	if err := d.SelectContext(ctx, &distributions, query, args...); err != nil {
		return nil, fmt.Errorf("falha ao listar distribuições: %w", err)
	}
	return distributions, nil
}
