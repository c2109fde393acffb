package blockchain_listener

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/models"
)

// MintVerifier é implementado por services.MintingService.
type MintVerifier interface {
	PendingMints(ctx context.Context, limit int) ([]models.TokenRecord, error)
	VerifyMint(ctx context.Context, tokenID string) (models.TokenRecord, error)
}

// MintReconciler consulta periodicamente a Solana para confirmar tokens em pending_mint.
type MintReconciler struct {
	Minting   MintVerifier
	Interval  time.Duration
	BatchSize int
	logger    *zap.Logger
}

// NewMintReconciler cria o reconciliador. Valores não positivos usam 30s e lote de 50.
func NewMintReconciler(minting MintVerifier, interval time.Duration, batchSize int, logger *zap.Logger) *MintReconciler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MintReconciler{Minting: minting, Interval: interval, BatchSize: batchSize, logger: logger}
}

// Run executa uma rodada imediatamente e depois a cada Interval, até ctx ser cancelado.
func (m *MintReconciler) Run(ctx context.Context) error {
	m.logger.Info("Reconciliador de emissões iniciado",
		zap.Duration("interval", m.Interval), zap.Int("batch_size", m.BatchSize))

	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	for {
		if _, err := m.ReconcileOnce(ctx); err != nil && ctx.Err() == nil {
			m.logger.Warn("Falha na rodada de reconciliação", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			m.logger.Info("Reconciliador de emissões encerrado")
			return nil
		case <-ticker.C:
		}
	}
}

// ReconcileOnce verifica um lote de tokens pendentes e devolve quantos foram confirmados.
// Falhas individuais são logadas e não interrompem o lote.
func (m *MintReconciler) ReconcileOnce(ctx context.Context) (int, error) {
	pending, err := m.Minting.PendingMints(ctx, m.BatchSize)
	if err != nil {
		return 0, err
	}

	confirmed := 0
	for _, token := range pending {
		if ctx.Err() != nil {
			return confirmed, ctx.Err()
		}
		updated, err := m.Minting.VerifyMint(ctx, token.ID)
		if err != nil {
			m.logger.Warn("Falha ao verificar emissão",
				zap.String("token_id", token.ID), zap.String("mint", token.MintAddress), zap.Error(err))
			continue
		}
		if updated.Status == models.TokenStatusMinted {
			confirmed++
		}
	}
	if len(pending) > 0 {
		m.logger.Debug("Rodada de reconciliação concluída",
			zap.Int("pending", len(pending)), zap.Int("confirmed", confirmed))
	}
	return confirmed, nil
}
