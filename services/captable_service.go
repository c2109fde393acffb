package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/models"
	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/storage"
)

var (
	ErrInvalidAllocation    = errors.New("alocação inválida")
	ErrAllocationNotFound   = errors.New("alocação não encontrada")
	ErrAllocationNotMinted  = errors.New("alocação ainda não emitida ou já distribuída")
	ErrInvalidWalletAddress = errors.New("endereço de carteira inválido")
)

// CapTableStore é a parte do storage.DB usada pelo cap table.
type CapTableStore interface {
	SaveAllocation(ctx context.Context, a models.Allocation) error
	GetAllocation(ctx context.Context, id string) (models.Allocation, bool, error)
	ListAllocations(ctx context.Context, filter models.AllocationFilter) ([]models.Allocation, error)
	UpdateAllocationStatus(ctx context.Context, ids []string, status models.AllocationStatus) (int64, error)
	AllocationTotals(ctx context.Context) ([]models.AllocationTotal, error)
	RecordDistribution(ctx context.Context, d models.Distribution) error
	ListDistributions(ctx context.Context, tokenID string) ([]models.Distribution, error)
}

// AllocationInput são os campos aceitos na criação de uma alocação.
type AllocationInput struct {
	InvestorName  string `json:"investor_name"`
	InvestorEmail string `json:"investor_email"`
	TokenID       string `json:"token_id"`
	TokenType     string `json:"token_type"`
	Amount        int64  `json:"amount"`
}

// CapTableSummary resume o cap table por status e por token.
type CapTableSummary struct {
	ByStatus map[models.AllocationStatus]int64 `json:"by_status"`
	ByToken  map[string]int64                  `json:"by_token"`
	Total    int64                             `json:"total"`
	Rows     []models.AllocationTotal          `json:"rows"`
}

// CapTableService cuida de alocações de investidores e distribuições.
type CapTableService struct {
	DB     CapTableStore
	logger *zap.Logger
	now    func() time.Time
}

func NewCapTableService(db CapTableStore, logger *zap.Logger) *CapTableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CapTableService{DB: db, logger: logger, now: time.Now}
}

// CreateAllocation registra uma nova alocação pendente.
func (s *CapTableService) CreateAllocation(ctx context.Context, in AllocationInput) (models.Allocation, error) {
	if strings.TrimSpace(in.InvestorName) == "" {
		return models.Allocation{}, fmt.Errorf("%w: nome do investidor é obrigatório", ErrInvalidAllocation)
	}
	if in.Amount <= 0 {
		return models.Allocation{}, fmt.Errorf("%w: quantidade deve ser positiva", ErrInvalidAllocation)
	}

	now := s.now().UTC()
	allocation := models.Allocation{
		ID:            uuid.New().String(),
		InvestorName:  strings.TrimSpace(in.InvestorName),
		InvestorEmail: strings.TrimSpace(in.InvestorEmail),
		TokenID:       in.TokenID,
		TokenType:     in.TokenType,
		Amount:        in.Amount,
		Status:        models.AllocationStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.DB.SaveAllocation(ctx, allocation); err != nil {
		return models.Allocation{}, fmt.Errorf("falha ao salvar alocação: %w", err)
	}
	return allocation, nil
}

// ListAllocations lista alocações com filtros opcionais.
func (s *CapTableService) ListAllocations(ctx context.Context, filter models.AllocationFilter) ([]models.Allocation, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, filter.Status)
	}
	return s.DB.ListAllocations(ctx, filter)
}

// BulkUpdateStatus aplica o mesmo status a várias alocações; IDs repetidos são ignorados.
// "distributed" só é alcançado via CreateDistribution.
func (s *CapTableService) BulkUpdateStatus(ctx context.Context, ids []string, status models.AllocationStatus) (int64, error) {
	if !status.Valid() || status == models.AllocationStatusDistributed {
		return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, err := uuid.Parse(id); err != nil {
			return 0, fmt.Errorf("%w: id %q não é um UUID", ErrInvalidAllocation, id)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return 0, nil
	}

	n, err := s.DB.UpdateAllocationStatus(ctx, unique, status)
	if err != nil {
		return 0, err
	}
	s.logger.Info("Status de alocações atualizado em lote",
		zap.Int("requested", len(unique)), zap.Int64("updated", n), zap.String("status", string(status)))
	return n, nil
}

// CreateDistribution entrega uma alocação já emitida para a carteira do investidor.
func (s *CapTableService) CreateDistribution(ctx context.Context, allocationID, walletAddress, transactionHash string) (models.Distribution, error) {
	if _, err := solana.PublicKeyFromBase58(strings.TrimSpace(walletAddress)); err != nil {
		return models.Distribution{}, fmt.Errorf("%w: %v", ErrInvalidWalletAddress, err)
	}

	if _, err := uuid.Parse(allocationID); err != nil {
		return models.Distribution{}, ErrAllocationNotFound
	}
	allocation, found, err := s.DB.GetAllocation(ctx, allocationID)
	if err != nil {
		return models.Distribution{}, fmt.Errorf("erro ao buscar alocação: %w", err)
	}
	if !found {
		return models.Distribution{}, ErrAllocationNotFound
	}

	dist := models.Distribution{
		ID:              uuid.New().String(),
		AllocationID:    allocation.ID,
		TokenID:         allocation.TokenID,
		InvestorName:    allocation.InvestorName,
		Amount:          allocation.Amount,
		WalletAddress:   strings.TrimSpace(walletAddress),
		TransactionHash: strings.TrimSpace(transactionHash),
		DistributedAt:   s.now().UTC(),
	}
	if err := s.DB.RecordDistribution(ctx, dist); err != nil {
		if errors.Is(err, storage.ErrNotDistributable) {
			return models.Distribution{}, ErrAllocationNotMinted
		}
		return models.Distribution{}, fmt.Errorf("falha ao registrar distribuição: %w", err)
	}
	s.logger.Info("Distribuição registrada",
		zap.String("allocation_id", allocation.ID), zap.String("wallet", dist.WalletAddress))
	return dist, nil
}

// ListDistributions lista distribuições, opcionalmente por token.
func (s *CapTableService) ListDistributions(ctx context.Context, tokenID string) ([]models.Distribution, error) {
	return s.DB.ListDistributions(ctx, tokenID)
}

// Summary agrega as alocações por status e por token.
func (s *CapTableService) Summary(ctx context.Context) (CapTableSummary, error) {
	rows, err := s.DB.AllocationTotals(ctx)
	if err != nil {
		return CapTableSummary{}, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TokenID != rows[j].TokenID {
			return rows[i].TokenID < rows[j].TokenID
		}
		return rows[i].Status < rows[j].Status
	})

	summary := CapTableSummary{
		ByStatus: make(map[models.AllocationStatus]int64),
		ByToken:  make(map[string]int64),
		Rows:     rows,
	}
	for _, row := range rows {
		summary.ByStatus[row.Status] += row.Amount
		summary.ByToken[row.TokenID] += row.Amount
		summary.Total += row.Amount
	}
	return summary, nil
}
