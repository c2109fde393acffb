package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/models"
)

var (
	ErrInvalidMintAddress = errors.New("endereço de Mint inválido")
	ErrMintNotRegistered  = errors.New("token sem endereço de Mint registrado")
	ErrAlreadyMinted      = errors.New("token já emitido")
)

// ChainClient é o acesso mínimo à blockchain usado para conferir emissões.
type ChainClient interface {
	GetTokenSupply(ctx context.Context, mint solana.PublicKey) (uint64, error)
}

// SolanaChainClient implementa ChainClient via RPC da Solana.
type SolanaChainClient struct {
	RPCClient  *rpc.Client
	Commitment rpc.CommitmentType
}

// NewSolanaChainClient cria o cliente RPC. Commitment vazio usa finalized.
func NewSolanaChainClient(rpcURL string, commitment string) *SolanaChainClient {
	c := rpc.CommitmentType(commitment)
	if commitment == "" {
		c = rpc.CommitmentFinalized
	}
	return &SolanaChainClient{RPCClient: rpc.New(rpcURL), Commitment: c}
}

// GetTokenSupply obtém o supply atual do Mint em unidades atômicas.
func (c *SolanaChainClient) GetTokenSupply(ctx context.Context, mint solana.PublicKey) (uint64, error) {
	resp, err := c.RPCClient.GetTokenSupply(ctx, mint, c.Commitment)
	if err != nil {
		return 0, fmt.Errorf("falha ao obter supply do Mint %s: %w", mint, err)
	}
	if resp == nil || resp.Value == nil {
		return 0, fmt.Errorf("resposta vazia para o Mint %s", mint)
	}
	supply, err := strconv.ParseUint(resp.Value.Amount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("supply inválido para o Mint %s: %w", mint, err)
	}
	return supply, nil
}

// MintStore é a parte do storage.DB usada pela conferência de emissões.
type MintStore interface {
	GetToken(ctx context.Context, id string) (models.TokenRecord, bool, error)
	ListPendingMints(ctx context.Context, limit int) ([]models.TokenRecord, error)
	TouchPendingMint(ctx context.Context, id string) error
	UpdateTokenMint(ctx context.Context, id, mintAddress string, mintedSupply int64, status models.TokenStatus) (bool, error)
}

// MintingService acompanha o status de emissão on-chain dos tokens.
type MintingService struct {
	DB     MintStore
	Chain  ChainClient
	logger *zap.Logger
}

func NewMintingService(db MintStore, chain ChainClient, logger *zap.Logger) *MintingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MintingService{DB: db, Chain: chain, logger: logger}
}

// RegisterMint associa o endereço do Mint ao token e o coloca em pending_mint.
func (s *MintingService) RegisterMint(ctx context.Context, tokenID, mintAddress string) (models.TokenRecord, error) {
	if _, err := uuid.Parse(tokenID); err != nil {
		return models.TokenRecord{}, ErrTokenNotFound
	}
	mint, err := solana.PublicKeyFromBase58(strings.TrimSpace(mintAddress))
	if err != nil {
		return models.TokenRecord{}, fmt.Errorf("%w: %v", ErrInvalidMintAddress, err)
	}

	token, found, err := s.DB.GetToken(ctx, tokenID)
	if err != nil {
		return models.TokenRecord{}, fmt.Errorf("erro ao buscar token: %w", err)
	}
	if !found {
		return models.TokenRecord{}, ErrTokenNotFound
	}
	if token.Status == models.TokenStatusMinted {
		return models.TokenRecord{}, ErrAlreadyMinted
	}

	if _, err := s.DB.UpdateTokenMint(ctx, tokenID, mint.String(), 0, models.TokenStatusPendingMint); err != nil {
		return models.TokenRecord{}, err
	}
	token.MintAddress = mint.String()
	token.MintedSupply = 0
	token.Status = models.TokenStatusPendingMint
	s.logger.Info("Mint registrado", zap.String("token_id", tokenID), zap.String("mint", token.MintAddress))
	return token, nil
}

// VerifyMint consulta o supply on-chain; supply positivo marca o token como emitido.
// Quando nada muda (supply zero ou falha de RPC) o token vai para o fim da fila de PendingMints.
func (s *MintingService) VerifyMint(ctx context.Context, tokenID string) (models.TokenRecord, error) {
	if _, err := uuid.Parse(tokenID); err != nil {
		return models.TokenRecord{}, ErrTokenNotFound
	}
	token, found, err := s.DB.GetToken(ctx, tokenID)
	if err != nil {
		return models.TokenRecord{}, fmt.Errorf("erro ao buscar token: %w", err)
	}
	if !found {
		return models.TokenRecord{}, ErrTokenNotFound
	}
	if token.MintAddress == "" {
		return models.TokenRecord{}, ErrMintNotRegistered
	}
	mint, err := solana.PublicKeyFromBase58(token.MintAddress)
	if err != nil {
		return models.TokenRecord{}, fmt.Errorf("%w: %v", ErrInvalidMintAddress, err)
	}

	supply, err := s.Chain.GetTokenSupply(ctx, mint)
	if err != nil {
		s.touch(ctx, token)
		return models.TokenRecord{}, fmt.Errorf("falha ao verificar supply na Solana: %w", err)
	}
	if supply == 0 {
		s.logger.Debug("Mint ainda sem supply", zap.String("token_id", tokenID), zap.String("mint", token.MintAddress))
		s.touch(ctx, token)
		return token, nil
	}

	minted := int64(math.MaxInt64)
	if supply <= math.MaxInt64 {
		minted = int64(supply)
	}
	if _, err := s.DB.UpdateTokenMint(ctx, tokenID, token.MintAddress, minted, models.TokenStatusMinted); err != nil {
		return models.TokenRecord{}, err
	}
	token.MintedSupply = minted
	token.Status = models.TokenStatusMinted
	s.logger.Info("Emissão confirmada on-chain",
		zap.String("token_id", tokenID), zap.String("mint", token.MintAddress), zap.Uint64("supply", supply))
	return token, nil
}

func (s *MintingService) touch(ctx context.Context, token models.TokenRecord) {
	if token.Status != models.TokenStatusPendingMint {
		return
	}
	if err := s.DB.TouchPendingMint(ctx, token.ID); err != nil {
		s.logger.Warn("Falha ao reposicionar token pendente", zap.String("token_id", token.ID), zap.Error(err))
	}
}

// PendingMints lista até limit tokens em pending_mint, os verificados há mais tempo primeiro.
func (s *MintingService) PendingMints(ctx context.Context, limit int) ([]models.TokenRecord, error) {
	return s.DB.ListPendingMints(ctx, limit)
}
