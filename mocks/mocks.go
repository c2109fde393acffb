// Package mocks reúne os mocks testify usados pelos testes de services e handlers.
package mocks

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/mock"

	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/models"
	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/services"
)

var (
	_ services.TokenStore    = (*MockDB)(nil)
	_ services.CapTableStore = (*MockDB)(nil)
	_ services.MintStore     = (*MockDB)(nil)
	_ services.ChainClient   = (*MockChainClient)(nil)
)

// MockDB é uma implementação mock do storage.DB para testes de unidade
type MockDB struct {
	mock.Mock
}

func (m *MockDB) SaveToken(ctx context.Context, token models.TokenRecord, version *models.TokenVersion) error {
	args := m.Called(ctx, token, version)
	return args.Error(0)
}
func (m *MockDB) GetToken(ctx context.Context, id string) (models.TokenRecord, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.TokenRecord), args.Bool(1), args.Error(2)
}
func (m *MockDB) ListTokens(ctx context.Context, status models.TokenStatus, limit int) ([]models.TokenRecord, error) {
	args := m.Called(ctx, status, limit)
	return args.Get(0).([]models.TokenRecord), args.Error(1)
}
func (m *MockDB) ListPendingMints(ctx context.Context, limit int) ([]models.TokenRecord, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.TokenRecord), args.Error(1)
}
func (m *MockDB) TouchPendingMint(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockDB) UpdateTokenStatus(ctx context.Context, id string, status models.TokenStatus) (bool, error) {
	args := m.Called(ctx, id, status)
	return args.Bool(0), args.Error(1)
}
func (m *MockDB) UpdateTokenMint(ctx context.Context, id, mintAddress string, mintedSupply int64, status models.TokenStatus) (bool, error) {
	args := m.Called(ctx, id, mintAddress, mintedSupply, status)
	return args.Bool(0), args.Error(1)
}
func (m *MockDB) LatestVersionNumber(ctx context.Context, tokenID string) (int, error) {
	args := m.Called(ctx, tokenID)
	return args.Int(0), args.Error(1)
}
func (m *MockDB) ListVersions(ctx context.Context, tokenID string) ([]models.TokenVersion, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).([]models.TokenVersion), args.Error(1)
}
func (m *MockDB) GetVersion(ctx context.Context, tokenID string, number int) (models.TokenVersion, bool, error) {
	args := m.Called(ctx, tokenID, number)
	return args.Get(0).(models.TokenVersion), args.Bool(1), args.Error(2)
}
func (m *MockDB) SaveAllocation(ctx context.Context, a models.Allocation) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockDB) GetAllocation(ctx context.Context, id string) (models.Allocation, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Allocation), args.Bool(1), args.Error(2)
}
func (m *MockDB) ListAllocations(ctx context.Context, filter models.AllocationFilter) ([]models.Allocation, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Allocation), args.Error(1)
}
func (m *MockDB) UpdateAllocationStatus(ctx context.Context, ids []string, status models.AllocationStatus) (int64, error) {
	args := m.Called(ctx, ids, status)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockDB) AllocationTotals(ctx context.Context) ([]models.AllocationTotal, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.AllocationTotal), args.Error(1)
}
func (m *MockDB) RecordDistribution(ctx context.Context, d models.Distribution) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}
func (m *MockDB) ListDistributions(ctx context.Context, tokenID string) ([]models.Distribution, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).([]models.Distribution), args.Error(1)
}

// MockChainClient é uma implementação mock do services.ChainClient
type MockChainClient struct {
	mock.Mock
}

func (m *MockChainClient) GetTokenSupply(ctx context.Context, mint solana.PublicKey) (uint64, error) {
	args := m.Called(ctx, mint)
	return args.Get(0).(uint64), args.Error(1)
}
