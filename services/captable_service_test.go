package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/mocks"
	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/models"
	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/services"
	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/storage"
)

func TestCreateAllocation(t *testing.T) {
	mockDB := new(mocks.MockDB)
	service := services.NewCapTableService(mockDB, nil)
	ctx := context.Background()

	mockDB.On("SaveAllocation", ctx, mock.MatchedBy(func(a models.Allocation) bool {
		return a.Status == models.AllocationStatusPending && a.InvestorName == "Ana Souza" && a.Amount == 2500
	})).Return(nil).Once()

	allocation, err := service.CreateAllocation(ctx, services.AllocationInput{
		InvestorName: "  Ana Souza ",
		TokenID:      tokenID,
		Amount:       2500,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, allocation.ID)
	mockDB.AssertExpectations(t)
}

func TestCreateAllocationValidation(t *testing.T) {
	mockDB := new(mocks.MockDB)
	service := services.NewCapTableService(mockDB, nil)
	ctx := context.Background()

	_, err := service.CreateAllocation(ctx, services.AllocationInput{Amount: 10})
	assert.ErrorIs(t, err, services.ErrInvalidAllocation)

	_, err = service.CreateAllocation(ctx, services.AllocationInput{InvestorName: "Ana", Amount: 0})
	assert.ErrorIs(t, err, services.ErrInvalidAllocation)

	mockDB.AssertNotCalled(t, "SaveAllocation", mock.Anything, mock.Anything)
}

// TestBulkUpdateStatusDeduplicates verifica que IDs repetidos ou vazios não chegam ao banco
func TestBulkUpdateStatusDeduplicates(t *testing.T) {
	mockDB := new(mocks.MockDB)
	service := services.NewCapTableService(mockDB, nil)
	ctx := context.Background()

	mockDB.On("UpdateAllocationStatus", ctx, []string{allocationID, otherAllocationID}, models.AllocationStatusConfirmed).Return(int64(2), nil).Once()

	n, err := service.BulkUpdateStatus(ctx, []string{allocationID, " " + otherAllocationID, allocationID, ""}, models.AllocationStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = service.BulkUpdateStatus(ctx, []string{allocationID}, "lost")
	assert.ErrorIs(t, err, services.ErrInvalidStatus)

	_, err = service.BulkUpdateStatus(ctx, []string{allocationID}, models.AllocationStatusDistributed)
	assert.ErrorIs(t, err, services.ErrInvalidStatus, "distributed só via CreateDistribution")

	_, err = service.BulkUpdateStatus(ctx, []string{allocationID, "abc"}, models.AllocationStatusConfirmed)
	assert.ErrorIs(t, err, services.ErrInvalidAllocation)

	n, err = service.BulkUpdateStatus(ctx, nil, models.AllocationStatusConfirmed)
	require.NoError(t, err)
	assert.Zero(t, n)
	mockDB.AssertExpectations(t)
}

func TestCreateDistribution(t *testing.T) {
	mockDB := new(mocks.MockDB)
	service := services.NewCapTableService(mockDB, nil)
	ctx := context.Background()
	wallet := solana.NewWallet().PublicKey().String()

	allocation := models.Allocation{ID: allocationID, TokenID: tokenID, InvestorName: "Ana", Amount: 100, Status: models.AllocationStatusMinted}
	mockDB.On("GetAllocation", ctx, allocationID).Return(allocation, true, nil).Once()
	mockDB.On("RecordDistribution", ctx, mock.MatchedBy(func(d models.Distribution) bool {
		return d.AllocationID == allocationID && d.WalletAddress == wallet && d.Amount == 100
	})).Return(nil).Once()

	dist, err := service.CreateDistribution(ctx, allocationID, wallet, "5xTx")

	require.NoError(t, err)
	assert.Equal(t, tokenID, dist.TokenID)
	mockDB.AssertExpectations(t)
}

func TestCreateDistributionErrors(t *testing.T) {
	mockDB := new(mocks.MockDB)
	service := services.NewCapTableService(mockDB, nil)
	ctx := context.Background()
	wallet := solana.NewWallet().PublicKey().String()

	_, err := service.CreateDistribution(ctx, allocationID, "not-a-wallet", "")
	assert.ErrorIs(t, err, services.ErrInvalidWalletAddress)

	_, err = service.CreateDistribution(ctx, "abc", wallet, "")
	assert.ErrorIs(t, err, services.ErrAllocationNotFound)

	mockDB.On("GetAllocation", ctx, missingID).Return(models.Allocation{}, false, nil).Once()
	_, err = service.CreateDistribution(ctx, missingID, wallet, "")
	assert.ErrorIs(t, err, services.ErrAllocationNotFound)

	mockDB.On("GetAllocation", ctx, pendingAllocationID).Return(models.Allocation{ID: pendingAllocationID}, true, nil).Once()
	mockDB.On("RecordDistribution", ctx, mock.AnythingOfType("models.Distribution")).Return(storage.ErrNotDistributable).Once()
	_, err = service.CreateDistribution(ctx, pendingAllocationID, wallet, "")
	assert.ErrorIs(t, err, services.ErrAllocationNotMinted)

	mockDB.On("GetAllocation", ctx, brokenAllocationID).Return(models.Allocation{}, false, errors.New("conexão perdida")).Once()
	_, err = service.CreateDistribution(ctx, brokenAllocationID, wallet, "")
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	mockDB := new(mocks.MockDB)
	service := services.NewCapTableService(mockDB, nil)
	ctx := context.Background()

	mockDB.On("AllocationTotals", ctx).Return([]models.AllocationTotal{
		{TokenID: otherTokenID, Status: models.AllocationStatusPending, Count: 1, Amount: 50},
		{TokenID: tokenID, Status: models.AllocationStatusMinted, Count: 2, Amount: 300},
		{TokenID: tokenID, Status: models.AllocationStatusConfirmed, Count: 1, Amount: 200},
	}, nil).Once()

	summary, err := service.Summary(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(550), summary.Total)
	assert.Equal(t, int64(500), summary.ByToken[tokenID])
	assert.Equal(t, int64(50), summary.ByStatus[models.AllocationStatusPending])
	require.Len(t, summary.Rows, 3)
	assert.Equal(t, models.AllocationStatusConfirmed, summary.Rows[0].Status)
	assert.Equal(t, otherTokenID, summary.Rows[2].TokenID)
}
