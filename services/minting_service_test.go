package services_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/mocks"
	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/models"
	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/services"
)

func TestRegisterMint(t *testing.T) {
	mockDB := new(mocks.MockDB)
	chain := new(mocks.MockChainClient)
	service := services.NewMintingService(mockDB, chain, nil)
	ctx := context.Background()
	mint := solana.NewWallet().PublicKey()

	mockDB.On("GetToken", ctx, tokenID).Return(models.TokenRecord{ID: tokenID, Status: models.TokenStatusApproved}, true, nil).Once()
	mockDB.On("UpdateTokenMint", ctx, tokenID, mint.String(), int64(0), models.TokenStatusPendingMint).Return(true, nil).Once()

	token, err := service.RegisterMint(ctx, tokenID, mint.String())

	require.NoError(t, err)
	assert.Equal(t, models.TokenStatusPendingMint, token.Status)
	assert.Equal(t, mint.String(), token.MintAddress)
	mockDB.AssertExpectations(t)
}

func TestRegisterMintErrors(t *testing.T) {
	mockDB := new(mocks.MockDB)
	service := services.NewMintingService(mockDB, new(mocks.MockChainClient), nil)
	ctx := context.Background()
	mint := solana.NewWallet().PublicKey().String()

	_, err := service.RegisterMint(ctx, tokenID, "0xdeadbeef")
	assert.ErrorIs(t, err, services.ErrInvalidMintAddress)

	_, err = service.RegisterMint(ctx, "abc", mint)
	assert.ErrorIs(t, err, services.ErrTokenNotFound)
	mockDB.AssertNotCalled(t, "GetToken", mock.Anything, "abc")

	mockDB.On("GetToken", ctx, missingID).Return(models.TokenRecord{}, false, nil).Once()
	_, err = service.RegisterMint(ctx, missingID, mint)
	assert.ErrorIs(t, err, services.ErrTokenNotFound)

	mockDB.On("GetToken", ctx, mintedTokenID).Return(models.TokenRecord{ID: mintedTokenID, Status: models.TokenStatusMinted}, true, nil).Once()
	_, err = service.RegisterMint(ctx, mintedTokenID, mint)
	assert.ErrorIs(t, err, services.ErrAlreadyMinted)

	mockDB.AssertNotCalled(t, "UpdateTokenMint", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyMintConfirmsSupply(t *testing.T) {
	mockDB := new(mocks.MockDB)
	chain := new(mocks.MockChainClient)
	service := services.NewMintingService(mockDB, chain, nil)
	ctx := context.Background()
	mint := solana.NewWallet().PublicKey()

	pending := models.TokenRecord{ID: tokenID, Status: models.TokenStatusPendingMint, MintAddress: mint.String()}
	mockDB.On("GetToken", ctx, tokenID).Return(pending, true, nil).Once()
	chain.On("GetTokenSupply", ctx, mint).Return(uint64(1_000_000), nil).Once()
	mockDB.On("UpdateTokenMint", ctx, tokenID, mint.String(), int64(1_000_000), models.TokenStatusMinted).Return(true, nil).Once()

	token, err := service.VerifyMint(ctx, tokenID)

	require.NoError(t, err)
	assert.Equal(t, models.TokenStatusMinted, token.Status)
	assert.Equal(t, int64(1_000_000), token.MintedSupply)
	mockDB.AssertExpectations(t)
	chain.AssertExpectations(t)
}

func TestVerifyMintWithoutSupplyKeepsPending(t *testing.T) {
	mockDB := new(mocks.MockDB)
	chain := new(mocks.MockChainClient)
	service := services.NewMintingService(mockDB, chain, nil)
	ctx := context.Background()
	mint := solana.NewWallet().PublicKey()

	pending := models.TokenRecord{ID: tokenID, Status: models.TokenStatusPendingMint, MintAddress: mint.String()}
	mockDB.On("GetToken", ctx, tokenID).Return(pending, true, nil).Once()
	chain.On("GetTokenSupply", ctx, mint).Return(uint64(0), nil).Once()
	mockDB.On("TouchPendingMint", ctx, tokenID).Return(nil).Once()

	token, err := service.VerifyMint(ctx, tokenID)

	require.NoError(t, err)
	assert.Equal(t, models.TokenStatusPendingMint, token.Status)
	mockDB.AssertExpectations(t)
	mockDB.AssertNotCalled(t, "UpdateTokenMint", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyMintClampsHugeSupply(t *testing.T) {
	mockDB := new(mocks.MockDB)
	chain := new(mocks.MockChainClient)
	service := services.NewMintingService(mockDB, chain, nil)
	ctx := context.Background()
	mint := solana.NewWallet().PublicKey()

	mockDB.On("GetToken", ctx, tokenID).Return(models.TokenRecord{ID: tokenID, MintAddress: mint.String()}, true, nil).Once()
	chain.On("GetTokenSupply", ctx, mint).Return(uint64(math.MaxUint64), nil).Once()
	mockDB.On("UpdateTokenMint", ctx, tokenID, mint.String(), int64(math.MaxInt64), models.TokenStatusMinted).Return(true, nil).Once()

	token, err := service.VerifyMint(ctx, tokenID)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), token.MintedSupply)
}

func TestVerifyMintErrors(t *testing.T) {
	mockDB := new(mocks.MockDB)
	chain := new(mocks.MockChainClient)
	service := services.NewMintingService(mockDB, chain, nil)
	ctx := context.Background()
	mint := solana.NewWallet().PublicKey()

	mockDB.On("GetToken", ctx, noMintTokenID).Return(models.TokenRecord{ID: noMintTokenID}, true, nil).Once()
	_, err := service.VerifyMint(ctx, noMintTokenID)
	assert.ErrorIs(t, err, services.ErrMintNotRegistered)

	mockDB.On("GetToken", ctx, rpcDownTokenID).Return(models.TokenRecord{
		ID: rpcDownTokenID, Status: models.TokenStatusPendingMint, MintAddress: mint.String(),
	}, true, nil).Once()
	chain.On("GetTokenSupply", ctx, mint).Return(uint64(0), errors.New("timeout")).Once()
	mockDB.On("TouchPendingMint", ctx, rpcDownTokenID).Return(nil).Once()
	_, err = service.VerifyMint(ctx, rpcDownTokenID)
	assert.Error(t, err)

	_, err = service.VerifyMint(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, services.ErrTokenNotFound)

	mockDB.AssertExpectations(t)

	mockDB.AssertNotCalled(t, "UpdateTokenMint", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPendingMints(t *testing.T) {
	mockDB := new(mocks.MockDB)
	service := services.NewMintingService(mockDB, new(mocks.MockChainClient), nil)
	ctx := context.Background()

	mockDB.On("ListPendingMints", ctx, 25).Return([]models.TokenRecord{{ID: tokenID}}, nil).Once()

	tokens, err := service.PendingMints(ctx, 25)
	require.NoError(t, err)
	assert.Len(t, tokens, 1)
}
