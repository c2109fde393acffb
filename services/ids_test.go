package services_test

const (
	tokenID             = "6d2b1f0e-7c1a-4e4b-9b2f-0a1c3e5d7f01"
	otherTokenID        = "6d2b1f0e-7c1a-4e4b-9b2f-0a1c3e5d7f02"
	mintedTokenID       = "6d2b1f0e-7c1a-4e4b-9b2f-0a1c3e5d7f03"
	noMintTokenID       = "6d2b1f0e-7c1a-4e4b-9b2f-0a1c3e5d7f04"
	rpcDownTokenID      = "6d2b1f0e-7c1a-4e4b-9b2f-0a1c3e5d7f05"
	missingID           = "6d2b1f0e-7c1a-4e4b-9b2f-0a1c3e5d7f99"
	allocationID        = "a4c3e2d1-5b6a-4f7e-8d9c-0b1a2c3d4e01"
	otherAllocationID   = "a4c3e2d1-5b6a-4f7e-8d9c-0b1a2c3d4e02"
	pendingAllocationID = "a4c3e2d1-5b6a-4f7e-8d9c-0b1a2c3d4e03"
	brokenAllocationID  = "a4c3e2d1-5b6a-4f7e-8d9c-0b1a2c3d4e04"
)
