package models

import "time"

// AllocationStatus acompanha uma alocação de investidor até a distribuição.
type AllocationStatus string

const (
	AllocationStatusPending     AllocationStatus = "pending"
	AllocationStatusConfirmed   AllocationStatus = "confirmed"
	AllocationStatusMinted      AllocationStatus = "minted"
	AllocationStatusDistributed AllocationStatus = "distributed"
)

func (s AllocationStatus) Valid() bool {
	switch s {
	case AllocationStatusPending, AllocationStatusConfirmed, AllocationStatusMinted, AllocationStatusDistributed:
		return true
	}
	return false
}

// Allocation representa a quantidade de tokens reservada a um investidor.
type Allocation struct {
	ID            string           `json:"id" db:"id"`
	InvestorName  string           `json:"investor_name" db:"investor_name"`
	InvestorEmail string           `json:"investor_email" db:"investor_email"`
	TokenID       string           `json:"token_id" db:"token_id"`
	TokenType     string           `json:"token_type" db:"token_type"` // ex: "ERC-20", "ERC-3525"
	Amount        int64            `json:"amount" db:"amount"`
	Status        AllocationStatus `json:"status" db:"status"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" db:"updated_at"`
}

// Distribution registra a entrega on-chain de uma alocação já emitida.
type Distribution struct {
	ID              string    `json:"id" db:"id"`
	AllocationID    string    `json:"allocation_id" db:"allocation_id"`
	TokenID         string    `json:"token_id" db:"token_id"`
	InvestorName    string    `json:"investor_name" db:"investor_name"`
	Amount          int64     `json:"amount" db:"amount"`
	WalletAddress   string    `json:"wallet_address" db:"wallet_address"`
	TransactionHash string    `json:"transaction_hash" db:"transaction_hash"`
	DistributedAt   time.Time `json:"distributed_at" db:"distributed_at"`
}

// AllocationFilter restringe a listagem de alocações; campos vazios não filtram.
type AllocationFilter struct {
	Status  AllocationStatus
	TokenID string
	Search  string // procura em nome/email do investidor
}

// AllocationTotal agrega alocações por token e status para o resumo do cap table.
type AllocationTotal struct {
	TokenID string           `json:"token_id" db:"token_id"`
	Status  AllocationStatus `json:"status" db:"status"`
	Count   int64            `json:"count" db:"count"`
	Amount  int64            `json:"amount" db:"amount"`
}
