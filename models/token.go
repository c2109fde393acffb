package models

import "time"

// TokenStatus representa a etapa do fluxo de design/emissão do token.
type TokenStatus string

const (
	TokenStatusDraft       TokenStatus = "draft"
	TokenStatusUnderReview TokenStatus = "under_review"
	TokenStatusApproved    TokenStatus = "approved"
	TokenStatusPendingMint TokenStatus = "pending_mint"
	TokenStatusMinted      TokenStatus = "minted"
	TokenStatusRejected    TokenStatus = "rejected"
)

// Valid indica se o status pertence ao conjunto conhecido.
func (s TokenStatus) Valid() bool {
	switch s {
	case TokenStatusDraft, TokenStatusUnderReview, TokenStatusApproved,
		TokenStatusPendingMint, TokenStatusMinted, TokenStatusRejected:
		return true
	}
	return false
}

// TokenRecord é a linha persistida de um token: a especificação de origem
// mais o último texto de contrato gerado.
type TokenRecord struct {
	ID           string             `json:"id" db:"id"`
	Name         string             `json:"name" db:"name"`
	Symbol       string             `json:"symbol" db:"symbol"`
	Standard     Standard           `json:"standard" db:"standard"`
	Spec         TokenSpecification `json:"spec" db:"spec"`
	ContractText string             `json:"contract_text" db:"contract_text"` // último fullText gerado
	Status       TokenStatus        `json:"status" db:"status"`
	MintAddress  string             `json:"mint_address,omitempty" db:"mint_address"` // endereço do Mint na Solana
	MintedSupply int64              `json:"minted_supply" db:"minted_supply"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" db:"updated_at"`
}

// TokenVersion é uma entrada do histórico append-only de especificações.
type TokenVersion struct {
	ID            string             `json:"id" db:"id"`
	TokenID       string             `json:"token_id" db:"token_id"`
	VersionNumber int                `json:"version_number" db:"version_number"`
	Spec          TokenSpecification `json:"spec" db:"spec"`
	CreatedAt     time.Time          `json:"created_at" db:"created_at"`
}
