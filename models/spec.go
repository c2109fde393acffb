package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Standard identifica o padrão de token on-chain (conjunto fechado).
type Standard string

const (
	StandardERC20   Standard = "ERC-20"
	StandardERC721  Standard = "ERC-721"
	StandardERC1155 Standard = "ERC-1155"
	StandardERC1400 Standard = "ERC-1400"
	StandardERC3525 Standard = "ERC-3525"
	StandardERC4626 Standard = "ERC-4626"
)

// MaxDecimals é o limite superior aceito para casas decimais.
const MaxDecimals = 18

// Blocks agrupa os building blocks selecionados no formulário de design do token.
type Blocks struct {
	Compliance []string `json:"compliance" yaml:"compliance"`
	Features   []string `json:"features" yaml:"features"`
	Governance []string `json:"governance" yaml:"governance"`
}

// HasCompliance, HasFeature e HasGovernance comparam nomes sem diferenciar maiúsculas.
func (b Blocks) HasCompliance(name string) bool { return containsBlock(b.Compliance, name) }
func (b Blocks) HasFeature(name string) bool    { return containsBlock(b.Features, name) }
func (b Blocks) HasGovernance(name string) bool { return containsBlock(b.Governance, name) }

// IsEmpty indica se nenhum building block foi selecionado.
func (b Blocks) IsEmpty() bool {
	return len(b.Compliance) == 0 && len(b.Features) == 0 && len(b.Governance) == 0
}

func containsBlock(set []string, name string) bool {
	want := NormalizeBlockName(name)
	for _, candidate := range set {
		if NormalizeBlockName(candidate) == want {
			return true
		}
	}
	return false
}

// NormalizeBlockName deixa o nome em minúsculas e sem espaços nas bordas.
func NormalizeBlockName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Tranche é uma fatia do valor total de um produto estruturado.
// O ID é estável: também serve de chave de slot/partição on-chain.
type Tranche struct {
	ID                      int    `json:"id" yaml:"id"`
	Name                    string `json:"name" yaml:"name"`
	Value                   uint64 `json:"value" yaml:"value"`
	InterestRateBasisPoints int    `json:"interest_rate_bps" yaml:"interest_rate_bps"`
}

// Metadata carrega os dados descritivos e de compliance do token.
type Metadata struct {
	Description              string    `json:"description" yaml:"description"`
	Category                 string    `json:"category" yaml:"category"`
	Product                  string    `json:"product" yaml:"product"`
	IssuanceDate             string    `json:"issuance_date,omitempty" yaml:"issuance_date,omitempty"` // YYYY-MM-DD ou RFC3339
	MaturityDate             string    `json:"maturity_date,omitempty" yaml:"maturity_date,omitempty"`
	Tranches                 []Tranche `json:"tranches" yaml:"tranches"`
	WhitelistEnabled         bool      `json:"whitelist_enabled" yaml:"whitelist_enabled"`
	JurisdictionRestrictions []string  `json:"jurisdiction_restrictions" yaml:"jurisdiction_restrictions"` // códigos de região
	ConversionRate           float64   `json:"conversion_rate" yaml:"conversion_rate"`                     // em percentual
}

// TokenSpecification é a especificação declarativa usada para gerar o rascunho do contrato.
type TokenSpecification struct {
	Name        string   `json:"name" yaml:"name"`
	Symbol      string   `json:"symbol" yaml:"symbol"`
	Decimals    int      `json:"decimals" yaml:"decimals"`
	Standard    Standard `json:"standard" yaml:"standard"`
	TotalSupply uint64   `json:"total_supply" yaml:"total_supply"`
	Blocks      Blocks   `json:"blocks" yaml:"blocks"`
	Metadata    Metadata `json:"metadata" yaml:"metadata"`
}

// NextTrancheID devolve max(ids existentes) + 1, começando em 1.
func NextTrancheID(tranches []Tranche) int {
	next := 1
	for _, t := range tranches {
		if t.ID >= next {
			next = t.ID + 1
		}
	}
	return next
}

// AddTranche anexa uma nova tranche com ID alocado por NextTrancheID.
func (s *TokenSpecification) AddTranche(name string, value uint64, rateBps int) Tranche {
	tranche := Tranche{
		ID:                      NextTrancheID(s.Metadata.Tranches),
		Name:                    name,
		Value:                   value,
		InterestRateBasisPoints: rateBps,
	}
	s.Metadata.Tranches = append(s.Metadata.Tranches, tranche)
	return tranche
}

// RemoveTranche remove a tranche pelo ID sem renumerar as restantes.
func (s *TokenSpecification) RemoveTranche(id int) bool {
	for i, t := range s.Metadata.Tranches {
		if t.ID == id {
			s.Metadata.Tranches = append(s.Metadata.Tranches[:i:i], s.Metadata.Tranches[i+1:]...)
			return true
		}
	}
	return false
}

// Value grava a especificação como JSON (coluna jsonb).
func (s TokenSpecification) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan lê a especificação a partir de uma coluna jsonb.
func (s *TokenSpecification) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		*s = TokenSpecification{}
		return nil
	default:
		return fmt.Errorf("tipo incompatível para TokenSpecification: %T", src)
	}
	if len(raw) == 0 {
		return errors.New("especificação vazia")
	}
	return json.Unmarshal(raw, s)
}
