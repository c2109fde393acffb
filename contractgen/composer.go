package contractgen

import (
	"fmt"
	"math/bits"
	"sort"
	"strconv"

	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/models"
)

// WarningTrancheSumMismatch sinaliza que a soma das tranches difere do supply total.
const WarningTrancheSumMismatch = "tranche_sum_mismatch"

// Warning é um aviso não fatal devolvido junto com o rascunho.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Composer avalia a tabela de regras de um Registry sobre uma especificação.
// Não guarda estado entre chamadas; pode ser compartilhado entre goroutines.
type Composer struct {
	registry *Registry
}

// NewComposer cria um Composer. Com registry nil usa DefaultRegistry.
func NewComposer(registry *Registry) *Composer {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Composer{registry: registry}
}

// Registry expõe o registro usado pelo Composer.
func (c *Composer) Registry() *Registry {
	return c.registry
}

// Compose gera o rascunho usando o registro padrão.
func Compose(spec models.TokenSpecification) (ContractDraft, error) {
	return NewComposer(nil).Compose(spec)
}

// Compose é uma função pura de (spec, registry): a mesma entrada sempre
// produz o mesmo FullText e os mesmos IncludedFragmentIDs. Em caso de erro
// nenhum rascunho parcial é devolvido.
func (c *Composer) Compose(spec models.TokenSpecification) (ContractDraft, error) {
	skeleton, err := c.registry.GetBaseSkeleton(spec.Standard)
	if err != nil {
		return ContractDraft{}, err
	}
	rules, err := c.registry.GetFragmentRules(spec.Standard)
	if err != nil {
		return ContractDraft{}, err
	}

	var tranches []models.Tranche
	if skeleton.Slots != nil {
		tranches, err = orderTranches(spec.Metadata.Tranches)
		if err != nil {
			return ContractDraft{}, err
		}
	}

	values := skeletonValues(spec)
	values["SlotInitCall"] = ""
	if len(tranches) > 0 {
		values["SlotInitCall"] = skeleton.Slots.Call
	}
	header := Interpolate(skeleton.Header, values) + Interpolate(skeleton.Constructor, values)

	fragments := make([]Fragment, 0, len(rules))
	for _, rule := range rules {
		if !rule.Predicate(spec) {
			continue
		}
		fragments = append(fragments, Fragment{FragmentID: rule.ID, Text: rule.Render(spec)})
	}

	var statements []string
	for _, tranche := range tranches {
		statements = append(statements, Interpolate(skeleton.Slots.Statement, trancheValues(tranche)))
	}

	draft := assemble(spec.Standard, header, fragments, skeleton.Slots, statements, Interpolate(skeleton.Footer, values))
	draft.IgnoredBlocks = c.ignoredBlocks(spec)
	if len(tranches) > 0 {
		if sum := CheckTrancheSum(spec); !sum.Matches {
			draft.Warnings = append(draft.Warnings, Warning{
				Code:    WarningTrancheSumMismatch,
				Message: fmt.Sprintf("tranches somam %d, supply total é %d", sum.Total, sum.Expected),
			})
		}
	}
	return draft, nil
}

// orderTranches rejeita IDs repetidos e devolve uma cópia ordenada por ID.
func orderTranches(tranches []models.Tranche) ([]models.Tranche, error) {
	seen := make(map[int]struct{}, len(tranches))
	for _, t := range tranches {
		if _, dup := seen[t.ID]; dup {
			return nil, &DuplicateTrancheIDError{ID: t.ID}
		}
		seen[t.ID] = struct{}{}
	}
	out := make([]models.Tranche, len(tranches))
	copy(out, tranches)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func skeletonValues(spec models.TokenSpecification) map[string]string {
	name := SanitizeText(spec.Name, DefaultContractName)
	symbol := SanitizeText(spec.Symbol, "")
	return map[string]string{
		"Name":             name,
		"Symbol":           symbol,
		"NameLiteral":      QuoteLiteral(name),
		"SymbolLiteral":    QuoteLiteral(symbol),
		"ContractName":     SanitizeIdentifier(spec.Name),
		"Decimals":         strconv.Itoa(spec.Decimals),
		"TotalSupply":      strconv.FormatUint(spec.TotalSupply, 10),
		"SupplyExpression": SupplyExpression(spec.TotalSupply, spec.Decimals),
		"Description":      SanitizeText(spec.Metadata.Description, DefaultDescription),
		"Category":         SanitizeText(spec.Metadata.Category, DefaultCategory),
		"Product":          SanitizeText(spec.Metadata.Product, DefaultProduct),
		"Standard":         string(spec.Standard),
		"IssuanceEpoch":    ToEpochSeconds(spec.Metadata.IssuanceDate).String(),
	}
}

func trancheValues(t models.Tranche) map[string]string {
	name := SanitizeText(t.Name, "Tranche "+strconv.Itoa(t.ID))
	return map[string]string{
		"TrancheID":          strconv.Itoa(t.ID),
		"TrancheName":        name,
		"TrancheNameLiteral": QuoteLiteral(name),
		"TrancheValue":       strconv.FormatUint(t.Value, 10),
		"TrancheRateBps":     strconv.Itoa(t.InterestRateBasisPoints),
	}
}

// ignoredBlocks lista, ordenados, os building blocks sem regra para o padrão.
func (c *Composer) ignoredBlocks(spec models.TokenSpecification) []string {
	var out []string
	seen := make(map[string]struct{})
	collect := func(category Category, names []string) {
		for _, name := range names {
			if c.registry.HasBlock(spec.Standard, category, name) {
				continue
			}
			key := blockKey(category, name)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, key)
		}
	}
	collect(CategoryCompliance, spec.Blocks.Compliance)
	collect(CategoryFeature, spec.Blocks.Features)
	collect(CategoryGovernance, spec.Blocks.Governance)
	sort.Strings(out)
	return out
}

// TrancheSum é o resultado da verificação soma das tranches × supply total.
type TrancheSum struct {
	Total    uint64 `json:"total"`
	Expected uint64 `json:"expected"`
	Matches  bool   `json:"matches"`
}

// CheckTrancheSum confere as tranches só quando o padrão inicializa slots;
// nos demais padrões as tranches são ignoradas e o resultado é sempre Matches=true.
func (c *Composer) CheckTrancheSum(spec models.TokenSpecification) TrancheSum {
	skeleton, err := c.registry.GetBaseSkeleton(spec.Standard)
	if err != nil || skeleton.Slots == nil {
		return TrancheSum{Expected: spec.TotalSupply, Matches: true}
	}
	return CheckTrancheSum(spec)
}

// CheckTrancheSum compara a soma dos valores das tranches com o supply total.
// Nunca falha: divergência (ou overflow) apenas resulta em Matches=false.
func CheckTrancheSum(spec models.TokenSpecification) TrancheSum {
	var total uint64
	overflow := false
	for _, t := range spec.Metadata.Tranches {
		var carry uint64
		total, carry = bits.Add64(total, t.Value, 0)
		if carry != 0 {
			overflow = true
		}
	}
	return TrancheSum{
		Total:    total,
		Expected: spec.TotalSupply,
		Matches:  !overflow && total == spec.TotalSupply,
	}
}
