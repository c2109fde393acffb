package contractgen

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/models"
)

// Category agrupa os building blocks como no formulário de design.
type Category string

const (
	CategoryCompliance Category = "compliance"
	CategoryFeature    Category = "features"
	CategoryGovernance Category = "governance"
)

// Skeleton é o esqueleto fixo de um padrão: cabeçalho, construtor e rodapé.
type Skeleton struct {
	Header      string
	Constructor string
	Footer      string
	// Slots é nil para padrões sem inicialização por slot (sem tranches).
	Slots *SlotTemplate
}

// SlotTemplate descreve como cada tranche vira uma instrução de inicialização.
type SlotTemplate struct {
	Open      string
	Statement string
	Close     string
	// Call é inserido no construtor via {{SlotInitCall}} quando há tranches.
	Call string
}

// FragmentRule é uma entrada da tabela declarativa de fragmentos.
type FragmentRule struct {
	ID         string
	Category   Category
	Block      string
	AppliesTo  []models.Standard
	Predicate  func(models.TokenSpecification) bool
	Render     func(models.TokenSpecification) string
	Precedence int
}

func (r FragmentRule) appliesTo(standard models.Standard) bool {
	for _, s := range r.AppliesTo {
		if s == standard {
			return true
		}
	}
	return false
}

// Registry mapeia cada padrão para seu esqueleto e suas regras ordenadas.
// É imutável depois de NewRegistry e pode ser usado por várias goroutines.
type Registry struct {
	skeletons map[models.Standard]Skeleton
	rules     map[models.Standard][]FragmentRule
	blocks    map[models.Standard]map[string]struct{}
}

// NewRegistry valida e congela esqueletos e regras. A ordem de rules é a
// ordem de registro, usada como desempate entre precedências iguais.
func NewRegistry(skeletons map[models.Standard]Skeleton, rules []FragmentRule) (*Registry, error) {
	if len(skeletons) == 0 {
		return nil, errors.New("contractgen: ao menos um esqueleto é obrigatório")
	}
	reg := &Registry{
		skeletons: make(map[models.Standard]Skeleton, len(skeletons)),
		rules:     make(map[models.Standard][]FragmentRule, len(skeletons)),
		blocks:    make(map[models.Standard]map[string]struct{}, len(skeletons)),
	}
	for standard, skeleton := range skeletons {
		reg.skeletons[standard] = skeleton
		reg.blocks[standard] = make(map[string]struct{})
	}

	seen := make(map[string]struct{}, len(rules))
	for _, rule := range rules {
		if rule.ID == "" {
			return nil, errors.New("contractgen: regra sem id")
		}
		if rule.Predicate == nil || rule.Render == nil {
			return nil, fmt.Errorf("contractgen: regra %q sem predicate/render", rule.ID)
		}
		if _, dup := seen[rule.ID]; dup {
			return nil, fmt.Errorf("contractgen: regra %q já registrada", rule.ID)
		}
		seen[rule.ID] = struct{}{}

		for _, standard := range rule.AppliesTo {
			if _, ok := reg.skeletons[standard]; !ok {
				return nil, fmt.Errorf("contractgen: regra %q referencia padrão sem esqueleto %q", rule.ID, standard)
			}
			reg.rules[standard] = append(reg.rules[standard], rule)
			if rule.Block != "" {
				reg.blocks[standard][blockKey(rule.Category, rule.Block)] = struct{}{}
			}
		}
	}

	for standard := range reg.rules {
		sort.SliceStable(reg.rules[standard], func(i, j int) bool {
			return reg.rules[standard][i].Precedence < reg.rules[standard][j].Precedence
		})
	}
	return reg, nil
}

// MustNewRegistry entra em pânico se a tabela for inválida. Útil na inicialização.
func MustNewRegistry(skeletons map[models.Standard]Skeleton, rules []FragmentRule) *Registry {
	reg, err := NewRegistry(skeletons, rules)
	if err != nil {
		panic(err)
	}
	return reg
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry devolve o registro com todos os padrões e building blocks conhecidos.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = MustNewRegistry(defaultSkeletons(), defaultRules())
	})
	return defaultRegistry
}

// GetBaseSkeleton devolve o esqueleto do padrão.
func (r *Registry) GetBaseSkeleton(standard models.Standard) (Skeleton, error) {
	skeleton, ok := r.skeletons[standard]
	if !ok {
		return Skeleton{}, &UnsupportedStandardError{Standard: standard}
	}
	return skeleton, nil
}

// GetFragmentRules devolve uma cópia das regras do padrão, ordenadas por
// precedência e depois por ordem de registro.
func (r *Registry) GetFragmentRules(standard models.Standard) ([]FragmentRule, error) {
	if _, ok := r.skeletons[standard]; !ok {
		return nil, &UnsupportedStandardError{Standard: standard}
	}
	rules := r.rules[standard]
	out := make([]FragmentRule, len(rules))
	copy(out, rules)
	return out, nil
}

// Standards lista os padrões registrados em ordem alfabética.
func (r *Registry) Standards() []models.Standard {
	out := make([]models.Standard, 0, len(r.skeletons))
	for s := range r.skeletons {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Supports indica se o padrão está registrado.
func (r *Registry) Supports(standard models.Standard) bool {
	_, ok := r.skeletons[standard]
	return ok
}

// HasBlock indica se algum fragmento do padrão reage ao building block.
func (r *Registry) HasBlock(standard models.Standard, category Category, block string) bool {
	_, ok := r.blocks[standard][blockKey(category, block)]
	return ok
}

func blockKey(category Category, block string) string {
	return string(category) + ":" + models.NormalizeBlockName(block)
}
