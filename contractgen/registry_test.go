package contractgen_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/contractgen"
	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/models"
)

func always(models.TokenSpecification) bool { return true }

func text(s string) func(models.TokenSpecification) string {
	return func(models.TokenSpecification) string { return s }
}

func testSkeletons() map[models.Standard]contractgen.Skeleton {
	return map[models.Standard]contractgen.Skeleton{
		models.StandardERC20: {Header: "H\n", Footer: "F\n"},
	}
}

func TestRegistryUnknownStandard(t *testing.T) {
	reg := contractgen.DefaultRegistry()

	_, err := reg.GetBaseSkeleton("ERC-9999")
	require.Error(t, err)
	assert.True(t, errors.Is(err, contractgen.ErrUnsupportedStandard))

	var unsupported *contractgen.UnsupportedStandardError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, models.Standard("ERC-9999"), unsupported.Standard)

	_, err = reg.GetFragmentRules("ERC-9999")
	assert.ErrorIs(t, err, contractgen.ErrUnsupportedStandard)
}

func TestRegistryOrdersByPrecedenceThenRegistration(t *testing.T) {
	std := []models.Standard{models.StandardERC20}
	reg, err := contractgen.NewRegistry(testSkeletons(), []contractgen.FragmentRule{
		{ID: "late", AppliesTo: std, Predicate: always, Render: text("c"), Precedence: 2},
		{ID: "first-tie", AppliesTo: std, Predicate: always, Render: text("a"), Precedence: 1},
		{ID: "second-tie", AppliesTo: std, Predicate: always, Render: text("b"), Precedence: 1},
	})
	require.NoError(t, err)

	rules, err := reg.GetFragmentRules(models.StandardERC20)
	require.NoError(t, err)

	var ids []string
	for _, r := range rules {
		ids = append(ids, r.ID)
	}
	if diff := cmp.Diff([]string{"first-tie", "second-tie", "late"}, ids); diff != "" {
		t.Fatalf("ordem inesperada (-want +got):\n%s", diff)
	}
}

func TestRegistryReturnsCopies(t *testing.T) {
	reg := contractgen.DefaultRegistry()
	rules, err := reg.GetFragmentRules(models.StandardERC20)
	require.NoError(t, err)
	require.NotEmpty(t, rules)

	firstID := rules[0].ID
	rules[0].ID = "mutated"

	again, err := reg.GetFragmentRules(models.StandardERC20)
	require.NoError(t, err)
	assert.Equal(t, firstID, again[0].ID)
}

func TestNewRegistryRejectsInvalidTables(t *testing.T) {
	std := []models.Standard{models.StandardERC20}

	_, err := contractgen.NewRegistry(testSkeletons(), []contractgen.FragmentRule{
		{ID: "dup", AppliesTo: std, Predicate: always, Render: text("a")},
		{ID: "dup", AppliesTo: std, Predicate: always, Render: text("b")},
	})
	assert.Error(t, err)

	_, err = contractgen.NewRegistry(testSkeletons(), []contractgen.FragmentRule{
		{ID: "orphan", AppliesTo: []models.Standard{models.StandardERC721}, Predicate: always, Render: text("a")},
	})
	assert.Error(t, err)

	_, err = contractgen.NewRegistry(testSkeletons(), []contractgen.FragmentRule{
		{ID: "no-predicate", AppliesTo: std, Render: text("a")},
	})
	assert.Error(t, err)

	_, err = contractgen.NewRegistry(nil, nil)
	assert.Error(t, err)
}

func TestDefaultRegistryStandards(t *testing.T) {
	reg := contractgen.DefaultRegistry()
	assert.Equal(t, []models.Standard{
		models.StandardERC1155, models.StandardERC1400, models.StandardERC20,
		models.StandardERC3525, models.StandardERC4626, models.StandardERC721,
	}, reg.Standards())
	assert.True(t, reg.Supports(models.StandardERC3525))
	assert.False(t, reg.Supports("ERC-9999"))
	assert.True(t, reg.HasBlock(models.StandardERC20, contractgen.CategoryFeature, " Mintable "))
	assert.False(t, reg.HasBlock(models.StandardERC4626, contractgen.CategoryFeature, "mintable"))
}
