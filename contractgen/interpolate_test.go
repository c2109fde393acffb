package contractgen_test

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/contractgen"
)

func TestSanitizeIdentifier(t *testing.T) {
	cases := map[string]string{
		"Credit Linked Note 2025": "CreditLinkedNote2025",
		"  Alpha\tBeta\nGamma ":   "AlphaBetaGamma",
		"2025 Note":               "_2025Note",
		"Ação-Brasil":             "AoBrasil",
		"":                        "Token",
		"$$$":                     "Token",
		"snake_case name":         "snake_casename",
	}
	for input, want := range cases {
		assert.Equal(t, want, contractgen.SanitizeIdentifier(input), "entrada %q", input)
	}
}

func TestToBasisPointsHalfUp(t *testing.T) {
	cases := []struct {
		percent float64
		want    int64
	}{
		{3, 300},
		{2.5, 250},
		{1.005, 101},
		{0.125, 13},
		{7.777, 778},
		{0.004, 0},
		{0.005, 1},
		{-0.125, -12},
		{0, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, contractgen.ToBasisPoints(c.percent), "percentual %v", c.percent)
	}
}

func TestToBasisPointsSaturates(t *testing.T) {
	assert.Equal(t, int64(math.MaxInt64), contractgen.ToBasisPoints(1e17))
	assert.Equal(t, int64(math.MaxInt64), contractgen.ToBasisPoints(1e18))
	assert.Equal(t, int64(math.MinInt64), contractgen.ToBasisPoints(-1e17))
	assert.Equal(t, int64(0), contractgen.ToBasisPoints(math.NaN()))
}

func TestToEpochSeconds(t *testing.T) {
	assert.Equal(t, "1735689600", contractgen.ToEpochSeconds("2025-01-01").String())
	assert.Equal(t, int64(1735689600), contractgen.ToEpochSeconds("2025-01-01T00:00:00Z").Seconds)

	absent := contractgen.ToEpochSeconds("")
	assert.True(t, absent.Now)
	assert.Equal(t, contractgen.NowMarker, absent.String())

	assert.True(t, contractgen.ToEpochSeconds("not a date").Now)
}

func TestFormatList(t *testing.T) {
	assert.Equal(t, "", contractgen.FormatList([]int{}, strconv.Itoa))
	assert.Equal(t, "", contractgen.FormatList[int](nil, strconv.Itoa))
	assert.Equal(t, "1\n2\n3", contractgen.FormatList([]int{1, 2, 3}, strconv.Itoa))
}

func TestInterpolate(t *testing.T) {
	out := contractgen.Interpolate("contract {{Name}} is {{Base}} {{Missing}}", map[string]string{
		"Name": "Note",
		"Base": "ERC20",
	})
	assert.Equal(t, "contract Note is ERC20 {{Missing}}", out)
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "R&D fund", contractgen.SanitizeText("<b>R&D</b>   fund", "x"))
	assert.Equal(t, "fallback", contractgen.SanitizeText("<script>alert(1)</script>", "fallback"))
	assert.Equal(t, "fallback", contractgen.SanitizeText("   ", "fallback"))
}

func TestQuoteLiteral(t *testing.T) {
	assert.Equal(t, `"say \"hi\""`, contractgen.QuoteLiteral(`say "hi"`))
	assert.Equal(t, `"a\\b"`, contractgen.QuoteLiteral(`a\b`))
}

func TestSupplyExpression(t *testing.T) {
	assert.Equal(t, "1000000", contractgen.SupplyExpression(1000000, 0))
	assert.Equal(t, "1000000 * 10 ** 18", contractgen.SupplyExpression(1000000, 18))
}
