package contractgen

import (
	"html"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// NowMarker é emitido no lugar de uma data ausente: o valor é avaliado on-chain.
const NowMarker = "block.timestamp"

// Valores padrão para metadados ausentes.
const (
	DefaultContractName = "Token"
	DefaultDescription  = "No description provided."
	DefaultCategory     = "uncategorized"
	DefaultProduct      = "unspecified"
)

// textPolicy remove qualquer HTML vindo do formulário antes de ir para comentários NatSpec.
var textPolicy = bluemonday.StrictPolicy()

// SanitizeIdentifier remove espaços e caracteres que não podem compor um identificador.
// Não é injetiva: "A-B" e "AB" geram o mesmo nome, o que é aceitável porque o
// resultado é só cosmético.
func SanitizeIdentifier(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r == '_' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))) {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" {
		return DefaultContractName
	}
	if out[0] >= '0' && out[0] <= '9' {
		return "_" + out
	}
	return out
}

// Epoch é o resultado de ToEpochSeconds: segundos concretos ou o marcador "agora".
type Epoch struct {
	Seconds int64
	Now     bool
}

func (e Epoch) String() string {
	if e.Now {
		return NowMarker
	}
	return strconv.FormatInt(e.Seconds, 10)
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}

// ToEpochSeconds converte uma data de calendário (UTC) em segundos desde a época.
// Data vazia ou ilegível vira o marcador NowMarker, nunca um erro.
func ToEpochSeconds(date string) Epoch {
	date = strings.TrimSpace(date)
	if date == "" {
		return Epoch{Now: true}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return Epoch{Seconds: t.UTC().Unix()}
		}
	}
	return Epoch{Now: true}
}

// ToBasisPoints calcula round(percent × 100) com desempate half-up (em direção a +∞).
// Resultados fora de int64 saturam em math.MinInt64/math.MaxInt64.
// A conta é feita sobre a representação decimal mais curta do float, então
// 1.005 vira 101 e não 100 como aconteceria com math.Round(1.005*100).
func ToBasisPoints(percent float64) int64 {
	if math.IsNaN(percent) || math.IsInf(percent, 0) {
		return 0
	}
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(percent, 'f', -1, 64))
	if !ok {
		return 0
	}
	r.Mul(r, big.NewRat(100, 1))
	r.Add(r, big.NewRat(1, 2))
	// Div é divisão euclidiana: com denominador positivo equivale a floor.
	q := new(big.Int).Div(r.Num(), r.Denom())
	if !q.IsInt64() {
		// fora do intervalo de int64: satura em vez de dar a volta
		if q.Sign() < 0 {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	return q.Int64()
}

// FormatList junta os itens renderizados por quebra de linha. Lista vazia vira "".
func FormatList[T any](values []T, renderItem func(T) string) string {
	if len(values) == 0 {
		return ""
	}
	lines := make([]string, 0, len(values))
	for _, v := range values {
		lines = append(lines, renderItem(v))
	}
	return strings.Join(lines, "\n")
}

// Interpolate substitui cada {{Chave}} do template pelo valor correspondente.
// Chaves sem valor permanecem no texto.
func Interpolate(template string, values map[string]string) string {
	if len(values) == 0 {
		return template
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, "{{"+k+"}}", values[k])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// QuoteLiteral monta uma string literal entre aspas duplas.
func QuoteLiteral(s string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", "").Replace(s)
	return `"` + escaped + `"`
}

// SanitizeText remove HTML e colapsa espaços; usa fallback quando o resultado fica vazio.
func SanitizeText(s, fallback string) string {
	clean := html.UnescapeString(textPolicy.Sanitize(s))
	clean = strings.Join(strings.Fields(clean), " ")
	if clean == "" {
		return fallback
	}
	return clean
}

// SupplyExpression combina supply total e casas decimais numa expressão.
func SupplyExpression(totalSupply uint64, decimals int) string {
	supply := strconv.FormatUint(totalSupply, 10)
	if decimals <= 0 {
		return supply
	}
	return supply + " * 10 ** " + strconv.Itoa(decimals)
}
