package numwords

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAmountInWords_French(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "zéro dinars algériens"},
		{"1", "un dinar algérien"},
		{"16", "seize dinars algériens"},
		{"21", "vingt et un dinars algériens"},
		{"35.70", "trente-cinq dinars algériens et soixante-dix centimes"},
		{"71", "soixante et onze dinars algériens"},
		{"80", "quatre-vingts dinars algériens"},
		{"99", "quatre-vingt-dix-neuf dinars algériens"},
		{"100", "cent dinars algériens"},
		{"200", "deux cents dinars algériens"},
		{"201", "deux cent un dinars algériens"},
		{"1000", "mille dinars algériens"},
		{"1001", "mille un dinars algériens"},
		{"80000", "quatre-vingt mille dinars algériens"},
		{"200000", "deux cent mille dinars algériens"},
		{"1000000", "un million dinars algériens"},
		{"2500000", "deux millions cinq cent mille dinars algériens"},
		{"30.70", "trente dinars algériens et soixante-dix centimes"},
		{"12.01", "douze dinars algériens et un centime"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			got, err := AmountInWords(amt(tt.amount), language.French)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAmountInWords_English(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"1", "one Algerian dinar"},
		{"35.70", "thirty-five Algerian dinars and seventy centimes"},
		{"121", "one hundred twenty-one Algerian dinars"},
		{"1000000", "one million Algerian dinars"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			got, err := AmountInWords(amt(tt.amount), language.English)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAmountInWords_FailsClosed(t *testing.T) {
	_, err := AmountInWords(amt("-0.01"), language.French)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative")

	_, err = AmountInWords(decimal.New(1, 12), language.French)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "range")
}

func TestAmountInWords_RegionalVariantsMatch(t *testing.T) {
	got, err := AmountInWords(amt("2"), language.MustParse("fr-DZ"))
	require.NoError(t, err)
	assert.Equal(t, "deux dinars algériens", got)
}

func TestSpelled_EmptyOnError(t *testing.T) {
	assert.Equal(t, "", Spelled(amt("-1"), language.French))
	assert.NotEmpty(t, Spelled(amt("10"), language.French))
}
