// Package numwords spells out currency amounts for invoice documents.
// It supports French (the default invoice language) and English, and
// fails closed: a negative or out-of-range amount returns an error
// instead of a garbage string on the printed document.
package numwords

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// maxAmount bounds the supported range (under one trillion).
var maxAmount = decimal.New(1, 12)

// ErrUnsupportedLanguage is returned for languages without a converter.
var ErrUnsupportedLanguage = fmt.Errorf("numwords: unsupported language")

// AmountInWords spells an amount in dinars and centimes in the given
// language. The fractional part is rounded to 2 decimals (centimes).
func AmountInWords(amount decimal.Decimal, lang language.Tag) (string, error) {
	if amount.IsNegative() {
		return "", fmt.Errorf("numwords: amount must not be negative, got %s", amount)
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return "", fmt.Errorf("numwords: amount %s exceeds supported range", amount)
	}

	rounded := amount.Round(2)
	units := rounded.IntPart()
	cents := rounded.Sub(decimal.NewFromInt(units)).Mul(decimal.NewFromInt(100)).IntPart()

	base, err := matchConverter(lang)
	if err != nil {
		return "", err
	}
	return base.spell(units, cents), nil
}

type converter interface {
	spell(units, cents int64) string
}

var matcher = language.NewMatcher([]language.Tag{language.French, language.English})

func matchConverter(lang language.Tag) (converter, error) {
	_, index, confidence := matcher.Match(lang)
	if confidence == language.No {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}
	switch index {
	case 0:
		return frenchConverter{}, nil
	case 1:
		return englishConverter{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}
}

// --- French ---

type frenchConverter struct{}

var frUnits = []string{
	"zéro", "un", "deux", "trois", "quatre", "cinq", "six", "sept", "huit",
	"neuf", "dix", "onze", "douze", "treize", "quatorze", "quinze", "seize",
	"dix-sept", "dix-huit", "dix-neuf",
}

var frTens = map[int64]string{
	20: "vingt", 30: "trente", 40: "quarante", 50: "cinquante", 60: "soixante",
}

func (frenchConverter) spell(units, cents int64) string {
	currency := "dinars algériens"
	if units == 1 {
		currency = "dinar algérien"
	}
	out := frNumber(units) + " " + currency
	if cents > 0 {
		centWord := "centimes"
		if cents == 1 {
			centWord = "centime"
		}
		out += " et " + frNumber(cents) + " " + centWord
	}
	return out
}

func frNumber(n int64) string {
	return frSpell(n, true)
}

// frSpell spells n. trailing reports whether the spelled value ends the
// whole number: "vingt" and "cent" only take their plural s in trailing
// position (quatre-vingts vs quatre-vingt mille, deux cents vs deux cent
// mille).
func frSpell(n int64, trailing bool) string {
	switch {
	case n < 100:
		return frBelowHundred(n, trailing)
	case n < 1000:
		return frBelowThousand(n, trailing)
	case n < 1_000_000:
		return frGroup(n, 1000, "mille", "mille", true, trailing)
	case n < 1_000_000_000:
		return frGroup(n, 1_000_000, "million", "millions", false, trailing)
	default:
		return frGroup(n, 1_000_000_000, "milliard", "milliards", false, trailing)
	}
}

func frBelowHundred(n int64, trailing bool) string {
	switch {
	case n < 20:
		return frUnits[n]
	case n < 70:
		tens, unit := (n/10)*10, n%10
		if unit == 0 {
			return frTens[tens]
		}
		if unit == 1 {
			return frTens[tens] + " et un"
		}
		return frTens[tens] + "-" + frUnits[unit]
	case n < 80:
		// 70-79 build on soixante + teens.
		if n == 71 {
			return "soixante et onze"
		}
		return "soixante-" + frUnits[n-60]
	default:
		// 80-99 build on quatre-vingt + 0..19.
		if n == 80 {
			if trailing {
				return "quatre-vingts"
			}
			return "quatre-vingt"
		}
		return "quatre-vingt-" + frUnits[n-80]
	}
}

func frBelowThousand(n int64, trailing bool) string {
	hundreds, rest := n/100, n%100
	var head string
	switch {
	case hundreds == 1:
		head = "cent"
	case rest == 0 && trailing:
		head = frUnits[hundreds] + " cents"
	default:
		head = frUnits[hundreds] + " cent"
	}
	if rest == 0 {
		return head
	}
	return head + " " + frBelowHundred(rest, trailing)
}

// frGroup spells n as "<count> <scale> <rest>". "mille" is invariant and
// drops the leading "un" (mille, not un mille).
func frGroup(n, scale int64, singular, plural string, invariant bool, trailing bool) string {
	count, rest := n/scale, n%scale
	word := plural
	if count == 1 {
		word = singular
	}
	var head string
	if invariant && count == 1 {
		head = word
	} else {
		head = frSpell(count, false) + " " + word
	}
	if rest == 0 {
		return head
	}
	return head + " " + frSpell(rest, trailing)
}

// --- English ---

type englishConverter struct{}

var enUnits = []string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight",
	"nine", "ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen",
	"sixteen", "seventeen", "eighteen", "nineteen",
}

var enTens = []string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy",
	"eighty", "ninety",
}

func (englishConverter) spell(units, cents int64) string {
	currency := "Algerian dinars"
	if units == 1 {
		currency = "Algerian dinar"
	}
	out := enNumber(units) + " " + currency
	if cents > 0 {
		centWord := "centimes"
		if cents == 1 {
			centWord = "centime"
		}
		out += " and " + enNumber(cents) + " " + centWord
	}
	return out
}

func enNumber(n int64) string {
	switch {
	case n < 20:
		return enUnits[n]
	case n < 100:
		if n%10 == 0 {
			return enTens[n/10]
		}
		return enTens[n/10] + "-" + enUnits[n%10]
	case n < 1000:
		head := enUnits[n/100] + " hundred"
		if n%100 == 0 {
			return head
		}
		return head + " " + enNumber(n%100)
	}
	for _, group := range []struct {
		scale int64
		word  string
	}{
		{1_000_000_000, "billion"},
		{1_000_000, "million"},
		{1000, "thousand"},
	} {
		if n >= group.scale {
			head := enNumber(n/group.scale) + " " + group.word
			if n%group.scale == 0 {
				return head
			}
			return head + " " + enNumber(n%group.scale)
		}
	}
	return enUnits[0]
}

// Spelled joins a best-effort call for templates: on error it returns the
// empty string so a document never shows a wrong spelled amount.
func Spelled(amount decimal.Decimal, lang language.Tag) string {
	s, err := AmountInWords(amount, lang)
	if err != nil {
		return ""
	}
	return s
}
