// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package money is a small value type with pluggable currencies.
//
// Importing the package registers the money.Euro and money.Dollar providers
// and a configuration resource listing them, so they can be discovered with
// lookup.Load[money.Provider]().
package money

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dhaase/valuetype"
	"github.com/dhaase/valuetype/catalog"
	"github.com/dhaase/valuetype/lookup"
	"github.com/dhaase/valuetype/resource"
)

//go:embed META-INF
var files embed.FS

func init() {
	catalog.MustProvide("money.Euro", func() (Euro, error) { return Euro{}, nil })
	catalog.MustProvide("money.Dollar", func() (Dollar, error) { return Dollar{}, nil })
	resource.Register("money", files)
}

var (
	// ErrMalformedAmount is returned for text which is not a decimal amount
	// with at most two fraction digits.
	ErrMalformedAmount = errors.New("money: malformed amount")

	// ErrUnknownCurrency is returned by [Lookup] if no provider handles a currency.
	ErrUnknownCurrency = errors.New("money: unknown currency")
)

// ParseError reports text a provider could not turn into an [Amount].
type ParseError struct {
	Currency string
	Text     string
	Cause    error
}

// Error implements the [builtin.error] interface.
func (e ParseError) Error() string {
	return fmt.Sprintf("money: can not parse %q as %s: %s", e.Text, e.Currency, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ParseError) Unwrap() error {
	return e.Cause
}

// Amount is an amount of money in minor units of one currency.
type Amount struct {
	Cents    int64
	Currency string
}

var _ valuetype.Value[Amount] = Amount{}

// ValueOf parses the format produced by [Amount.String], e.g. "12.50 EUR".
func (Amount) ValueOf(text string) (Amount, error) {
	num, code, ok := strings.Cut(strings.TrimSpace(text), " ")
	if !ok || code == "" {
		return Amount{}, ParseError{Currency: "amount", Text: text, Cause: ErrMalformedAmount}
	}
	cents, err := parseMinor(num, ".")
	if err != nil {
		return Amount{}, ParseError{Currency: "amount", Text: text, Cause: err}
	}
	return Amount{Cents: cents, Currency: strings.ToUpper(strings.TrimSpace(code))}, nil
}

// IsAbsent implements the [valuetype.Value] interface. A real Amount is never absent.
func (Amount) IsAbsent() bool {
	return false
}

// Equal reports whether both amounts have the same value and currency.
func (a Amount) Equal(o Amount) bool {
	return a == o
}

// String implements the [fmt.Stringer] interface.
func (a Amount) String() string {
	sign := ""
	c := a.Cents
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, c/100, c%100, a.Currency)
}

// Provider parses amounts of a single currency.
type Provider interface {
	valuetype.Factory[Amount]

	// Currency returns the ISO 4217 code of the amounts this provider produces.
	Currency() string
}

// Euro parses amounts like "12,50", "€12,50" or "12,50 EUR".
type Euro struct{}

// Currency implements the [Provider] interface.
func (Euro) Currency() string { return "EUR" }

// ValueOf implements the [Provider] interface.
func (e Euro) ValueOf(text string) (Amount, error) {
	return parse(e.Currency(), text, "€", ",")
}

// Dollar parses amounts like "12.50", "$12.50" or "12.50 USD".
type Dollar struct{}

// Currency implements the [Provider] interface.
func (Dollar) Currency() string { return "USD" }

// ValueOf implements the [Provider] interface.
func (d Dollar) ValueOf(text string) (Amount, error) {
	return parse(d.Currency(), text, "$", ".")
}

// Parse converts text with p. Blank text yields the absent amount.
func Parse(p Provider, text string) (valuetype.Maybe[Amount], error) {
	return valuetype.Parse[Amount](p, text)
}

// Lookup returns the provider discovered by l for the currency code.
func Lookup(ctx context.Context, l *lookup.Loader[Provider], code string) (Provider, error) {
	code = strings.ToUpper(code)
	for p, err := range l.All(ctx) {
		if err != nil {
			return nil, err
		}
		if p.Currency() == code {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
}

func parse(code, text, symbol, sep string) (Amount, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, symbol)
	s = strings.TrimSuffix(s, code)
	s = strings.TrimSuffix(s, symbol)
	s = strings.TrimSpace(s)

	cents, err := parseMinor(s, sep)
	if err != nil {
		return Amount{}, ParseError{Currency: code, Text: text, Cause: err}
	}
	return Amount{Cents: cents, Currency: code}, nil
}

func parseMinor(s, sep string) (int64, error) {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, hasFrac := strings.Cut(s, sep)
	if whole == "" || (hasFrac && (frac == "" || len(frac) > 2)) {
		return 0, ErrMalformedAmount
	}
	for len(frac) < 2 {
		frac += "0"
	}

	w, err := strconv.ParseUint(whole, 10, 53)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedAmount, err)
	}
	f, err := strconv.ParseUint(frac, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedAmount, err)
	}

	cents := int64(w)*100 + int64(f)
	if neg {
		cents = -cents
	}
	return cents, nil
}
