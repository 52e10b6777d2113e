// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package valuetype defines the contract shared by value types and the
// absent value which stands in for "no value" without a nil reference.
//
// # Contract
//
// A value type produces instances of itself from text via [Factory] and
// can tell whether it is absent via [Value]. Contracts are identified by
// their canonical name, see [ContractName], which is also how the lookup
// package finds configuration files naming the providers of a contract.
//
// # Absent values
//
// [Maybe] is a tagged variant holding either a real value or the absent
// marker. The absent form keeps its backing [Factory] so callers can still
// produce real values from it:
//
//	amount, err := valuetype.Parse[money.Amount](money.Euro{}, "")
//	// amount.IsAbsent() == true
//	real, err := amount.ValueOf("12.50")
//
// All absent values of the same contract are equal and share a hash.
// An absent value is never equal to a real value.
//
// # Discovery
//
// Providers of a contract are discovered lazily by the lookup package from
// configuration resources located through the resource package and
// constructed from the names registered in the catalog package.
package valuetype
