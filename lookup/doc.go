// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package lookup discovers the providers of a contract.
//
// The providers of a contract named "money.Provider" are listed in
// configuration resources named "META-INF/value-types/money.Provider", one
// provider name per line:
//
//	# providers shipped with this module
//	money.Euro
//	money.Dollar   # trailing comments are fine
//
// Resources are located through a [resource.Source] and names are turned into
// instances through a [catalog.Resolver]. Discovery is lazy: a resource is
// only read once iteration reaches it and a provider is only constructed once
// it is about to be returned. Constructed providers are cached by their name,
// so every provider is constructed once per [Loader] until [Loader.Reload].
package lookup
