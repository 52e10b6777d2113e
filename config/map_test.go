// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"testing"

	"github.com/dhaase/valuetype/config/key"

	"github.com/stretchr/testify/assert"
)

type unknownKey struct{}

func (unknownKey) Key() string { return "unknown" }

func TestMap_Apply(t *testing.T) {
	t.Run("will flatten nested maps into key chains", func(t *testing.T) {
		src := Map{
			"logging": map[string]any{"level": "info", "format": "json"},
			"trace":   true,
			"nested":  Map{"deep": map[string]any{"value": 1}},
		}

		store := make(Map)
		if !assert.NoError(t, src.Apply(store)) {
			return
		}
		if !assert.Equal(t, Map{
			"logging": map[string]any{"level": "info", "format": "json"},
			"trace":   true,
			"nested":  map[string]any{"deep": map[string]any{"value": 1}},
		}, store) {
			return
		}
	})
}

func TestMap_Set(t *testing.T) {
	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the key type is unknown", func(t *testing.T) {
			err := make(Map).Set(unknownKey{}, 1)

			var kerr UnknownKeyerError
			if !assert.ErrorAs(t, err, &kerr) {
				return
			}
		})

		t.Run("if the key chain is empty", func(t *testing.T) {
			err := make(Map).Set(key.Chain{}, 1)

			var kerr EmptyKeyChainError
			if !assert.ErrorAs(t, err, &kerr) {
				return
			}
		})

		t.Run("if a plain value would be nested into", func(t *testing.T) {
			m := Map{"trace": true}

			err := m.Set(key.Chain{key.Name("trace"), key.Name("enabled")}, true)

			var kerr UnexpectedKeyValueTypeError
			if !assert.ErrorAs(t, err, &kerr) {
				return
			}
			if !assert.Equal(t, "trace", kerr.Key) {
				return
			}
		})
	})
}
