// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/dhaase/valuetype/internal/try"

	"github.com/stretchr/testify/assert"
)

type failingCloser struct {
	io.Reader
	err error
}

func (c failingCloser) Close() error { return c.err }

func TestYaml_Apply(t *testing.T) {
	t.Run("will apply nested values", func(t *testing.T) {
		src := FromYaml(strings.NewReader("logging:\n  level: info\nroots:\n  - plugins\n"))

		store := make(Map)
		if !assert.NoError(t, src.Apply(store)) {
			return
		}
		if !assert.Equal(t, Map{
			"logging": map[string]any{"level": "info"},
			"roots":   []any{"plugins"},
		}, store) {
			return
		}
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the yaml is invalid", func(t *testing.T) {
			err := FromYaml(strings.NewReader("logging: [")).Apply(make(Map))

			var yerr InvalidYamlError
			if !assert.ErrorAs(t, err, &yerr) {
				return
			}
		})

		t.Run("if the reader fails to close", func(t *testing.T) {
			closeErr := errors.New("close failed")
			r := failingCloser{Reader: strings.NewReader("trace: true"), err: closeErr}

			err := FromYaml(r).Apply(make(Map))

			var cerr try.CloseError
			if !assert.ErrorAs(t, err, &cerr) {
				return
			}
			if !assert.ErrorIs(t, err, closeErr) {
				return
			}
		})
	})
}
