// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type testConfig struct {
	Logging struct {
		Level  slog.Level `config:"level"`
		Format string     `config:"format"`
	} `config:"logging"`
	Trace bool     `config:"trace"`
	Roots []string `config:"roots"`
}

func TestRead(t *testing.T) {
	t.Run("will return an empty manager", func(t *testing.T) {
		t.Run("if no sources are given", func(t *testing.T) {
			m, err := Read()
			if !assert.NoError(t, err) {
				return
			}

			var cfg testConfig
			if !assert.NoError(t, m.Unmarshal(&cfg)) {
				return
			}
			if !assert.Equal(t, testConfig{}, cfg) {
				return
			}
		})
	})

	t.Run("will let later sources override earlier ones", func(t *testing.T) {
		m, err := Read(
			Map{"logging": map[string]any{"level": "info", "format": "text"}},
			nil,
			FromYaml(strings.NewReader("logging:\n  level: warn\n")),
			Env{prefix: "VALUETYPES_", environ: func() []string {
				return []string{"VALUETYPES_LOGGING_FORMAT=json", "HOME=/root"}
			}},
		)
		if !assert.NoError(t, err) {
			return
		}

		var cfg testConfig
		if !assert.NoError(t, m.Unmarshal(&cfg)) {
			return
		}
		if !assert.Equal(t, slog.LevelWarn, cfg.Logging.Level) {
			return
		}
		if !assert.Equal(t, "json", cfg.Logging.Format) {
			return
		}
	})

	t.Run("will return the first source error", func(t *testing.T) {
		_, err := Read(FromYaml(strings.NewReader("logging: [")))

		var yerr InvalidYamlError
		if !assert.ErrorAs(t, err, &yerr) {
			return
		}
	})
}

func TestManager_Unmarshal(t *testing.T) {
	t.Run("will decode text into TextUnmarshalers", func(t *testing.T) {
		m, err := Read(Map{"logging": map[string]any{"level": "DEBUG"}})
		if !assert.NoError(t, err) {
			return
		}

		var cfg testConfig
		if !assert.NoError(t, m.Unmarshal(&cfg)) {
			return
		}
		if !assert.Equal(t, slog.LevelDebug, cfg.Logging.Level) {
			return
		}
	})

	t.Run("will decode strings into other types", func(t *testing.T) {
		m, err := Read(Map{"trace": "true", "roots": "a,b"})
		if !assert.NoError(t, err) {
			return
		}

		var cfg testConfig
		if !assert.NoError(t, m.Unmarshal(&cfg)) {
			return
		}
		if !assert.True(t, cfg.Trace) {
			return
		}
		if !assert.Equal(t, []string{"a", "b"}, cfg.Roots) {
			return
		}
	})

	t.Run("will return a TypeCoercionError", func(t *testing.T) {
		t.Run("if the text can not be unmarshaled", func(t *testing.T) {
			m, err := Read(Map{"logging": map[string]any{"level": "loud"}})
			if !assert.NoError(t, err) {
				return
			}

			var cfg testConfig
			err = m.Unmarshal(&cfg)

			if !assert.ErrorContains(t, err, "failed to coerce value from string to slog.Level") {
				return
			}
		})
	})
}
