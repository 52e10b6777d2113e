// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config merges configuration from multiple sources and decodes
// it into structs.
//
// Sources are applied in order, later sources overriding earlier ones:
//
//	m, err := config.Read(
//		config.Map{"logging": map[string]any{"level": "info"}},
//		config.FromYaml(config.NewFileReader(os.DirFS("."), "valuetypes.yaml")),
//		config.FromEnv("VALUETYPES_"),
//	)
//	if err != nil {
//		return err
//	}
//
//	var cfg struct {
//		Logging struct {
//			Level slog.Level `config:"level"`
//		} `config:"logging"`
//	}
//	err = m.Unmarshal(&cfg)
package config
