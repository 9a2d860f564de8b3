// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and validates thaplubot configuration.
//
// Configuration is layered, later layers winning:
//   - built-in defaults (Default)
//   - ~/.thaplubot/config.toml, or the file passed with --config
//   - a .env file in the working directory or the config directory
//   - THAPLUBOT_* environment variables
//
// The config directory can be moved with THAPLUBOT_HOME.
//
// # Key Types
//
//   - Config: complete configuration (api, ui, history, log sections)
//   - Duration: time.Duration that reads and writes "30s" style strings
//   - ValidationError, ValidateErrors: aggregated validation failures
//   - Watcher: fsnotify based reload of the config file
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.API.BaseURL)
package config
