// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the zap logger used across thaplubot.
//
// The terminal belongs to the UI, so logs go to a file
// (~/.thaplubot/thaplubot.log by default) as JSON lines. Event names are
// snake_case, fields carry the details:
//
//	log.Info("chat_reply", zap.String("session", id), zap.Int("sources", n))
//
// # Usage
//
//	log, closeLog, err := logging.New(logging.Options{Level: "debug", Path: path})
//	if err != nil {
//	    log = zap.NewNop()
//	}
//	defer closeLog()
package logging
