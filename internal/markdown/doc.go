// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown renders bot replies for the terminal.
//
// Rendering goes through glamour. The "lite" style, and any glamour
// failure, fall back to a renderer that leaves prose untouched (only
// wrapped) and syntax highlights fenced code blocks with chroma, so a
// reply is never lost to a rendering error.
//
// # Usage
//
//	r, err := markdown.New(markdown.Options{Style: "auto", Width: 80})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(r.Render(reply))
package markdown
