// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the colors, styles and animation frames used by the
ThapluBot terminal UI.

All colors are Lip Gloss AdaptiveColor values so they follow the terminal
background. The background can also be forced from the ui.theme setting.

# Color System (colors.go)

  - Purple - brand, bot messages, focus
  - Pink - accent, the note page
  - Emerald - connected, verified replies
  - Amber - single-source replies
  - Rose - errors and the disconnected badge

# Theme System (theme.go)

	theme := styles.NewTheme("auto")
	theme.SetSize(width, height)
	header := theme.Header.Render("ThapluBot")

# Animation System (animations.go)

ThinkingDots drives the typing indicator; BounceFrame returns the frame for
a tick count.
*/
package styles
