// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "time"

// SpinnerConfig holds the frames of a text animation.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// Duration returns the duration of each frame.
func (s SpinnerConfig) Duration() time.Duration {
	if s.FPS <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(s.FPS)
}

// ThinkingDots is the bouncing three-dot animation of the typing indicator.
var ThinkingDots = SpinnerConfig{
	Frames: []string{"•··", "·•·", "··•", "·•·"},
	FPS:    6,
}

// HeartPulse decorates the note page title.
var HeartPulse = SpinnerConfig{
	Frames: []string{"♥", "♡"},
	FPS:    2,
}

// BounceFrame returns the frame of s for the given tick count.
func BounceFrame(s SpinnerConfig, tick int) string {
	if len(s.Frames) == 0 {
		return ""
	}
	if tick < 0 {
		tick = -tick
	}
	return s.Frames[tick%len(s.Frames)]
}
