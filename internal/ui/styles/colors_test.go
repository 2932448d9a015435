// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestAdaptiveColorsHaveBothVariants(t *testing.T) {
	colors := map[string]struct{ light, dark string }{
		"Blue":         {Blue.Light, Blue.Dark},
		"Cyan":         {Cyan.Light, Cyan.Dark},
		"Rose":         {Rose.Light, Rose.Dark},
		"Surface":      {Surface.Light, Surface.Dark},
		"SurfaceDim":   {SurfaceDim.Light, SurfaceDim.Dark},
		"Overlay":      {Overlay.Light, Overlay.Dark},
		"OverlayDim":   {OverlayDim.Light, OverlayDim.Dark},
		"TextPrimary":  {TextPrimary.Light, TextPrimary.Dark},
		"TextMuted":    {TextMuted.Light, TextMuted.Dark},
		"UserBubbleBg": {UserBubbleBg.Light, UserBubbleBg.Dark},
		"BotBubbleBg":  {BotBubbleBg.Light, BotBubbleBg.Dark},
	}

	for name, c := range colors {
		if !strings.HasPrefix(c.light, "#") || !strings.HasPrefix(c.dark, "#") {
			t.Errorf("%s should define hex light and dark variants, got %q / %q", name, c.light, c.dark)
		}
	}
}

func TestRenderStatusHelpers(t *testing.T) {
	tests := []struct {
		name   string
		render func(string) string
		symbol string
	}{
		{"success", RenderSuccess, StatusIndicators.Success},
		{"error", RenderError, StatusIndicators.Error},
		{"warning", RenderWarning, StatusIndicators.Warning},
		{"info", RenderInfo, StatusIndicators.Info},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.render("연결 상태")
			if !strings.Contains(out, tt.symbol) {
				t.Errorf("output %q missing indicator %q", out, tt.symbol)
			}
			if !strings.Contains(out, "연결 상태") {
				t.Errorf("output %q missing message", out)
			}
		})
	}
}
