package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/saver/terminal"
)

// EffectSettings is the free-form [effects.<name>] table.
// Accessors never fail: missing or malformed values return the fallback.
type EffectSettings map[string]any

func (s EffectSettings) Int(key string, fallback int) int {
	raw, ok := s[key]
	if !ok {
		return fallback
	}
	switch v := raw.(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return parsed
		}
	}
	return fallback
}

func (s EffectSettings) Float(key string, fallback float64) float64 {
	raw, ok := s[key]
	if !ok {
		return fallback
	}
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func (s EffectSettings) Bool(key string, fallback bool) bool {
	raw, ok := s[key]
	if !ok {
		return fallback
	}
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return parsed
		}
	}
	return fallback
}

func (s EffectSettings) String(key string, fallback string) string {
	if v, ok := s[key].(string); ok {
		return v
	}
	return fallback
}

// Strings reads an array of strings; non-string items are skipped
func (s EffectSettings) Strings(key string, fallback []string) []string {
	raw, ok := s[key].([]any)
	if !ok {
		return fallback
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if str, ok := item.(string); ok {
			out = append(out, str)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

// Duration reads a duration string ("250ms") or a bare number of milliseconds
func (s EffectSettings) Duration(key string, fallback time.Duration) time.Duration {
	raw, ok := s[key]
	if !ok {
		return fallback
	}
	switch v := raw.(type) {
	case int64:
		return time.Duration(v) * time.Millisecond
	case int:
		return time.Duration(v) * time.Millisecond
	case float64:
		return time.Duration(v * float64(time.Millisecond))
	case string:
		var d Duration
		if err := d.UnmarshalText([]byte(v)); err == nil {
			return d.Std()
		}
	}
	return fallback
}

// Color reads "#rrggbb", an "r,g,b" triple or a palette index
func (s EffectSettings) Color(key string, fallback terminal.Color) terminal.Color {
	raw, ok := s[key]
	if !ok {
		return fallback
	}
	switch v := raw.(type) {
	case int64:
		if v >= 0 && v <= 255 {
			return terminal.Palette(uint8(v))
		}
	case string:
		if c, ok := ParseColor(v); ok {
			return c
		}
	case []any:
		if len(v) == 3 {
			var ch [3]int
			for i, item := range v {
				n, ok := item.(int64)
				if !ok {
					return fallback
				}
				ch[i] = int(n)
			}
			return terminal.RGB(ch[0], ch[1], ch[2])
		}
	}
	return fallback
}

// ParseColor accepts "#rrggbb" or "r,g,b"
func ParseColor(s string) (terminal.Color, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return terminal.Color{}, false
		}
		return terminal.FromColorful(c), true
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return terminal.Color{}, false
	}
	var ch [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return terminal.Color{}, false
		}
		ch[i] = n
	}
	return terminal.RGB(ch[0], ch[1], ch[2]), true
}
