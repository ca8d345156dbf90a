package highlight

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Style is the visual style for one token class.
type Style struct {
	// Foreground is the text color.
	Foreground colorful.Color

	// Bold, Italic and Underline are rendering attributes.
	Bold      bool
	Italic    bool
	Underline bool
}

// Theme maps token classes to styles.
type Theme struct {
	// Name is the display name of the theme.
	Name string

	// Background is the rendering surface background color.
	Background colorful.Color

	// Foreground is the default text color.
	Foreground colorful.Color

	// ClassStyles maps markup classes ("token keyword") to styles.
	ClassStyles map[string]Style
}

// StyleForClass resolves the style for a markup class. Multi-word
// classes fall back to their prefix ("token keyword" -> "token"), then
// to the default foreground.
func (t *Theme) StyleForClass(class string) Style {
	for class != "" {
		if style, ok := t.ClassStyles[class]; ok {
			return style
		}
		idx := strings.LastIndex(class, " ")
		if idx < 0 {
			break
		}
		class = class[:idx]
	}
	return Style{Foreground: t.Foreground}
}

// BackgroundHex returns the background as a #rrggbb string, the form
// size reconciliation copies onto the editable surface and host.
func (t *Theme) BackgroundHex() string {
	return t.Background.Hex()
}

// mustHex parses a #rrggbb string, panicking on malformed input.
// Theme definitions are package constants, so a bad literal is a
// programming error.
func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("highlight: bad hex color " + s)
	}
	return c
}

// DefaultDark returns the built-in dark theme.
func DefaultDark() *Theme {
	return &Theme{
		Name:       "Default Dark",
		Background: mustHex("#1e1e1e"),
		Foreground: mustHex("#d4d4d4"),
		ClassStyles: map[string]Style{
			"token comment":     {Foreground: mustHex("#6a9955"), Italic: true},
			"token string":      {Foreground: mustHex("#ce9178")},
			"token number":      {Foreground: mustHex("#b5cea8")},
			"token keyword":     {Foreground: mustHex("#569cd6"), Bold: true},
			"token operator":    {Foreground: mustHex("#d4d4d4")},
			"token punctuation": {Foreground: mustHex("#808080")},
			"token function":    {Foreground: mustHex("#dcdcaa")},
			"token type":        {Foreground: mustHex("#4ec9b0")},
			"token constant":    {Foreground: mustHex("#4fc1ff")},
			"token builtin":     {Foreground: mustHex("#c586c0")},
		},
	}
}

// DefaultLight returns the built-in light theme.
func DefaultLight() *Theme {
	return &Theme{
		Name:       "Default Light",
		Background: mustHex("#ffffff"),
		Foreground: mustHex("#1f1f1f"),
		ClassStyles: map[string]Style{
			"token comment":     {Foreground: mustHex("#008000"), Italic: true},
			"token string":      {Foreground: mustHex("#a31515")},
			"token number":      {Foreground: mustHex("#098658")},
			"token keyword":     {Foreground: mustHex("#0000ff"), Bold: true},
			"token operator":    {Foreground: mustHex("#1f1f1f")},
			"token punctuation": {Foreground: mustHex("#6e6e6e")},
			"token function":    {Foreground: mustHex("#795e26")},
			"token type":        {Foreground: mustHex("#267f99")},
			"token constant":    {Foreground: mustHex("#0070c1")},
			"token builtin":     {Foreground: mustHex("#af00db")},
		},
	}
}

// Themes returns the built-in themes keyed by name.
func Themes() map[string]*Theme {
	dark := DefaultDark()
	light := DefaultLight()
	return map[string]*Theme{
		dark.Name:  dark,
		light.Name: light,
	}
}
