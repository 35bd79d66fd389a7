package screen

// RGB is a resolved 24-bit color, used only for rendering snapshots —
// the Cell model itself stores a palette Color, not RGB.
type RGB struct{ R, G, B uint8 }

// DefaultPalette is the standard 256-color palette: 16 named colors
// (0-15), a 216 color cube (16-231), and 24 grayscale steps (232-255),
// grounded in danielgatis-go-headless-term's colors.go.
var DefaultPalette [256]RGB

func init() {
	named := [16]RGB{
		{0, 0, 0}, {205, 49, 49}, {13, 188, 121}, {229, 229, 16},
		{36, 114, 200}, {188, 63, 188}, {17, 168, 205}, {229, 229, 229},
		{102, 102, 102}, {241, 76, 76}, {35, 209, 139}, {245, 245, 67},
		{59, 142, 234}, {214, 112, 214}, {41, 184, 219}, {255, 255, 255},
	}
	copy(DefaultPalette[:16], named[:])

	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				DefaultPalette[i] = RGB{uint8(r * 51), uint8(g * 51), uint8(b * 51)}
				i++
			}
		}
	}
	for j := 0; j < 24; j++ {
		gray := uint8(8 + j*10)
		DefaultPalette[232+j] = RGB{gray, gray, gray}
	}
}

// ResolveColor turns a Color reference into RGB, applying def for the
// default-color case (foreground/background default differ, so callers
// pass the right default in).
func ResolveColor(c Color, def RGB) RGB {
	if c.Default {
		return def
	}
	return DefaultPalette[c.Index]
}

// DefaultForeground and DefaultBackground are the colors used to resolve
// a Color{Default: true} when no terminal-theme override is configured.
var (
	DefaultForeground = RGB{229, 229, 229}
	DefaultBackground = RGB{0, 0, 0}
)
