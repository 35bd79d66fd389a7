package screen

// sgr applies Select Graphic Rendition parameters to the print-attribute
// state. Empty or {0} resets; 38;5;n / 48;5;n consume the following two
// parameters as a 256-color index.
func (s *Screen) sgr(params []int64) {
	if len(params) == 0 {
		s.attrs = DefaultAttrs
		return
	}
	for i := 0; i < len(params); i++ {
		p := params[i]
		if p < 0 {
			p = 0
		}
		switch {
		case p == 0:
			s.attrs = DefaultAttrs
		case p == 1:
			s.attrs.Style |= StyleBold
		case p == 2:
			s.attrs.Style |= StyleDim
		case p == 3:
			s.attrs.Style |= StyleItalic
		case p == 4:
			s.attrs.Style |= StyleUnderline
		case p == 5:
			s.attrs.Style |= StyleBlink
		case p == 7:
			s.attrs.Style |= StyleInverse
		case p == 8:
			s.attrs.Style |= StyleHidden
		case p == 9:
			s.attrs.Style |= StyleStrikethrough
		case p == 21:
			s.attrs.Style &^= StyleBold
		case p == 22:
			s.attrs.Style &^= StyleBold | StyleDim
		case p == 23:
			s.attrs.Style &^= StyleItalic
		case p == 24:
			s.attrs.Style &^= StyleUnderline
		case p == 25:
			s.attrs.Style &^= StyleBlink
		case p == 27:
			s.attrs.Style &^= StyleInverse
		case p == 28:
			s.attrs.Style &^= StyleHidden
		case p == 29:
			s.attrs.Style &^= StyleStrikethrough
		case p >= 30 && p <= 37:
			s.attrs.Fg = Indexed(uint8(p - 30))
		case p == 38:
			i = s.sgrExtendedColor(params, i, &s.attrs.Fg)
		case p == 39:
			s.attrs.Fg = DefaultColor
		case p >= 40 && p <= 47:
			s.attrs.Bg = Indexed(uint8(p - 40))
		case p == 48:
			i = s.sgrExtendedColor(params, i, &s.attrs.Bg)
		case p == 49:
			s.attrs.Bg = DefaultColor
		case p >= 90 && p <= 97:
			s.attrs.Fg = Indexed(uint8(p-90) + 8)
		case p >= 100 && p <= 107:
			s.attrs.Bg = Indexed(uint8(p-100) + 8)
		}
	}
}

// sgrExtendedColor consumes the "5;n" (256-color) form starting at index
// i (which holds the 38 or 48), returning the new index to resume from.
// "2;r;g;b" truecolor is accepted and flattened to a palette index by
// quantizing each channel onto the 6x6x6 cube (see rgbToIndex), since the
// Cell model stores an 8-bit palette index.
func (s *Screen) sgrExtendedColor(params []int64, i int, dst *Color) int {
	if i+1 >= len(params) {
		return i
	}
	mode := params[i+1]
	switch mode {
	case 5:
		if i+2 < len(params) {
			*dst = Indexed(uint8(params[i+2]))
			return i + 2
		}
		return i + 1
	case 2:
		if i+4 < len(params) {
			r, g, b := params[i+2], params[i+3], params[i+4]
			*dst = Indexed(rgbToIndex(r, g, b))
			return i + 4
		}
		return i + 1
	}
	return i + 1
}

// rgbToIndex maps a truecolor triple onto the 6x6x6 color cube (indices
// 16..231) used by DefaultPalette.
func rgbToIndex(r, g, b int64) uint8 {
	q := func(v int64) int64 {
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		return v * 5 / 255
	}
	return uint8(16 + 36*q(r) + 6*q(g) + q(b))
}
