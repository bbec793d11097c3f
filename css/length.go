package css

// length.go resolves absolute and font/viewport-relative length units to
// px at 96dpi, per §6's numeric semantics and §4.6's length-resolution
// context (em/ex/ch/rem/vw/vh/vmin/vmax).

const (
	pxPerIn = 96.0
	pxPerPt = 96.0 / 72.0
	pxPerPc = 96.0 / 6.0
	pxPerCm = 96.0 / 2.54
	pxPerMm = 96.0 / 25.4
)

// resolveLengthPx converts a Length value to px using ctx for relative
// units. Used by both ResolveCalc (for literal operands inside calc()) and
// the cascade's plain (non-calc) length resolution.
func resolveLengthPx(v *Value, ctx EvalContext) float64 {
	if v.Kind != ValueLength {
		return 0
	}
	switch v.Unit {
	case UnitPx, UnitNone:
		return v.Num
	case UnitPt:
		return v.Num * pxPerPt
	case UnitPc:
		return v.Num * pxPerPc
	case UnitCm:
		return v.Num * pxPerCm
	case UnitMm:
		return v.Num * pxPerMm
	case UnitIn:
		return v.Num * pxPerIn
	case UnitEm:
		return v.Num * ctx.FontSizePx
	case UnitRem:
		return v.Num * ctx.RootFontSize
	case UnitEx:
		xHeight := ctx.FontXHeight
		if xHeight == 0 {
			xHeight = ctx.FontSizePx / 2
		}
		return v.Num * xHeight
	case UnitCh:
		zw := ctx.FontZeroWidth
		if zw == 0 {
			zw = ctx.FontSizePx / 2
		}
		return v.Num * zw
	case UnitVw:
		return v.Num / 100 * ctx.ViewportW
	case UnitVh:
		return v.Num / 100 * ctx.ViewportH
	case UnitVmin:
		vmin := ctx.ViewportW
		if ctx.ViewportH < vmin {
			vmin = ctx.ViewportH
		}
		return v.Num / 100 * vmin
	case UnitVmax:
		vmax := ctx.ViewportW
		if ctx.ViewportH > vmax {
			vmax = ctx.ViewportH
		}
		return v.Num / 100 * vmax
	}
	return 0
}

// ResolveValueLengthPx resolves a Length or Calc value to px, falling back
// to the zero-length sentinel on resolution failure per §7 bucket 2.
func ResolveValueLengthPx(v *Value, ctx EvalContext) float64 {
	if v == nil {
		return 0
	}
	switch v.Kind {
	case ValueLength:
		return resolveLengthPx(v, ctx)
	case ValueCalc:
		resolved, ok := ResolveCalc(v.Calc, ctx)
		if !ok {
			return 0
		}
		return resolved.Num
	case ValuePercent:
		return v.Num / 100 * ctx.PercentBase
	case ValueInteger, ValueNumber:
		return v.Num
	}
	return 0
}
