package css

import "strings"

// shorthand.go expands shorthand properties into their longhands per §9's
// canonical cases. A shorthand parser that can't make sense of its value
// commits nothing (§7 bucket 3): ExpandShorthand returns ok=false and the
// caller drops the whole declaration rather than applying a partial result.

// ExpandShorthand expands a parsed shorthand value into its longhands.
// name must already be known-shorthand (callers check PropertyID.IsShorthand).
func ExpandShorthand(name string, v *Value) (map[string]*Value, bool) {
	switch name {
	case "margin":
		return expand4("margin-top", "margin-right", "margin-bottom", "margin-left", v)
	case "padding":
		return expand4("padding-top", "padding-right", "padding-bottom", "padding-left", v)
	case "border-width":
		return expand4("border-top-width", "border-right-width", "border-bottom-width", "border-left-width", v)
	case "border-style":
		return expand4("border-top-style", "border-right-style", "border-bottom-style", "border-left-style", v)
	case "border-color":
		return expand4("border-top-color", "border-right-color", "border-bottom-color", "border-left-color", v)
	case "border-radius":
		return expandBorderRadius(v)
	case "border":
		return expandBorderSide("", v)
	case "border-top":
		return expandBorderSide("top", v)
	case "border-right":
		return expandBorderSide("right", v)
	case "border-bottom":
		return expandBorderSide("bottom", v)
	case "border-left":
		return expandBorderSide("left", v)
	case "outline":
		return expandOutline(v)
	case "background":
		return expandBackground(v)
	case "list-style":
		return expandListStyle(v)
	case "font":
		return expandFont(v)
	case "flex":
		return expandFlex(v)
	}
	return nil, false
}

func valueItems(v *Value) []Value {
	if v == nil {
		return nil
	}
	if v.Kind == ValueList {
		return v.List
	}
	return []Value{*v}
}

// expand4 implements the margin/padding/border-*-width/style/color 4-tuple
// rule: 1 value -> all sides, 2 -> {v,h}, 3 -> {t,h,b}, 4 -> {t,r,b,l}.
func expand4(top, right, bottom, left string, v *Value) (map[string]*Value, bool) {
	items := valueItems(v)
	var t, r, b, l Value
	switch len(items) {
	case 1:
		t, r, b, l = items[0], items[0], items[0], items[0]
	case 2:
		t, r, b, l = items[0], items[1], items[0], items[1]
	case 3:
		t, r, b, l = items[0], items[1], items[2], items[1]
	case 4:
		t, r, b, l = items[0], items[1], items[2], items[3]
	default:
		return nil, false
	}
	return map[string]*Value{top: &t, right: &r, bottom: &b, left: &l}, true
}

// expandBorderRadius splits an optional "/" into horizontal and vertical
// radii lists, each following the 4-tuple mirroring rule (tl->br, tr->bl),
// and recombines into one ValuePair per corner.
func expandBorderRadius(v *Value) (map[string]*Value, bool) {
	items := valueItems(v)

	splitAt := -1
	for i, item := range items {
		if item.Kind == ValueIdent && item.Ident == "/" {
			splitAt = i
			break
		}
	}

	var horiz, vert []Value
	if splitAt == -1 {
		horiz = items
		vert = items
	} else {
		horiz = items[:splitAt]
		vert = items[splitAt+1:]
	}

	hx, ok := mirror4(horiz)
	if !ok {
		return nil, false
	}
	vy, ok := mirror4(vert)
	if !ok {
		return nil, false
	}

	corner := func(x, y Value) *Value {
		return &Value{Kind: ValuePair, Pair: &[2]Value{x, y}}
	}

	return map[string]*Value{
		"border-top-left-radius":     corner(hx[0], vy[0]),
		"border-top-right-radius":    corner(hx[1], vy[1]),
		"border-bottom-right-radius": corner(hx[2], vy[2]),
		"border-bottom-left-radius":  corner(hx[3], vy[3]),
	}, true
}

// mirror4 expands 1-4 radii into [tl, tr, br, bl] with missing corners
// mirrored from their diagonal opposite.
func mirror4(items []Value) ([4]Value, bool) {
	var out [4]Value
	switch len(items) {
	case 1:
		out = [4]Value{items[0], items[0], items[0], items[0]}
	case 2:
		out = [4]Value{items[0], items[1], items[0], items[1]}
	case 3:
		out = [4]Value{items[0], items[1], items[2], items[1]}
	case 4:
		out = [4]Value{items[0], items[1], items[2], items[3]}
	default:
		return out, false
	}
	return out, true
}

// expandBorderSide expands the width/style/color composite (any order,
// each optional) for one side, or all four sides when side is "".
func expandBorderSide(side string, v *Value) (map[string]*Value, bool) {
	var width, style, color *Value
	for _, item := range valueItems(v) {
		item := item
		switch classifyBorderComponent(&item) {
		case "width":
			width = &item
		case "style":
			style = &item
		case "color":
			color = &item
		default:
			return nil, false
		}
	}

	sides := []string{side}
	if side == "" {
		sides = []string{"top", "right", "bottom", "left"}
	}

	out := make(map[string]*Value, len(sides)*3)
	for _, s := range sides {
		if width != nil {
			out["border-"+s+"-width"] = width
		}
		if style != nil {
			out["border-"+s+"-style"] = style
		}
		if color != nil {
			out["border-"+s+"-color"] = color
		}
	}
	return out, true
}

var borderStyleKeywords = map[string]bool{
	"none": true, "hidden": true, "dotted": true, "dashed": true, "solid": true,
	"double": true, "groove": true, "ridge": true, "inset": true, "outset": true,
}

var borderWidthKeywords = map[string]bool{"thin": true, "medium": true, "thick": true}

func classifyBorderComponent(v *Value) string {
	switch v.Kind {
	case ValueLength, ValueCalc:
		return "width"
	case ValueColor:
		return "color"
	case ValueIdent:
		if borderStyleKeywords[v.Ident] {
			return "style"
		}
		if borderWidthKeywords[v.Ident] {
			return "width"
		}
		return "color" // named colors and currentcolor arrive as idents
	}
	return ""
}

func expandOutline(v *Value) (map[string]*Value, bool) {
	var width, style, color *Value
	for _, item := range valueItems(v) {
		item := item
		switch classifyBorderComponent(&item) {
		case "width":
			width = &item
		case "style":
			style = &item
		case "color":
			color = &item
		default:
			return nil, false
		}
	}
	out := map[string]*Value{}
	if width != nil {
		out["outline-width"] = width
	}
	if style != nil {
		out["outline-style"] = style
	}
	if color != nil {
		out["outline-color"] = color
	}
	return out, true
}

// expandBackground implements the position/size split (separated by "/")
// and the origin-falls-through-to-clip-when-clip-absent rule.
func expandBackground(v *Value) (map[string]*Value, bool) {
	items := valueItems(v)
	out := map[string]*Value{}

	var positionItems, sizeItems []Value
	var origin *Value
	seenSlash := false

	for _, item := range items {
		item := item
		if item.Kind == ValueIdent && item.Ident == "/" {
			seenSlash = true
			continue
		}
		switch item.Kind {
		case ValueColor:
			out["background-color"] = &item
		case ValueURL, ValueImage:
			out["background-image"] = &item
		case ValueIdent:
			switch item.Ident {
			case "repeat", "repeat-x", "repeat-y", "no-repeat", "space", "round":
				out["background-repeat"] = &item
			case "scroll", "fixed", "local":
				out["background-attachment"] = &item
			case "border-box", "padding-box", "content-box":
				if origin == nil {
					origin = &item
				} else {
					out["background-clip"] = &item
				}
			case "text":
				out["background-clip"] = &item
			default:
				if seenSlash {
					sizeItems = append(sizeItems, item)
				} else {
					positionItems = append(positionItems, item)
				}
			}
		default:
			if seenSlash {
				sizeItems = append(sizeItems, item)
			} else {
				positionItems = append(positionItems, item)
			}
		}
	}

	if origin != nil {
		out["background-origin"] = origin
		if _, ok := out["background-clip"]; !ok {
			out["background-clip"] = origin
		}
	}
	if len(positionItems) > 0 {
		out["background-position"] = &Value{Kind: ValueList, List: positionItems}
	}
	if len(sizeItems) > 0 {
		out["background-size"] = &Value{Kind: ValueList, List: sizeItems}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func expandListStyle(v *Value) (map[string]*Value, bool) {
	out := map[string]*Value{}
	for _, item := range valueItems(v) {
		item := item
		switch item.Kind {
		case ValueURL:
			out["list-style-image"] = &item
		case ValueIdent:
			switch item.Ident {
			case "inside", "outside":
				out["list-style-position"] = &item
			case "none":
				// ambiguous between image/type; leave both unset, matching
				// neither when already defaulted to none by the initial value
			default:
				out["list-style-type"] = &item
			}
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// expandFont implements the {style,weight,variant-caps,stretch}* size
// [/ line-height]? family+ grammar. font-variant-caps is reset to normal
// unless small-caps is given; no other font-variant-* longhand is set.
func expandFont(v *Value) (map[string]*Value, bool) {
	items := valueItems(v)
	out := map[string]*Value{
		"font-variant-caps": {Kind: ValueIdent, Ident: "normal"},
	}

	i := 0
	for i < len(items) {
		item := items[i]
		if item.Kind == ValueIdent {
			switch item.Ident {
			case "normal":
				i++
				continue
			case "italic", "oblique":
				out["font-style"] = &item
				i++
				continue
			case "small-caps":
				out["font-variant-caps"] = &item
				i++
				continue
			case "bold", "bolder", "lighter":
				out["font-weight"] = &item
				i++
				continue
			case "ultra-condensed", "extra-condensed", "condensed", "semi-condensed",
				"semi-expanded", "expanded", "extra-expanded", "ultra-expanded":
				out["font-stretch"] = &item
				i++
				continue
			}
		}
		if item.Kind == ValueInteger || item.Kind == ValueNumber {
			out["font-weight"] = &item
			i++
			continue
		}
		break
	}

	if i >= len(items) {
		return nil, false
	}

	out["font-size"] = &items[i]
	i++

	if i < len(items) && items[i].Kind == ValueIdent && items[i].Ident == "/" {
		i++
		if i >= len(items) {
			return nil, false
		}
		out["line-height"] = &items[i]
		i++
	}

	if i >= len(items) {
		return nil, false
	}
	family := items[i:]
	out["font-family"] = &Value{Kind: ValueList, List: family}

	return out, true
}

// expandFlex implements "none" -> 0 0 auto, else up to two numbers
// (grow, shrink) and a basis in any order.
func expandFlex(v *Value) (map[string]*Value, bool) {
	items := valueItems(v)

	if len(items) == 1 && items[0].Kind == ValueIdent && strings.EqualFold(items[0].Ident, "none") {
		return map[string]*Value{
			"flex-grow":   {Kind: ValueNumber, Num: 0},
			"flex-shrink": {Kind: ValueNumber, Num: 0},
			"flex-basis":  {Kind: ValueIdent, Ident: "auto"},
		}, true
	}

	var nums []Value
	var basis *Value
	for _, item := range items {
		item := item
		switch item.Kind {
		case ValueInteger, ValueNumber:
			nums = append(nums, item)
		default:
			if basis != nil {
				return nil, false
			}
			basis = &item
		}
	}

	out := map[string]*Value{}
	switch len(nums) {
	case 0:
	case 1:
		out["flex-grow"] = &nums[0]
	case 2:
		out["flex-grow"] = &nums[0]
		out["flex-shrink"] = &nums[1]
	default:
		return nil, false
	}
	if basis != nil {
		out["flex-basis"] = basis
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}
