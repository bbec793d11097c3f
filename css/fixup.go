package css

import "github.com/chrisuehlinger/plutocss/dom"

// PseudoType identifies which generated box (if any) a computed style was
// resolved for, mirroring the original engine's PseudoType enum used to
// pick apart @page pseudo-classes and the handful of display/layout
// fix-ups in §4.7.
type PseudoType int

const (
	PseudoNone PseudoType = iota
	PseudoBefore
	PseudoAfter
	PseudoMarker
	PseudoFirstLetter
	PseudoFirstLine
)

// tableLikeDisplays are the internal table-box displays that blockify to
// Block rather than to Table, per §4.7's "all Table{Caption,Cell,…} →
// Block".
var tableLikeDisplays = map[string]bool{
	"table-caption":      true,
	"table-cell":         true,
	"table-column":       true,
	"table-column-group": true,
	"table-row":          true,
	"table-row-group":    true,
	"table-footer-group": true,
	"table-header-group": true,
}

// applyDisplayFixups runs the §4.7 post-cascade fix-up set: default-style
// materialization for an element with no matched declarations at all,
// z-index dropping for absolutely/fixed-positioned non-flex children,
// ::first-letter position-clearing, and the inline→block "blockify" pass
// for floated, positioned, root, or flex-child boxes.
func applyDisplayFixups(cs *ComputedStyle, el dom.Element, parent *ComputedStyle, pseudo PseudoType, noDeclarations bool) {
	if noDeclarations && pseudo == PseudoMarker {
		cs.SetPropertyValue("display", &Value{Kind: ValueIdent, Ident: "inline"})
		return
	}
	isRoot := el != nil && el.IsRootNode()
	isFlexChild := parent != nil && isFlexContainer(parent)

	if noDeclarations && pseudo == PseudoNone {
		display := "inline"
		if isRoot || isFlexChild {
			display = "block"
		}
		cs.SetPropertyValue("display", &Value{Kind: ValueIdent, Ident: display})
		return
	}

	position := identValue(cs, "position")
	isPositioned := position == "absolute" || position == "fixed"
	isFloating := identValue(cs, "float") != "none"

	if isPositioned && !isFlexChild {
		cs.SetPropertyValue("z-index", &Value{Kind: ValueIdent, Ident: "auto"})
	}

	if pseudo == PseudoFirstLetter {
		cs.SetPropertyValue("position", &Value{Kind: ValueIdent, Ident: "static"})
		if isFloating {
			cs.SetPropertyValue("display", &Value{Kind: ValueIdent, Ident: "block"})
		} else {
			cs.SetPropertyValue("display", &Value{Kind: ValueIdent, Ident: "inline"})
		}
	}

	if isFloating || isPositioned || isRoot || isFlexChild {
		blockify(cs)
	}

	if isPositioned || isFlexChild {
		cs.SetPropertyValue("float", &Value{Kind: ValueIdent, Ident: "none"})
	}
}

// blockify rewrites the computed display value per the CSS Display spec's
// blockification table, restricted to the displays §4.7 names.
func blockify(cs *ComputedStyle) {
	display := identValue(cs, "display")
	var blockified string
	switch display {
	case "inline", "inline-block":
		blockified = "block"
	case "inline-table":
		blockified = "table"
	case "inline-flex":
		blockified = "flex"
	default:
		if tableLikeDisplays[display] {
			blockified = "block"
		}
	}
	if blockified != "" {
		cs.SetPropertyValue("display", &Value{Kind: ValueIdent, Ident: blockified})
	}
}

func isFlexContainer(cs *ComputedStyle) bool {
	d := identValue(cs, "display")
	return d == "flex" || d == "inline-flex"
}

func identValue(cs *ComputedStyle, prop string) string {
	v := cs.GetPropertyValue(prop)
	if v == nil || v.Kind != ValueIdent {
		return ""
	}
	return v.Ident
}
