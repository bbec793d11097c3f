package css

import (
	"strings"

	"github.com/chrisuehlinger/plutocss/dom"
)

// MatchContext holds context for selector matching.
type MatchContext struct {
	// ScopeElement is the element that :scope should match against.
	// If nil, :scope matches the document root.
	ScopeElement dom.Element
}

// MatchElement tests if a selector matches an element.
func (s *CSSSelector) MatchElement(el dom.Element) bool {
	return s.MatchElementWithContext(el, nil)
}

// MatchElementWithContext tests if a selector matches an element with a match context.
func (s *CSSSelector) MatchElementWithContext(el dom.Element, ctx *MatchContext) bool {
	for _, cs := range s.ComplexSelectors {
		if cs.MatchElementWithContext(el, ctx) {
			return true
		}
	}
	return false
}

// MatchElement tests if a complex selector matches an element.
func (cs *ComplexSelector) MatchElement(el dom.Element) bool {
	return cs.MatchElementWithContext(el, nil)
}

// MatchElementWithContext tests if a complex selector matches an element with context.
func (cs *ComplexSelector) MatchElementWithContext(el dom.Element, ctx *MatchContext) bool {
	if len(cs.Compounds) == 0 {
		return false
	}

	i := len(cs.Compounds) - 1
	currentEl := el

	if !cs.Compounds[i].MatchElementWithContext(currentEl, ctx) {
		return false
	}

	for i > 0 {
		combinator := cs.Compounds[i-1].Combinator
		i--

		switch combinator {
		case CombinatorDescendant:
			matched := false
			for ancestor := currentEl.ParentElement(); ancestor != nil; ancestor = ancestor.ParentElement() {
				if cs.Compounds[i].MatchElementWithContext(ancestor, ctx) {
					currentEl = ancestor
					matched = true
					break
				}
			}
			if !matched {
				return false
			}

		case CombinatorChild:
			parent := currentEl.ParentElement()
			if parent == nil || !cs.Compounds[i].MatchElementWithContext(parent, ctx) {
				return false
			}
			currentEl = parent

		case CombinatorNextSibling:
			prev := currentEl.PreviousSiblingElement()
			if prev == nil || !cs.Compounds[i].MatchElementWithContext(prev, ctx) {
				return false
			}
			currentEl = prev

		case CombinatorSubsequentSibling:
			matched := false
			for prev := currentEl.PreviousSiblingElement(); prev != nil; prev = prev.PreviousSiblingElement() {
				if cs.Compounds[i].MatchElementWithContext(prev, ctx) {
					currentEl = prev
					matched = true
					break
				}
			}
			if !matched {
				return false
			}

		default:
			return false
		}
	}

	return true
}

// MatchElement tests if a compound selector matches an element.
func (c *CompoundSelector) MatchElement(el dom.Element) bool {
	return c.MatchElementWithContext(el, nil)
}

// MatchElementWithContext tests if a compound selector matches an element with context.
func (c *CompoundSelector) MatchElementWithContext(el dom.Element, ctx *MatchContext) bool {
	if c.TypeSelector != nil && !matchTypeSelector(c.TypeSelector, el) {
		return false
	}

	for _, id := range c.IDSelectors {
		if el.ID() != id {
			return false
		}
	}

	for _, class := range c.ClassSelectors {
		if !hasClass(el, class) {
			return false
		}
	}

	for _, attr := range c.AttributeMatchers {
		if !matchAttributeSelector(attr, el) {
			return false
		}
	}

	for _, pc := range c.PseudoClasses {
		if !matchPseudoClassWithContext(pc, el, ctx) {
			return false
		}
	}

	// A pseudo-element on the subject compound only affects what's rendered,
	// not whether the selector matches the element itself.

	return true
}

func hasClass(el dom.Element, class string) bool {
	for _, c := range el.ClassNames() {
		if c == class {
			return true
		}
	}
	return false
}

func matchTypeSelector(ts *TypeSelector, el dom.Element) bool {
	if ts.Name == "*" {
		return true
	}
	if el.IsCaseSensitive() {
		return el.TagName() == ts.Name
	}
	return strings.EqualFold(el.TagName(), ts.Name)
}

// matchAttributeSelector matches against el.Attributes(). The slim dom
// contract exposes attributes as flat name/value pairs, so the namespace
// of a namespaced attribute selector is ignored and only its local name
// (attr.Name) is compared.
func matchAttributeSelector(attr *AttributeMatcher, el dom.Element) bool {
	caseFoldNames := !el.IsCaseSensitive()

	name := attr.Name
	if caseFoldNames {
		name = strings.ToLower(name)
	}

	var matchedValue string
	found := false
	for _, a := range el.Attributes() {
		an := a.Name
		if caseFoldNames {
			an = strings.ToLower(an)
		}
		if an == name {
			matchedValue = a.Value
			found = true
			break
		}
	}

	if !found {
		return false
	}
	if attr.Operator == AttrExists {
		return true
	}

	attrValue := matchedValue
	matchValue := attr.Value
	if attr.CaseInsensitive {
		attrValue = strings.ToLower(attrValue)
		matchValue = strings.ToLower(matchValue)
	}

	switch attr.Operator {
	case AttrEquals:
		return attrValue == matchValue
	case AttrIncludes:
		for _, word := range strings.Fields(attrValue) {
			if attr.CaseInsensitive {
				word = strings.ToLower(word)
			}
			if word == matchValue {
				return true
			}
		}
		return false
	case AttrDashMatch:
		return attrValue == matchValue || strings.HasPrefix(attrValue, matchValue+"-")
	case AttrPrefix:
		return matchValue != "" && strings.HasPrefix(attrValue, matchValue)
	case AttrSuffix:
		return matchValue != "" && strings.HasSuffix(attrValue, matchValue)
	case AttrSubstring:
		return matchValue != "" && strings.Contains(attrValue, matchValue)
	}

	return false
}

func matchPseudoClass(pc *PseudoClassSelector, el dom.Element) bool {
	return matchPseudoClassWithContext(pc, el, nil)
}

func matchPseudoClassWithContext(pc *PseudoClassSelector, el dom.Element, ctx *MatchContext) bool {
	switch pc.Name {
	case "root":
		return el.IsRootNode()

	case "empty":
		return el.FirstChildElement() == nil

	case "first-child":
		return el.PreviousSiblingElement() == nil && el.ParentElement() != nil

	case "last-child":
		return el.NextSiblingElement() == nil && el.ParentElement() != nil

	case "only-child":
		return el.PreviousSiblingElement() == nil && el.NextSiblingElement() == nil && el.ParentElement() != nil

	case "first-of-type":
		tagName := el.TagName()
		for prev := el.PreviousSiblingElement(); prev != nil; prev = prev.PreviousSiblingElement() {
			if prev.TagName() == tagName {
				return false
			}
		}
		return true

	case "last-of-type":
		tagName := el.TagName()
		for next := el.NextSiblingElement(); next != nil; next = next.NextSiblingElement() {
			if next.TagName() == tagName {
				return false
			}
		}
		return true

	case "only-of-type":
		tagName := el.TagName()
		for prev := el.PreviousSiblingElement(); prev != nil; prev = prev.PreviousSiblingElement() {
			if prev.TagName() == tagName {
				return false
			}
		}
		for next := el.NextSiblingElement(); next != nil; next = next.NextSiblingElement() {
			if next.TagName() == tagName {
				return false
			}
		}
		return true

	case "nth-child":
		return matchNthChild(pc, el, false, false)

	case "nth-last-child":
		return matchNthChild(pc, el, true, false)

	case "nth-of-type":
		return matchNthChild(pc, el, false, true)

	case "nth-last-of-type":
		return matchNthChild(pc, el, true, true)

	case "not":
		if pc.Selector != nil {
			return !pc.Selector.MatchElementWithContext(el, ctx)
		}
		return true

	case "is", "where", "matches", "any":
		if pc.Selector != nil {
			return pc.Selector.MatchElementWithContext(el, ctx)
		}
		return false

	case "has":
		if pc.Selector != nil {
			return matchHasSelector(el, pc.Selector, ctx)
		}
		return false

	case "enabled":
		return isEnabled(el)

	case "disabled":
		return isDisabled(el)

	case "checked":
		return isChecked(el)

	case "required":
		_, ok := el.GetAttribute("required")
		return ok

	case "optional":
		_, ok := el.GetAttribute("required")
		return !ok && isFormElement(el)

	case "read-only":
		return isReadOnly(el)

	case "read-write":
		return !isReadOnly(el) && isEditableElement(el)

	case "link":
		return isLink(el) && !isVisited(el)

	case "visited":
		return isLink(el) && isVisited(el)

	case "hover", "active", "focus", "focus-within", "focus-visible":
		// Dynamic interaction states aren't tracked by the static matcher.
		return false

	case "target":
		return false

	case "lang":
		return matchLang(pc.Argument, el)

	case "dir":
		return matchDir(pc.Argument, el)

	case "scope":
		if ctx != nil && ctx.ScopeElement != nil {
			return el == ctx.ScopeElement
		}
		return el.IsRootNode()

	case "invalid":
		return isInvalid(el)

	case "valid":
		return isValid(el)

	default:
		return false
	}
}

// matchNthChild implements :nth-child, :nth-last-child, :nth-of-type,
// :nth-last-of-type, using the An+B already parsed at selector-parse time.
func matchNthChild(pc *PseudoClassSelector, el dom.Element, fromLast bool, ofType bool) bool {
	anb := pc.ANPlusB
	if anb == nil {
		anb = parseANPlusB(pc.Argument)
	}

	pos := 1
	tagName := el.TagName()

	if fromLast {
		for next := el.NextSiblingElement(); next != nil; next = next.NextSiblingElement() {
			if !ofType || next.TagName() == tagName {
				pos++
			}
		}
	} else {
		for prev := el.PreviousSiblingElement(); prev != nil; prev = prev.PreviousSiblingElement() {
			if !ofType || prev.TagName() == tagName {
				pos++
			}
		}
	}

	return anb.Matches(pos)
}

func hasMatchingDescendant(el dom.Element, sel *CSSSelector) bool {
	return hasMatchingDescendantWithContext(el, sel, nil)
}

func hasMatchingDescendantWithContext(el dom.Element, sel *CSSSelector, ctx *MatchContext) bool {
	for child := el.FirstChildElement(); child != nil; child = child.NextSiblingElement() {
		if sel.MatchElementWithContext(child, ctx) {
			return true
		}
		if hasMatchingDescendantWithContext(child, sel, ctx) {
			return true
		}
	}
	return false
}

// matchHasSelector checks if any element matches the relative selector inside :has().
func matchHasSelector(subject dom.Element, sel *CSSSelector, ctx *MatchContext) bool {
	for _, cs := range sel.ComplexSelectors {
		if matchHasComplexSelector(subject, cs, ctx) {
			return true
		}
	}
	return false
}

// matchHasComplexSelector handles a single complex selector within :has(),
// dispatching on its (possibly absent) leading combinator.
func matchHasComplexSelector(subject dom.Element, cs *ComplexSelector, ctx *MatchContext) bool {
	switch cs.LeadingCombinator {
	case CombinatorChild:
		for child := subject.FirstChildElement(); child != nil; child = child.NextSiblingElement() {
			if matchRelativeSelector(child, cs, ctx) {
				return true
			}
		}
		return false

	case CombinatorNextSibling:
		next := subject.NextSiblingElement()
		return next != nil && matchRelativeSelector(next, cs, ctx)

	case CombinatorSubsequentSibling:
		for next := subject.NextSiblingElement(); next != nil; next = next.NextSiblingElement() {
			if matchRelativeSelector(next, cs, ctx) {
				return true
			}
		}
		return false

	default:
		return hasMatchingDescendantForRelative(subject, cs, ctx)
	}
}

// matchRelativeSelector checks if an element matches the compound selectors
// in a relative selector (the part of :has()'s argument after any leading
// combinator).
func matchRelativeSelector(el dom.Element, cs *ComplexSelector, ctx *MatchContext) bool {
	if len(cs.Compounds) == 0 {
		return false
	}

	i := 0
	currentEl := el

	if !cs.Compounds[i].MatchElementWithContext(currentEl, ctx) {
		return false
	}

	if len(cs.Compounds) == 1 {
		return true
	}

	for i < len(cs.Compounds)-1 {
		combinator := cs.Compounds[i].Combinator
		i++

		switch combinator {
		case CombinatorDescendant:
			matched := false
			for _, desc := range getAllDescendants(currentEl) {
				if cs.Compounds[i].MatchElementWithContext(desc, ctx) {
					currentEl = desc
					matched = true
					break
				}
			}
			if !matched {
				return false
			}

		case CombinatorChild:
			matched := false
			for child := currentEl.FirstChildElement(); child != nil; child = child.NextSiblingElement() {
				if cs.Compounds[i].MatchElementWithContext(child, ctx) {
					currentEl = child
					matched = true
					break
				}
			}
			if !matched {
				return false
			}

		case CombinatorNextSibling:
			next := currentEl.NextSiblingElement()
			if next == nil || !cs.Compounds[i].MatchElementWithContext(next, ctx) {
				return false
			}
			currentEl = next

		case CombinatorSubsequentSibling:
			matched := false
			for next := currentEl.NextSiblingElement(); next != nil; next = next.NextSiblingElement() {
				if cs.Compounds[i].MatchElementWithContext(next, ctx) {
					currentEl = next
					matched = true
					break
				}
			}
			if !matched {
				return false
			}

		default:
			return false
		}
	}

	return true
}

// hasMatchingDescendantForRelative checks descendants for a relative selector.
func hasMatchingDescendantForRelative(el dom.Element, cs *ComplexSelector, ctx *MatchContext) bool {
	for child := el.FirstChildElement(); child != nil; child = child.NextSiblingElement() {
		if matchRelativeSelector(child, cs, ctx) {
			return true
		}
		if hasMatchingDescendantForRelative(child, cs, ctx) {
			return true
		}
	}
	return false
}

// getAllDescendants returns all descendant elements, in document order.
func getAllDescendants(el dom.Element) []dom.Element {
	var result []dom.Element
	for child := el.FirstChildElement(); child != nil; child = child.NextSiblingElement() {
		result = append(result, child)
		result = append(result, getAllDescendants(child)...)
	}
	return result
}

func isEnabled(el dom.Element) bool {
	switch strings.ToLower(el.TagName()) {
	case "button", "input", "select", "textarea":
		_, disabled := el.GetAttribute("disabled")
		return !disabled
	}
	return false
}

func isDisabled(el dom.Element) bool {
	switch strings.ToLower(el.TagName()) {
	case "button", "input", "select", "textarea":
		_, disabled := el.GetAttribute("disabled")
		return disabled
	}
	return false
}

func isChecked(el dom.Element) bool {
	switch strings.ToLower(el.TagName()) {
	case "input":
		inputType, _ := el.GetAttribute("type")
		switch strings.ToLower(inputType) {
		case "checkbox", "radio":
			_, checked := el.GetAttribute("checked")
			return checked
		}
	case "option":
		_, selected := el.GetAttribute("selected")
		return selected
	}
	return false
}

func isFormElement(el dom.Element) bool {
	switch strings.ToLower(el.TagName()) {
	case "input", "select", "textarea":
		return true
	}
	return false
}

func isReadOnly(el dom.Element) bool {
	tagName := strings.ToLower(el.TagName())
	if tagName == "input" || tagName == "textarea" {
		_, readonly := el.GetAttribute("readonly")
		_, disabled := el.GetAttribute("disabled")
		return readonly || disabled
	}
	return true
}

func isEditableElement(el dom.Element) bool {
	tagName := strings.ToLower(el.TagName())
	if tagName == "input" {
		inputType, _ := el.GetAttribute("type")
		switch strings.ToLower(inputType) {
		case "text", "password", "email", "url", "tel", "search", "number", "":
			return true
		}
	}
	if tagName == "textarea" {
		return true
	}
	if val, ok := el.GetAttribute("contenteditable"); ok {
		return val != "false"
	}
	return false
}

func isLink(el dom.Element) bool {
	switch strings.ToLower(el.TagName()) {
	case "a", "area":
		_, ok := el.GetAttribute("href")
		return ok
	}
	return false
}

func isVisited(el dom.Element) bool {
	// Visited history isn't tracked, for privacy reasons as in browsers.
	return false
}

// isInvalid checks if an element matches the :invalid pseudo-class. A
// <textarea>'s required-but-empty case can't be checked without a
// text-content accessor on the slim element contract, so it's approximated
// as never invalid (only its sibling controls carry constraint state here).
func isInvalid(el dom.Element) bool {
	switch strings.ToLower(el.TagName()) {
	case "form", "fieldset":
		for child := el.FirstChildElement(); child != nil; child = child.NextSiblingElement() {
			if isInvalid(child) || hasInvalidDescendant(child) {
				return true
			}
		}
		return false

	case "input":
		if _, required := el.GetAttribute("required"); required {
			value, _ := el.GetAttribute("value")
			return value == ""
		}
		return false

	case "select":
		if _, required := el.GetAttribute("required"); required {
			for child := el.FirstChildElement(); child != nil; child = child.NextSiblingElement() {
				if strings.ToLower(child.TagName()) == "option" {
					if _, selected := child.GetAttribute("selected"); selected {
						return false
					}
				}
			}
			return true
		}
		return false
	}

	return false
}

func hasInvalidDescendant(el dom.Element) bool {
	for child := el.FirstChildElement(); child != nil; child = child.NextSiblingElement() {
		if isInvalid(child) || hasInvalidDescendant(child) {
			return true
		}
	}
	return false
}

// isValid checks if an element matches the :valid pseudo-class.
func isValid(el dom.Element) bool {
	switch strings.ToLower(el.TagName()) {
	case "form", "fieldset", "input", "select", "textarea":
		return !isInvalid(el)
	}
	return false
}

func matchLang(lang string, el dom.Element) bool {
	lang = strings.ToLower(lang)
	for current := el; current != nil; current = current.ParentElement() {
		if elLang := current.Lang(); elLang != "" {
			elLang = strings.ToLower(elLang)
			return elLang == lang || strings.HasPrefix(elLang, lang+"-")
		}
	}
	return false
}

func matchDir(dir string, el dom.Element) bool {
	dir = strings.ToLower(dir)
	for current := el; current != nil; current = current.ParentElement() {
		if elDir, ok := current.GetAttribute("dir"); ok {
			return strings.ToLower(elDir) == dir
		}
	}
	return dir == "ltr"
}

// QuerySelector returns the first descendant element matching the selector.
func QuerySelector(root dom.Element, selectorStr string) dom.Element {
	if root == nil {
		return nil
	}
	selector, err := ParseSelector(selectorStr)
	if err != nil {
		return nil
	}
	return querySelectorInternal(root, selector)
}

// QuerySelectorAll returns all descendant elements matching the selector.
func QuerySelectorAll(root dom.Element, selectorStr string) []dom.Element {
	if root == nil {
		return nil
	}
	selector, err := ParseSelector(selectorStr)
	if err != nil {
		return nil
	}
	return querySelectorAllInternal(root, selector)
}

func querySelectorInternal(el dom.Element, selector *CSSSelector) dom.Element {
	for child := el.FirstChildElement(); child != nil; child = child.NextSiblingElement() {
		if selector.MatchElement(child) {
			return child
		}
		if result := querySelectorInternal(child, selector); result != nil {
			return result
		}
	}
	return nil
}

func querySelectorAllInternal(el dom.Element, selector *CSSSelector) []dom.Element {
	var results []dom.Element
	for child := el.FirstChildElement(); child != nil; child = child.NextSiblingElement() {
		if selector.MatchElement(child) {
			results = append(results, child)
		}
		results = append(results, querySelectorAllInternal(child, selector)...)
	}
	return results
}
