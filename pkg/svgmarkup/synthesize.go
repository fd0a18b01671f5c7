package svgmarkup

import (
	"regexp"
	"strings"

	"github.com/beevik/etree"
)

// Fill applies one colour to the element(s) a target selector points at.
type Fill struct {
	Selector string
	Color    string
}

// IsIDSelector reports whether the selector addresses a single element by id.
func IsIDSelector(selector string) bool {
	s := strings.TrimSpace(selector)
	return len(s) > 1 && s[0] == '#'
}

// Synthesize applies fills to base markup in order and returns the variant.
//
// An id selector ("#a") drops any fill declaration from the element's
// style and moves its fill attribute to the end of the attribute list with
// the new colour. Every element carrying the id is recoloured, so duplicate
// ids all change. A bare single-letter id also matches its normalized form
// "{baseName}_a". Any other selector replaces
// every fill attribute in the document, which loses distinct regions on
// assets without ids. Selectors that match nothing are returned in missed.
// The result depends only on the inputs.
func Synthesize(base []byte, fills []Fill, baseName string) ([]byte, []string, error) {
	doc, root, err := parse(base)
	if err != nil {
		return nil, nil, err
	}

	ids := indexIDs(root)
	var missed []string
	for _, f := range fills {
		sel := strings.TrimSpace(f.Selector)
		if IsIDSelector(sel) {
			els := lookupID(ids, sel[1:], baseName)
			if len(els) == 0 {
				missed = append(missed, f.Selector)
				continue
			}
			for _, el := range els {
				stripStyleFill(el)
				el.RemoveAttr("fill")
				el.CreateAttr("fill", f.Color)
			}
			continue
		}
		if n := replaceAllFills(root, f.Color); n == 0 {
			missed = append(missed, f.Selector)
		}
	}

	out, err := write(doc)
	if err != nil {
		return nil, nil, err
	}
	return out, missed, nil
}

func indexIDs(root *etree.Element) map[string][]*etree.Element {
	ids := map[string][]*etree.Element{}
	walk(root, func(e *etree.Element) {
		if id := e.SelectAttrValue("id", ""); id != "" {
			ids[id] = append(ids[id], e)
		}
	})
	return ids
}

func lookupID(ids map[string][]*etree.Element, id, baseName string) []*etree.Element {
	if els, ok := ids[id]; ok {
		return els
	}
	if singleLetterID.MatchString(id) {
		return ids[baseName+"_"+id]
	}
	return nil
}

func replaceAllFills(root *etree.Element, color string) int {
	n := 0
	walk(root, func(e *etree.Element) {
		if a := e.SelectAttr("fill"); a != nil {
			a.Value = color
			n++
		}
	})
	return n
}

var styleFill = regexp.MustCompile(`^\s*fill\s*:`)

// stripStyleFill removes fill declarations from the inline style, dropping
// the attribute when nothing else remains.
func stripStyleFill(e *etree.Element) {
	a := e.SelectAttr("style")
	if a == nil {
		return
	}
	var kept []string
	for _, decl := range strings.Split(a.Value, ";") {
		if strings.TrimSpace(decl) == "" || styleFill.MatchString(decl) {
			continue
		}
		kept = append(kept, strings.TrimSpace(decl))
	}
	if len(kept) == 0 {
		e.RemoveAttr("style")
		return
	}
	a.Value = strings.Join(kept, ";")
}
