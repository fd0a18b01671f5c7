package svgmarkup

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// RelativeSize is written to the root width and height attributes.
const RelativeSize = "100%"

var (
	singleLetterID = regexp.MustCompile(`^[a-zA-Z]$`)
	urlReference   = regexp.MustCompile(`url\(\s*(['"]?)#([a-zA-Z])(['"]?)\s*\)`)
	leadingNumber  = regexp.MustCompile(`^\s*([+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)
)

// Normalize canonicalizes an asset so it can be recoloured and scaled:
//
//   - the XML declaration, doctype and comments are dropped
//   - a viewBox is derived from width/height when missing and both are absolute
//   - width and height, where declared, become 100%
//   - single-letter ids X become {baseName}_X and references follow
//
// Only a root with no viewBox, width or height at all is rejected with
// ErrNoSizing. Normalizing already normalized markup returns it unchanged.
// The bool reports whether the output differs from the input.
func Normalize(data []byte, baseName string) ([]byte, bool, error) {
	doc, root, err := parse(data)
	if err != nil {
		return nil, false, err
	}

	stripNoise(doc, root)

	if err := ensureViewBox(root); err != nil {
		return nil, false, err
	}
	for _, key := range []string{"width", "height"} {
		if a := root.SelectAttr(key); a != nil {
			a.Value = RelativeSize
		}
	}

	prefixIDs(root, baseName)

	out, err := write(doc)
	if err != nil {
		return nil, false, err
	}
	return out, !bytes.Equal(data, out), nil
}

func stripNoise(doc *etree.Document, root *etree.Element) {
	for _, tok := range append([]etree.Token{}, doc.Child...) {
		if tok != etree.Token(root) {
			doc.RemoveChild(tok)
		}
	}
	walk(root, func(e *etree.Element) {
		for _, tok := range append([]etree.Token{}, e.Child...) {
			if c, ok := tok.(*etree.Comment); ok {
				e.RemoveChild(c)
			}
		}
	})
}

func ensureViewBox(root *etree.Element) error {
	if vb := root.SelectAttr("viewBox"); vb != nil && strings.TrimSpace(vb.Value) != "" {
		return nil
	}
	if root.SelectAttr("viewBox") == nil && root.SelectAttr("width") == nil && root.SelectAttr("height") == nil {
		return ErrNoSizing
	}
	w, okW := parseLength(root.SelectAttrValue("width", ""))
	h, okH := parseLength(root.SelectAttrValue("height", ""))
	if okW && okH {
		root.CreateAttr("viewBox", "0 0 "+formatNumber(w)+" "+formatNumber(h))
	}
	return nil
}

// parseLength reads the leading number of an absolute length ("120", "64px").
// Percentages carry no intrinsic size.
func parseLength(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	if v == "" || strings.HasSuffix(v, "%") {
		return 0, false
	}
	m := leadingNumber.FindStringSubmatch(v)
	if m == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return f, true
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func prefixIDs(root *etree.Element, baseName string) {
	renamed := map[string]string{}
	walk(root, func(e *etree.Element) {
		id := e.SelectAttr("id")
		if id == nil || !singleLetterID.MatchString(id.Value) {
			return
		}
		prefixed := baseName + "_" + id.Value
		renamed[id.Value] = prefixed
		id.Value = prefixed
	})
	if len(renamed) == 0 {
		return
	}

	rewriteURLs := func(s string) string {
		return urlReference.ReplaceAllStringFunc(s, func(m string) string {
			sub := urlReference.FindStringSubmatch(m)
			to, ok := renamed[sub[2]]
			if !ok {
				return m
			}
			return "url(" + sub[1] + "#" + to + sub[3] + ")"
		})
	}

	walk(root, func(e *etree.Element) {
		for i := range e.Attr {
			a := &e.Attr[i]
			if a.Key == "href" && strings.HasPrefix(a.Value, "#") {
				if to, ok := renamed[a.Value[1:]]; ok {
					a.Value = "#" + to
				}
				continue
			}
			if strings.Contains(a.Value, "url(") {
				a.Value = rewriteURLs(a.Value)
			}
		}
		if strings.EqualFold(e.Tag, "style") {
			for _, tok := range e.Child {
				if cd, ok := tok.(*etree.CharData); ok && strings.Contains(cd.Data, "url(") {
					cd.Data = rewriteURLs(cd.Data)
				}
			}
		}
	})
}
