package catalog

import (
	"regexp"
	"strings"

	"github.com/fulmenhq/brandkit/pkg/scanner"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var wordSeparator = regexp.MustCompile(`[-_]`)

// DisplayName turns a file name into a readable name:
// "acme-inc_labs.svg" -> "Acme Inc Labs".
func DisplayName(filename string) string {
	words := wordSeparator.Split(scanner.BaseName(filename), -1)
	caser := cases.Title(language.Und)
	for i, w := range words {
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

// nameOrder compares display names alphabetically ignoring case.
type nameOrder struct {
	col *collate.Collator
}

func newNameOrder() *nameOrder {
	return &nameOrder{col: collate.New(language.Und, collate.IgnoreCase)}
}

// Less reports whether a sorts strictly before b.
func (o *nameOrder) Less(a, b string) bool {
	return o.col.CompareString(a, b) < 0
}
