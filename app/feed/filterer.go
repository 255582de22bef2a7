package feed

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Filterer keeps entries that mention a keyword. It is applied to national
// sources only.
type Filterer struct {
	keyword string
	folded  string
}

func NewFilterer(keyword string) *Filterer {
	keyword = strings.TrimSpace(keyword)
	return &Filterer{
		keyword: keyword,
		folded:  cases.Fold().String(keyword),
	}
}

func (f *Filterer) Keyword() string {
	return f.keyword
}

// Run reports whether the entry is filtered out, and why.
func (f *Filterer) Run(title, text string) (bool, string) {
	if f.folded == "" {
		return false, ""
	}

	fold := cases.Fold()
	for _, value := range []string{title, text} {
		if strings.Contains(fold.String(value), f.folded) {
			return false, ""
		}
	}

	return true, fmt.Sprintf("does not contain '%s'", f.keyword)
}
