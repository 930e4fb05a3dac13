package query

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCriteria reads a search bar string. Tokens "area:<x>" and "min:<n>"
// (or "pts>=<n>") become field filters; everything else is the search term.
func ParseCriteria(input string) (Criteria, error) {
	var c Criteria
	terms := make([]string, 0)
	for _, tok := range strings.Fields(input) {
		lower := strings.ToLower(tok)
		switch {
		case strings.HasPrefix(lower, "area:"):
			area := tok[len("area:"):]
			c.Fields.AreaContains = &area
		case strings.HasPrefix(lower, "min:"), strings.HasPrefix(lower, "pts>="):
			raw := tok[strings.IndexAny(tok, ":=")+1:]
			n, err := strconv.Atoi(raw)
			if err != nil {
				return Criteria{}, fmt.Errorf("query: invalid minimum points %q", raw)
			}
			c.Fields.MinPoints = &n
		default:
			terms = append(terms, tok)
		}
	}
	c.Term = strings.Join(terms, " ")
	return c, nil
}

func (c Criteria) String() string {
	parts := make([]string, 0, 3)
	if strings.TrimSpace(c.Term) != "" {
		parts = append(parts, strings.TrimSpace(c.Term))
	}
	if c.Fields.AreaContains != nil {
		parts = append(parts, "area:"+*c.Fields.AreaContains)
	}
	if c.Fields.MinPoints != nil {
		parts = append(parts, fmt.Sprintf("min:%d", *c.Fields.MinPoints))
	}
	return strings.Join(parts, " ")
}
