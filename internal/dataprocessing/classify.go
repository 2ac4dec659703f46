package dataprocessing

import (
	"strings"

	"dashgen/pkg/contracts/domain"
)

// RoleKeywords maps each role to its ordered substring keywords. The
// keyword table is data, not code: classification itself is a single
// generic scan so the sets can be unit-tested (and tuned) in isolation.
// Keywords are matched as substrings of canonical column names, which
// are already lowercased.
var RoleKeywords = map[domain.Role][]string{
	domain.RoleAmount:   {"sale", "amount", "total", "revenue"},
	domain.RoleDate:     {"date", "fecha"},
	domain.RoleProduct:  {"product", "item", "article", "sku"},
	domain.RoleLocation: {"store", "shop", "branch"},
	domain.RoleRegion:   {"region", "city", "zone", "country"},
}

// Classify scans canonical column names against RoleKeywords and
// returns, per role, the first column (in table order) containing any
// of that role's keywords. Roles with no matching column stay empty;
// absence is a valid outcome that downstream stages tolerate.
func Classify(columns []string) domain.RoleAssignment {
	var ra domain.RoleAssignment
	for _, role := range domain.Roles {
		ra.SetColumn(role, firstMatch(columns, RoleKeywords[role]))
	}
	return ra
}

// firstMatch returns the first column containing any keyword, or "".
// Ties between columns resolve to table order; ties between keywords
// are irrelevant since any keyword qualifies a column.
func firstMatch(columns, keywords []string) string {
	for _, col := range columns {
		for _, kw := range keywords {
			if strings.Contains(col, kw) {
				return col
			}
		}
	}
	return ""
}
