package domain

// Role is one of the five semantic categories a column may be classified into.
type Role string

const (
	RoleAmount   Role = "amount"
	RoleDate     Role = "date"
	RoleProduct  Role = "product"
	RoleLocation Role = "location"
	RoleRegion   Role = "region"
)

// Roles lists every role in classification order.
var Roles = []Role{RoleAmount, RoleDate, RoleProduct, RoleLocation, RoleRegion}

// RoleAssignment maps each role to the first matching canonical column
// name, or "" when no column matched. At most one column per role.
type RoleAssignment struct {
	Amount   string `json:"amount,omitempty"`
	Date     string `json:"date,omitempty"`
	Product  string `json:"product,omitempty"`
	Location string `json:"location,omitempty"`
	Region   string `json:"region,omitempty"`
}

// Column returns the column assigned to the given role, or "".
func (ra RoleAssignment) Column(r Role) string {
	switch r {
	case RoleAmount:
		return ra.Amount
	case RoleDate:
		return ra.Date
	case RoleProduct:
		return ra.Product
	case RoleLocation:
		return ra.Location
	case RoleRegion:
		return ra.Region
	}
	return ""
}

// SetColumn assigns a column to the given role.
func (ra *RoleAssignment) SetColumn(r Role, col string) {
	switch r {
	case RoleAmount:
		ra.Amount = col
	case RoleDate:
		ra.Date = col
	case RoleProduct:
		ra.Product = col
	case RoleLocation:
		ra.Location = col
	case RoleRegion:
		ra.Region = col
	}
}

// Resolved reports whether the mandatory amount and date roles both have
// a column. Aggregation requires both; an unresolved assignment is a
// sentinel outcome, not an error.
func (ra RoleAssignment) Resolved() bool {
	return ra.Amount != "" && ra.Date != ""
}

// Unresolved lists the mandatory roles still missing a column.
func (ra RoleAssignment) Unresolved() []Role {
	var missing []Role
	if ra.Amount == "" {
		missing = append(missing, RoleAmount)
	}
	if ra.Date == "" {
		missing = append(missing, RoleDate)
	}
	return missing
}
