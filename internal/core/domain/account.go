package domain

import (
	"fmt"
	"strings"
)

// Category is the closed set of statement sections an account can belong to.
type Category string

const (
	CategoryOperatingRevenue     Category = "Operating Revenue"
	CategoryCostOfGoodsSold      Category = "Cost of Goods Sold"
	CategoryOperatingExpenses    Category = "Operating Expenses"
	CategoryNonOperatingExpenses Category = "Non Operating Expenses"
	CategoryOtherIncome          Category = "Other Income"
	CategoryUncategorized        Category = "Uncategorized"
)

// Categories lists every category in statement order.
var Categories = []Category{
	CategoryOperatingRevenue,
	CategoryCostOfGoodsSold,
	CategoryOperatingExpenses,
	CategoryNonOperatingExpenses,
	CategoryOtherIncome,
	CategoryUncategorized,
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory maps a stored label back to a Category. Unknown labels fall
// back to CategoryUncategorized.
func ParseCategory(label string) Category {
	c := Category(strings.TrimSpace(label))
	if c.IsValid() {
		return c
	}
	return CategoryUncategorized
}

// Account is a named ledger bucket of a company carrying a fixed category.
// It is unique per (CompanyID, ExternalAccountID).
type Account struct {
	AccountID         string   `json:"accountID"`         // Primary Key (UUID)
	CompanyID         string   `json:"companyID"`         // FK -> companies.company_id
	ExternalAccountID string   `json:"externalAccountID"` // Source system account reference
	Name              string   `json:"name"`
	Category          Category `json:"category"`
	AuditFields
}

// AccountConflictPolicy decides what happens when an ingested line item
// references an existing account with a different name or category.
type AccountConflictPolicy string

const (
	// FirstWriteWins keeps the stored name and category and reports a warning.
	FirstWriteWins AccountConflictPolicy = "first_write_wins"
	// LastWriteWins overwrites the stored name and category with the new input.
	LastWriteWins AccountConflictPolicy = "last_write_wins"
	// RejectConflicts fails the entry that carries the conflicting account.
	RejectConflicts AccountConflictPolicy = "reject"
)

// ParseAccountConflictPolicy validates a policy name. An empty name selects FirstWriteWins.
func ParseAccountConflictPolicy(s string) (AccountConflictPolicy, error) {
	switch p := AccountConflictPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return FirstWriteWins, nil
	case FirstWriteWins, LastWriteWins, RejectConflicts:
		return p, nil
	default:
		return "", fmt.Errorf("unknown account conflict policy %q", s)
	}
}
