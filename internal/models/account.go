package models

// Account represents a row of the accounts table.
// Category holds the display label of the category (e.g. "Operating Revenue").
type Account struct {
	AccountID         string `db:"account_id"`
	CompanyID         string `db:"company_id"`
	ExternalAccountID string `db:"external_account_id"`
	Name              string `db:"name"`
	Category          string `db:"category"`
	AuditFields
}
