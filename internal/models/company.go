package models

// Company represents a row of the companies table.
type Company struct {
	CompanyID         string `db:"company_id"`
	ExternalCompanyID int64  `db:"external_company_id"`
	Name              string `db:"name"`
	AuditFields
}
