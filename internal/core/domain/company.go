package domain

import "fmt"

// Company is the owner of a series of reports. It is created the first time
// an ingestion batch references its external id and never changes afterwards.
type Company struct {
	CompanyID         string `json:"companyID"`         // Primary Key (UUID)
	ExternalCompanyID int64  `json:"externalCompanyID"` // Source system company reference (unique)
	Name              string `json:"name"`
	AuditFields
}

// DefaultCompanyName is the name given to companies created implicitly by ingestion.
func DefaultCompanyName(externalCompanyID int64) string {
	return fmt.Sprintf("Company %d", externalCompanyID)
}
