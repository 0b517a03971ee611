package dto

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Section kinds of a statement entry as they appear on the wire.
const (
	SectionRevenue              = "revenue"
	SectionCostOfGoodsSold      = "cost_of_goods_sold"
	SectionOperatingExpenses    = "operating_expenses"
	SectionNonOperatingExpenses = "non_operating_expenses"
	SectionOtherIncome          = "other_income"
)

// headerFields are the non-section keys of a statement entry.
var headerFields = map[string]bool{
	"rootfi_company_id": true,
	"platform_id":       true,
	"period_start":      true,
	"period_end":        true,
	"gross_profit":      true,
	"net_profit":        true,
}

// knownSections are decoded strictly, any other array key is decoded on a best-effort basis.
var knownSections = map[string]bool{
	SectionRevenue:              true,
	SectionCostOfGoodsSold:      true,
	SectionOperatingExpenses:    true,
	SectionNonOperatingExpenses: true,
	SectionOtherIncome:          true,
}

// IngestBatchRequest is the envelope of a batch ingestion call.
// Entries are kept raw so that a malformed entry fails on its own.
type IngestBatchRequest struct {
	Data []json.RawMessage `json:"data" swaggertype:"array,object"`
}

// StatementLineItem is a single line of a statement section.
type StatementLineItem struct {
	Name       string          `json:"name"`
	Value      decimal.Decimal `json:"value"`
	AccountRef string          `json:"account_id" validate:"required"`
}

// StatementSection is a named block of line items.
type StatementSection struct {
	Name      string              `json:"name"`
	Value     decimal.Decimal     `json:"value"`
	LineItems []StatementLineItem `json:"line_items" validate:"dive"`
}

// StatementEntry is one period statement of a company as sent by the source.
// Pointer fields distinguish "absent" from "zero".
type StatementEntry struct {
	CompanyRef  *int64           `json:"rootfi_company_id" validate:"required,gt=0"`
	PeriodID    string           `json:"platform_id" validate:"required"`
	PeriodStart string           `json:"period_start" validate:"required"`
	PeriodEnd   string           `json:"period_end" validate:"required"`
	GrossProfit *decimal.Decimal `json:"gross_profit" validate:"required"`
	NetProfit   *decimal.Decimal `json:"net_profit" validate:"required"`

	// Sections maps a section kind (e.g. "revenue") to its blocks.
	Sections map[string][]StatementSection `json:"-" validate:"dive,dive"`
}

type statementHeader struct {
	CompanyRef  *int64           `json:"rootfi_company_id"`
	PeriodID    string           `json:"platform_id"`
	PeriodStart string           `json:"period_start"`
	PeriodEnd   string           `json:"period_end"`
	GrossProfit *decimal.Decimal `json:"gross_profit"`
	NetProfit   *decimal.Decimal `json:"net_profit"`
}

// UnmarshalJSON decodes the header fields and collects every other array-valued
// key as a section. Unknown keys that are not section arrays are ignored.
func (e *StatementEntry) UnmarshalJSON(data []byte) error {
	var header statementHeader
	if err := json.Unmarshal(data, &header); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	sections := make(map[string][]StatementSection)
	for key, raw := range fields {
		if headerFields[key] || string(raw) == "null" {
			continue
		}
		var blocks []StatementSection
		if err := json.Unmarshal(raw, &blocks); err != nil {
			if knownSections[key] {
				return fmt.Errorf("section %s: %w", key, err)
			}
			continue
		}
		sections[key] = blocks
	}

	*e = StatementEntry{
		CompanyRef:  header.CompanyRef,
		PeriodID:    header.PeriodID,
		PeriodStart: header.PeriodStart,
		PeriodEnd:   header.PeriodEnd,
		GrossProfit: header.GrossProfit,
		NetProfit:   header.NetProfit,
		Sections:    sections,
	}
	return nil
}

// IngestBatchResponse is returned by the batch ingestion endpoint.
type IngestBatchResponse struct {
	Success          bool     `json:"success"`
	Message          string   `json:"message"`
	ProcessedReports int      `json:"processed_reports"`
	Errors           []string `json:"errors"`
	Warnings         []string `json:"warnings,omitempty"`
}
