package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/SscSPs/pnl_insights_app/internal/apperrors"
	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
	"github.com/SscSPs/pnl_insights_app/internal/dto"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

// periodLayouts are the accepted date formats for period_start and period_end.
// A timestamp keeps the calendar date written in its own offset and drops the
// time of day, so 2024-02-01T00:00:00+05:00 is 1 February.
var periodLayouts = []string{"2006-01-02", time.RFC3339}

// NormalizedEntry is a successfully normalized batch entry.
type NormalizedEntry struct {
	Index     int
	Company   domain.Company
	Report    domain.Report
	LineItems []domain.LineItem
}

// BatchResult is the outcome of normalizing a batch.
type BatchResult struct {
	Total     int
	Entries   []NormalizedEntry           // in input order
	Companies []domain.Company            // companies to create
	Accounts  []domain.Account            // accounts to create or update
	Errors    []*apperrors.ValidationError // in input order
	Warnings  []string
}

// line is a flattened statement line waiting for account resolution.
type line struct {
	category domain.Category
	name     string
	value    decimal.Decimal
	ref      string
}

// parsedEntry is the result of the parallel phase for one entry.
type parsedEntry struct {
	index       int
	entry       *dto.StatementEntry
	periodStart time.Time
	periodEnd   time.Time
	lines       []line
	err         *apperrors.ValidationError
}

// ParsedBatch holds the decoded and validated entries of a batch before the
// company and account references are resolved.
type ParsedBatch struct {
	entries []parsedEntry
}

// CompanyRefs returns the distinct external company ids of the valid entries, in input order.
func (p *ParsedBatch) CompanyRefs() []int64 {
	seen := make(map[int64]bool)
	var refs []int64
	for _, e := range p.entries {
		if e.err != nil {
			continue
		}
		ref := *e.entry.CompanyRef
		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	return refs
}

// Len returns the number of entries in the batch.
func (p *ParsedBatch) Len() int { return len(p.entries) }

// Normalizer turns raw statement entries into Company/Account/Report/LineItem records.
// Parsing and validation run concurrently, reference resolution runs as a
// single-writer merge phase in input order so results do not depend on scheduling.
type Normalizer struct {
	validate *validator.Validate
	workers  int
	newID    func() string
	now      func() time.Time
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithWorkers sets the number of entries parsed concurrently.
func WithWorkers(n int) NormalizerOption {
	return func(nz *Normalizer) {
		if n > 0 {
			nz.workers = n
		}
	}
}

// WithIDGenerator overrides the id generator used for reports and line items.
func WithIDGenerator(newID func() string) NormalizerOption {
	return func(nz *Normalizer) { nz.newID = newID }
}

// WithClock overrides the clock used for audit timestamps.
func WithClock(now func() time.Time) NormalizerOption {
	return func(nz *Normalizer) { nz.now = now }
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(options ...NormalizerOption) *Normalizer {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return strings.ToLower(fld.Name)
		}
		return name
	})

	nz := &Normalizer{
		validate: v,
		workers:  defaultWorkers,
		newID:    uuid.NewString,
		now:      time.Now,
	}
	for _, option := range options {
		option(nz)
	}
	return nz
}

// ParseBatch reads the batch envelope. Any structural problem is a ParseError
// and aborts the whole batch; entry contents are not inspected here.
func ParseBatch(payload []byte) ([]json.RawMessage, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, &apperrors.ParseError{Reason: "body is not a JSON object", Err: err}
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil, &apperrors.ParseError{Reason: "missing data array"}
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(envelope.Data, &entries); err != nil {
		return nil, &apperrors.ParseError{Reason: "data must be an array", Err: err}
	}
	return entries, nil
}

// Parse decodes and validates every entry concurrently. Only a cancelled
// context makes it fail, entry problems are kept per entry.
func (n *Normalizer) Parse(ctx context.Context, raws []json.RawMessage) (*ParsedBatch, error) {
	parsed := make([]parsedEntry, len(raws))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(n.workers)
	for i, raw := range raws {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			parsed[i] = n.parseEntry(i, raw)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parsing batch: %w", err)
	}
	return &ParsedBatch{entries: parsed}, nil
}

func (n *Normalizer) parseEntry(index int, raw json.RawMessage) parsedEntry {
	out := parsedEntry{index: index}
	fail := func(field, reason string) parsedEntry {
		out.err = &apperrors.ValidationError{EntryIndex: index, Field: field, Reason: reason}
		return out
	}

	var entry dto.StatementEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return fail("", "cannot be decoded: "+err.Error())
	}
	out.entry = &entry

	if err := n.validate.Struct(&entry); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fail(fieldPath(verrs[0]), describeTag(verrs[0]))
		}
		return fail("", err.Error())
	}

	var err error
	if out.periodStart, err = parsePeriodDate(entry.PeriodStart); err != nil {
		return fail("period_start", err.Error())
	}
	if out.periodEnd, err = parsePeriodDate(entry.PeriodEnd); err != nil {
		return fail("period_end", err.Error())
	}
	if out.periodStart.After(out.periodEnd) {
		return fail("period_start", fmt.Sprintf("%s is after period_end %s",
			out.periodStart.Format(periodLayouts[0]), out.periodEnd.Format(periodLayouts[0])))
	}

	if _, ok := entry.Sections[dto.SectionRevenue]; !ok {
		return fail(dto.SectionRevenue, "is required")
	}

	for _, kind := range orderedSectionKinds(entry.Sections) {
		category := CategoryForSection(kind)
		for _, section := range entry.Sections[kind] {
			for _, li := range section.LineItems {
				out.lines = append(out.lines, line{
					category: category,
					name:     strings.TrimSpace(li.Name),
					value:    li.Value,
					ref:      strings.TrimSpace(li.AccountRef),
				})
			}
		}
	}
	return out
}

// Merge resolves companies and accounts through index in input order and
// builds the normalized records. Entries rejected by the account conflict
// policy are reported as errors.
func (n *Normalizer) Merge(batch *ParsedBatch, index *EntityIndex) *BatchResult {
	result := &BatchResult{Total: len(batch.entries)}
	used := make(map[string]bool)

	for _, p := range batch.entries {
		if p.err != nil {
			result.Errors = append(result.Errors, p.err)
			continue
		}

		company := index.ResolveCompany(*p.entry.CompanyRef)
		now := n.now().UTC()
		report := domain.Report{
			ReportID:         n.newID(),
			CompanyID:        company.CompanyID,
			ExternalReportID: p.entry.PeriodID,
			PeriodStart:      p.periodStart,
			PeriodEnd:        p.periodEnd,
			GrossProfit:      *p.entry.GrossProfit,
			NetProfit:        *p.entry.NetProfit,
			AuditFields:      domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
		}

		var (
			items    []domain.LineItem
			warnings []string
			rejected error
		)
		mark := index.accountMark()
		for pos, l := range p.lines {
			account, conflict, err := index.ResolveAccount(company.CompanyID, l.ref, l.name, l.category)
			if err != nil {
				rejected = err
				break
			}
			if conflict != nil {
				warnings = append(warnings, fmt.Sprintf("entry %d: %s (%s)", p.index+1, conflict, index.Policy()))
			}
			items = append(items, domain.LineItem{
				LineItemID: n.newID(),
				ReportID:   report.ReportID,
				AccountID:  account.AccountID,
				Name:       l.name,
				Value:      l.value,
				Position:   pos,
				Account: domain.AccountSummary{
					ExternalAccountID: account.ExternalAccountID,
					Name:              account.Name,
					Category:          account.Category,
				},
			})
		}
		if rejected != nil {
			index.rollbackAccounts(mark)
			result.Errors = append(result.Errors, &apperrors.ValidationError{
				EntryIndex: p.index,
				Field:      "line_items",
				Reason:     strings.TrimPrefix(rejected.Error(), apperrors.ErrValidation.Error()+": "),
			})
			continue
		}

		for _, item := range items {
			used[item.AccountID] = true
		}
		result.Warnings = append(result.Warnings, warnings...)
		result.Entries = append(result.Entries, NormalizedEntry{
			Index:     p.index,
			Company:   company,
			Report:    report,
			LineItems: items,
		})
	}

	result.Companies = pendingCompaniesFor(index, result.Entries)
	result.Accounts = index.PendingAccounts(used)
	return result
}

// Normalize runs Parse and Merge against index.
func (n *Normalizer) Normalize(ctx context.Context, raws []json.RawMessage, index *EntityIndex) (*BatchResult, error) {
	parsed, err := n.Parse(ctx, raws)
	if err != nil {
		return nil, err
	}
	return n.Merge(parsed, index), nil
}

// pendingCompaniesFor keeps the created companies referenced by a successful entry.
func pendingCompaniesFor(index *EntityIndex, entries []NormalizedEntry) []domain.Company {
	used := make(map[string]bool, len(entries))
	for _, e := range entries {
		used[e.Company.CompanyID] = true
	}
	var out []domain.Company
	for _, c := range index.PendingCompanies() {
		if used[c.CompanyID] {
			out = append(out, c)
		}
	}
	return out
}

func parsePeriodDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range periodLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not a valid date (expected YYYY-MM-DD)", s)
}

// fieldPath strips the struct name from a validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return ns
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
