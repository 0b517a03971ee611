package ingestion

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/pnl_insights_app/internal/apperrors"
	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
	"github.com/google/uuid"
)

type accountKey struct {
	companyID string
	ref       string
}

// AccountConflict describes an account whose stored name or category differs
// from what an entry carried.
type AccountConflict struct {
	Account          domain.Account
	IncomingName     string
	IncomingCategory domain.Category
}

func (c AccountConflict) String() string {
	return fmt.Sprintf("account %s (%q, %s) received conflicting name %q / category %s",
		c.Account.ExternalAccountID, c.Account.Name, c.Account.Category, c.IncomingName, c.IncomingCategory)
}

// EntityIndex is the batch-scoped arena of companies and accounts used while
// normalizing. It is seeded with stored entities, resolves references on a
// create-if-absent basis and remembers which entries must be written back.
// All methods are safe for concurrent use.
type EntityIndex struct {
	mu     sync.Mutex
	policy domain.AccountConflictPolicy
	newID  func() string
	now    func() time.Time

	companies map[int64]*domain.Company
	accounts  map[accountKey]*domain.Account
	dirty     map[string]bool // ids of created or modified entities
	created   []accountKey    // accounts created since construction, in order
}

// IndexOption configures an EntityIndex.
type IndexOption func(*EntityIndex)

// WithIndexIDGenerator overrides the id generator used for created companies and accounts.
func WithIndexIDGenerator(newID func() string) IndexOption {
	return func(x *EntityIndex) { x.newID = newID }
}

// WithIndexClock overrides the clock used for audit timestamps.
func WithIndexClock(now func() time.Time) IndexOption {
	return func(x *EntityIndex) { x.now = now }
}

// NewEntityIndex creates an empty index applying policy to account conflicts.
func NewEntityIndex(policy domain.AccountConflictPolicy, options ...IndexOption) *EntityIndex {
	if policy == "" {
		policy = domain.FirstWriteWins
	}
	x := &EntityIndex{
		policy:    policy,
		newID:     uuid.NewString,
		now:       time.Now,
		companies: make(map[int64]*domain.Company),
		accounts:  make(map[accountKey]*domain.Account),
		dirty:     make(map[string]bool),
	}
	for _, option := range options {
		option(x)
	}
	return x
}

// Policy returns the account conflict policy of the index.
func (x *EntityIndex) Policy() domain.AccountConflictPolicy { return x.policy }

// Seed registers stored entities. Seeded entities are not dirty.
func (x *EntityIndex) Seed(companies []domain.Company, accounts []domain.Account) {
	x.mu.Lock()
	defer x.mu.Unlock()
	for i := range companies {
		c := companies[i]
		x.companies[c.ExternalCompanyID] = &c
	}
	for i := range accounts {
		a := accounts[i]
		x.accounts[accountKey{a.CompanyID, a.ExternalAccountID}] = &a
	}
}

// ResolveCompany returns the company with the given external id, creating it if absent.
func (x *EntityIndex) ResolveCompany(externalID int64) domain.Company {
	x.mu.Lock()
	defer x.mu.Unlock()
	if c, ok := x.companies[externalID]; ok {
		return *c
	}
	now := x.now().UTC()
	c := &domain.Company{
		CompanyID:         x.newID(),
		ExternalCompanyID: externalID,
		Name:              domain.DefaultCompanyName(externalID),
		AuditFields:       domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	x.companies[externalID] = c
	x.dirty[c.CompanyID] = true
	return *c
}

// ResolveAccount returns the account of companyID referenced by ref, creating it
// with name and category if absent. When the stored account disagrees on name
// or category the index policy applies: the conflict is returned (first write
// wins), the account is overwritten (last write wins), or a ValidationError is
// returned (reject).
func (x *EntityIndex) ResolveAccount(companyID, ref, name string, category domain.Category) (domain.Account, *AccountConflict, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	key := accountKey{companyID, ref}
	existing, ok := x.accounts[key]
	if !ok {
		now := x.now().UTC()
		a := &domain.Account{
			AccountID:         x.newID(),
			CompanyID:         companyID,
			ExternalAccountID: ref,
			Name:              name,
			Category:          category,
			AuditFields:       domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
		}
		x.accounts[key] = a
		x.dirty[a.AccountID] = true
		x.created = append(x.created, key)
		return *a, nil, nil
	}

	if existing.Name == name && existing.Category == category {
		return *existing, nil, nil
	}

	conflict := &AccountConflict{Account: *existing, IncomingName: name, IncomingCategory: category}
	switch x.policy {
	case domain.LastWriteWins:
		existing.Name = name
		existing.Category = category
		existing.LastUpdatedAt = x.now().UTC()
		x.dirty[existing.AccountID] = true
		return *existing, conflict, nil
	case domain.RejectConflicts:
		return domain.Account{}, conflict, fmt.Errorf("%w: %s", apperrors.ErrValidation, conflict)
	default:
		return *existing, conflict, nil
	}
}

// accountMark returns a position in the creation log for rollbackAccounts.
func (x *EntityIndex) accountMark() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.created)
}

// rollbackAccounts forgets the accounts created after mark, so a rejected
// entry leaves the index as it found it.
func (x *EntityIndex) rollbackAccounts(mark int) {
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, key := range x.created[mark:] {
		if a, ok := x.accounts[key]; ok {
			delete(x.dirty, a.AccountID)
			delete(x.accounts, key)
		}
	}
	x.created = x.created[:mark]
}

// PendingCompanies returns the created companies ordered by external id.
func (x *EntityIndex) PendingCompanies() []domain.Company {
	x.mu.Lock()
	defer x.mu.Unlock()
	var out []domain.Company
	for _, c := range x.companies {
		if x.dirty[c.CompanyID] {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExternalCompanyID < out[j].ExternalCompanyID })
	return out
}

// PendingAccounts returns the created or overwritten accounts whose id is in
// used, ordered by company and external account id.
func (x *EntityIndex) PendingAccounts(used map[string]bool) []domain.Account {
	x.mu.Lock()
	defer x.mu.Unlock()
	var out []domain.Account
	for _, a := range x.accounts {
		if x.dirty[a.AccountID] && used[a.AccountID] {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CompanyID != out[j].CompanyID {
			return out[i].CompanyID < out[j].CompanyID
		}
		return out[i].ExternalAccountID < out[j].ExternalAccountID
	})
	return out
}
