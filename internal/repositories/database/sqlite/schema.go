package sqlite

// Schema mirrors the PostgreSQL migrations. Amounts are stored as decimal
// strings and timestamps as fixed-width UTC text so that they sort correctly.
const Schema = `
CREATE TABLE IF NOT EXISTS companies (
    company_id          TEXT PRIMARY KEY,
    external_company_id INTEGER NOT NULL UNIQUE,
    name                TEXT NOT NULL,
    created_at          TEXT NOT NULL,
    last_updated_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS accounts (
    account_id          TEXT PRIMARY KEY,
    company_id          TEXT NOT NULL REFERENCES companies(company_id),
    external_account_id TEXT NOT NULL,
    name                TEXT NOT NULL,
    category            TEXT NOT NULL,
    created_at          TEXT NOT NULL,
    last_updated_at     TEXT NOT NULL,
    UNIQUE(company_id, external_account_id)
);

CREATE TABLE IF NOT EXISTS reports (
    report_id          TEXT PRIMARY KEY,
    company_id         TEXT NOT NULL REFERENCES companies(company_id),
    external_report_id TEXT NOT NULL,
    period_start       TEXT NOT NULL,   -- YYYY-MM-DDTHH:MM:SS.nnnnnnnnnZ
    period_end         TEXT NOT NULL,
    gross_profit       TEXT NOT NULL,   -- decimal string
    net_profit         TEXT NOT NULL,
    created_at         TEXT NOT NULL,
    last_updated_at    TEXT NOT NULL,
    UNIQUE(company_id, external_report_id)
);

CREATE INDEX IF NOT EXISTS idx_reports_company_period
    ON reports(company_id, period_start);

CREATE TABLE IF NOT EXISTS line_items (
    line_item_id TEXT PRIMARY KEY,
    report_id    TEXT NOT NULL REFERENCES reports(report_id) ON DELETE CASCADE,
    account_id   TEXT NOT NULL REFERENCES accounts(account_id),
    name         TEXT NOT NULL,
    value        TEXT NOT NULL,
    position     INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_line_items_report
    ON line_items(report_id, position);
`

// InitializeSchema creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.db.Exec(Schema); err != nil {
		return err
	}
	return nil
}
