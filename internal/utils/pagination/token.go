package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// DefaultLimit and MaxLimit bound the page size of list endpoints.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Cursor is the position after the last item of a page of reports.
// Reports are listed by period start then report id, both descending.
type Cursor struct {
	PeriodStart time.Time
	ReportID    string
}

// EncodeToken creates a base64 encoded token from a report's period start and id.
func EncodeToken(periodStart time.Time, reportID string) string {
	tokenStr := fmt.Sprintf("%s|%s", periodStart.UTC().Format(timeFormat), reportID)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses the base64 encoded token back into a Cursor.
func DecodeToken(token string) (Cursor, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	periodStart, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (period start parse): %w", err)
	}
	return Cursor{PeriodStart: periodStart, ReportID: parts[1]}, nil
}

// NormalizeLimit clamps a requested page size into [1, MaxLimit], using DefaultLimit for non-positive values.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// NextToken returns the token following a page, or nil when the page was not full.
// fetched holds up to limit+1 items; the extra item only signals that more exist.
func NextToken[T any](fetched []T, limit int, cursorOf func(T) (time.Time, string)) ([]T, *string) {
	if len(fetched) <= limit {
		return fetched, nil
	}
	page := fetched[:limit]
	start, id := cursorOf(page[len(page)-1])
	token := EncodeToken(start, id)
	return page, &token
}
