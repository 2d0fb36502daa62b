package ledger

import (
	"sync/atomic"
	"time"

	"github.com/coffeecommand/backend/internal/domain/shared"
)

// BusinessDateLayout is the canonical wire and storage form of a business date
const BusinessDateLayout = "2006-01-02"

// DefaultTimezone is the business calendar timezone (IST) used when no zone
// has been configured. All branch days open and close on one clock regardless
// of where the server runs.
const DefaultTimezone = "Asia/Kolkata"

var businessLocation atomic.Pointer[time.Location]

// BusinessDate is a calendar day on the business clock. It deliberately
// carries no time-of-day or zone - two servers in different zones must agree
// on which day a sale belongs to.
type BusinessDate string

// NewBusinessDate derives the business date of an instant in the given zone
func NewBusinessDate(t time.Time, loc *time.Location) BusinessDate {
	return BusinessDate(t.In(loc).Format(BusinessDateLayout))
}

// ParseBusinessDate validates and returns a BusinessDate from its string form
func ParseBusinessDate(s string) (BusinessDate, error) {
	if _, err := time.Parse(BusinessDateLayout, s); err != nil {
		return "", shared.NewDomainError("INVALID_DATE", "Date must be in YYYY-MM-DD format")
	}
	return BusinessDate(s), nil
}

// Next returns the following calendar day
func (d BusinessDate) Next() BusinessDate {
	t, err := time.Parse(BusinessDateLayout, string(d))
	if err != nil {
		return d
	}
	return BusinessDate(t.AddDate(0, 0, 1).Format(BusinessDateLayout))
}

// Before reports whether d is earlier than other
func (d BusinessDate) Before(other BusinessDate) bool {
	return string(d) < string(other)
}

// String returns the YYYY-MM-DD form
func (d BusinessDate) String() string {
	return string(d)
}

// SetBusinessLocation pins the business calendar timezone for the process.
// Called once at startup with the configured zone so every day computation,
// including the end-of-day sweep, runs on the same clock.
func SetBusinessLocation(loc *time.Location) {
	businessLocation.Store(loc)
}

// BusinessLocation returns the business calendar timezone
func BusinessLocation() *time.Location {
	if loc := businessLocation.Load(); loc != nil {
		return loc
	}
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	businessLocation.Store(loc)
	return loc
}

// Today returns the current business date
func Today() BusinessDate {
	return NewBusinessDate(time.Now(), BusinessLocation())
}
