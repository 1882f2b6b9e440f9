package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Revenue Kind = "revenue"
	Expense Kind = "expense"
)

const (
	Monthly RepetitionType = "monthly"
	Yearly  RepetitionType = "yearly"
	Weekly  RepetitionType = "weekly"
	Daily   RepetitionType = "daily"
)

type (
	// Kind distinguishes money coming in from money going out. The sign of an
	// entry is carried here, never by the amount.
	Kind string

	RepetitionType string

	Date struct {
		time.Time
	}

	// LedgerEntry is a single dated, categorized revenue or expense record.
	// Entries are immutable inputs to the calculation engine; nothing in this
	// module mutates them after creation.
	LedgerEntry struct {
		ID              string
		Kind            Kind
		Date            Date
		Amount          decimal.Decimal // always > 0, sign carried by Kind
		Category        string
		CounterpartyRef string // optional customer/supplier reference
		Notes           string
	}

	// RecurrentEntry is a template that the recurring worker expands into
	// concrete ledger entries on its schedule.
	RecurrentEntry struct {
		ID        int64 // database ID for operations
		Kind      Kind
		StartDate Date
		EndDate   Date
		Every     RepetitionType
		Amount    decimal.Decimal
		Category  string
		Notes     string
	}
)

var (
	ErrInvalidKind   = errors.New("invalid entry kind")
	ErrInvalidDay    = errors.New("invalid day")
	ErrInvalidMonth  = errors.New("invalid month")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyCategory = errors.New("empty category")
	ErrEntryNotFound = errors.New("ledger entry not found")
)

func (k Kind) Validate() error {
	switch k {
	case Revenue, Expense:
		return nil
	default:
		return ErrInvalidKind
	}
}

// String implements fmt.Stringer
func (k Kind) String() string {
	return string(k)
}

// NewDate creates a new Date from year, month, day. Dates are day-granular;
// the time-of-day component is always midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// OnOrAfter reports whether d falls on or after other (day granularity).
func (d Date) OnOrAfter(other Date) bool {
	return !d.Time.Before(other.Time)
}

// OnOrBefore reports whether d falls on or before other (day granularity).
func (d Date) OnOrBefore(other Date) bool {
	return !d.Time.After(other.Time)
}

// MarshalJSON renders the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(d.Format("2006-01-02"))
}

// UnmarshalJSON accepts "YYYY-MM-DD"; an empty string is the zero date.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	*d = Date{Time: t}
	return nil
}

func (e LedgerEntry) Validate() error {
	if err := e.Kind.Validate(); err != nil {
		return err
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if len(e.Notes) > 500 {
		return errors.New("notes too long (max 500 characters)")
	}
	return nil
}

func (re RecurrentEntry) Validate() error {
	if err := re.Kind.Validate(); err != nil {
		return err
	}
	if err := re.StartDate.Validate(); err != nil {
		return errors.New("invalid start date: " + err.Error())
	}
	if !re.EndDate.IsZero() {
		if err := re.EndDate.Validate(); err != nil {
			return errors.New("invalid end date: " + err.Error())
		}
		if re.EndDate.Before(re.StartDate.Time) {
			return errors.New("end date must be after start date")
		}
	}
	switch re.Every {
	case Daily, Weekly, Monthly, Yearly:
	default:
		return errors.New("invalid repetition type")
	}
	if re.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(re.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}
