package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

const (
	Food      Category = "Food"
	Transport Category = "Transport"
	Shopping  Category = "Shopping"
	Rent      Category = "Rent"
	Other     Category = "Other"
)

// MaxAssetLength bounds the free-text asset label.
const MaxAssetLength = 100

const dateLayout = "2006-01-02"

type (
	Category string

	Date struct {
		time.Time
	}

	ExpenseEntry struct {
		Date     Date            `json:"date"`
		Category Category        `json:"category"`
		Amount   decimal.Decimal `json:"amount"`
	}

	InvestmentEntry struct {
		Asset    string          `json:"asset"`
		Invested decimal.Decimal `json:"invested_amount"`
		Current  decimal.Decimal `json:"current_value"`
	}
)

// Categories lists the expense categories in display order.
var Categories = []Category{Food, Transport, Shopping, Rent, Other}

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyAsset      = errors.New("empty asset name")
	ErrInvalidAsset    = errors.New("invalid asset name")
)

// IsValidationError reports whether err comes from entry validation.
func IsValidationError(err error) bool {
	for _, target := range []error{ErrInvalidDate, ErrInvalidCategory, ErrInvalidAmount, ErrEmptyAsset, ErrInvalidAsset} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ParseCategory matches s against the known categories, ignoring case.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

func (c Category) Validate() error {
	for _, known := range Categories {
		if c == known {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidCategory, string(c))
}

func (c Category) String() string {
	return string(c)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date in UTC.
func Today() Date {
	y, m, d := time.Now().Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidDate)
	}
	return nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func validateAmount(name string, v decimal.Decimal) error {
	if v.IsNegative() {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidAmount, name)
	}
	if v.GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: %s must not exceed %s", ErrInvalidAmount, name, MaxAmount.StringFixed(0))
	}
	return nil
}

func (e ExpenseEntry) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := e.Category.Validate(); err != nil {
		return err
	}
	return validateAmount("amount", e.Amount)
}

// NormalizeAsset trims an asset label and strips control characters.
func NormalizeAsset(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s))
}

// ProfitLoss is derived on read and never stored.
func (i InvestmentEntry) ProfitLoss() decimal.Decimal {
	return i.Current.Sub(i.Invested)
}

func (i InvestmentEntry) Validate() error {
	if strings.TrimSpace(i.Asset) == "" {
		return ErrEmptyAsset
	}
	if len([]rune(i.Asset)) > MaxAssetLength {
		return fmt.Errorf("%w: too long (max %d characters)", ErrInvalidAsset, MaxAssetLength)
	}
	if err := validateAmount("invested amount", i.Invested); err != nil {
		return err
	}
	return validateAmount("current value", i.Current)
}
