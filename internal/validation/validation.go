// Package validation holds the field rules applied by the mutation services.
// Every check is pure and reports its outcome as a Result.
package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type Reason string

const (
	ReasonInvalidFormat Reason = "invalid_format"
	ReasonNonPositive   Reason = "non_positive"
	ReasonNegative      Reason = "negative"
	ReasonRequired      Reason = "required"
	ReasonTooLong       Reason = "too_long"
)

const (
	MsgInvalidEmail  = "Invalid email format."
	MsgInvalidPhone  = "Invalid phone format. Expected +1234567890 or 123-456-7890."
	MsgPriceNotPos   = "Price must be a positive value."
	MsgStockNegative = "Stock cannot be negative."
	MsgNameRequired  = "Name is required."
)

var (
	internationalPhone = regexp.MustCompile(`^\+\d{10,15}$`)
	localPhone         = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)
)

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

type Violation struct {
	Field   string
	Reason  Reason
	Message string
}

type Result struct {
	OK        bool
	Violation *Violation
}

func ok() Result {
	return Result{OK: true}
}

func fail(field string, reason Reason, message string) Result {
	return Result{Violation: &Violation{Field: field, Reason: reason, Message: message}}
}

// Message is empty for a passing Result.
func (r Result) Message() string {
	if r.Violation == nil {
		return ""
	}
	return r.Violation.Message
}

func Email(value string) Result {
	if err := validate.Var(value, "required,email"); err != nil {
		return fail("email", ReasonInvalidFormat, MsgInvalidEmail)
	}
	return ok()
}

// Phone accepts nil, "+" followed by 10 to 15 digits, or NNN-NNN-NNNN.
func Phone(value *string) Result {
	if value == nil {
		return ok()
	}
	if internationalPhone.MatchString(*value) || localPhone.MatchString(*value) {
		return ok()
	}
	return fail("phone", ReasonInvalidFormat, MsgInvalidPhone)
}

func Price(value decimal.Decimal) Result {
	if !value.IsPositive() {
		return fail("price", ReasonNonPositive, MsgPriceNotPos)
	}
	return ok()
}

func Stock(value int) Result {
	if value < 0 {
		return fail("stock", ReasonNegative, MsgStockNegative)
	}
	return ok()
}

func Name(value string) Result {
	if strings.TrimSpace(value) == "" {
		return fail("name", ReasonRequired, MsgNameRequired)
	}
	return ok()
}

// Messages collects the messages of failed results in order.
func Messages(results ...Result) []string {
	out := []string{}
	for _, r := range results {
		if !r.OK && r.Violation != nil {
			out = append(out, r.Violation.Message)
		}
	}
	return out
}
