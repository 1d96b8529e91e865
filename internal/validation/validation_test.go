package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func strPtr(v string) *string { return &v }

func TestEmail(t *testing.T) {
	for _, valid := range []string{"alice@example.com", "bob.smith+crm@mail.example.org"} {
		assert.True(t, Email(valid).OK, valid)
	}
	for _, invalid := range []string{"", "not-an-email", "a@", "@example.com", "a b@example.com"} {
		res := Email(invalid)
		assert.False(t, res.OK, invalid)
		assert.Equal(t, ReasonInvalidFormat, res.Violation.Reason)
		assert.Equal(t, "Invalid email format.", res.Message())
	}
}

func TestPhone(t *testing.T) {
	assert.True(t, Phone(nil).OK)
	for _, valid := range []string{"+1234567890", "+123456789012345", "123-456-7890"} {
		assert.True(t, Phone(strPtr(valid)).OK, valid)
	}
	for _, invalid := range []string{"", "12345", "+123456789", "+1234567890123456", "1234567890", "123-4567-890", "(123) 456-7890"} {
		res := Phone(strPtr(invalid))
		assert.False(t, res.OK, invalid)
		assert.Equal(t, "Invalid phone format. Expected +1234567890 or 123-456-7890.", res.Message())
	}
}

func TestPrice(t *testing.T) {
	assert.True(t, Price(decimal.RequireFromString("0.01")).OK)
	assert.True(t, Price(decimal.RequireFromString("1200.00")).OK)

	for _, v := range []string{"0", "0.00", "-0.01", "-5"} {
		res := Price(decimal.RequireFromString(v))
		assert.False(t, res.OK, v)
		assert.Equal(t, ReasonNonPositive, res.Violation.Reason)
		assert.Equal(t, "Price must be a positive value.", res.Message())
	}
}

func TestStock(t *testing.T) {
	assert.True(t, Stock(0).OK)
	assert.True(t, Stock(25).OK)

	res := Stock(-1)
	assert.False(t, res.OK)
	assert.Equal(t, ReasonNegative, res.Violation.Reason)
	assert.Equal(t, "Stock cannot be negative.", res.Message())
}

func TestName(t *testing.T) {
	assert.True(t, Name("Alice").OK)
	assert.False(t, Name("   ").OK)
	assert.Equal(t, "Name is required.", Name("").Message())
}

func TestMessagesKeepsOrder(t *testing.T) {
	msgs := Messages(
		Price(decimal.Zero),
		Stock(3),
		Stock(-2),
	)
	assert.Equal(t, []string{"Price must be a positive value.", "Stock cannot be negative."}, msgs)
	assert.Empty(t, Messages(Stock(1)))
}

type sampleInput struct {
	Name  string  `validate:"max=5"`
	Phone *string `validate:"omitempty,max=3"`
}

func TestStruct(t *testing.T) {
	assert.Empty(t, Struct(sampleInput{Name: "abc"}))

	violations := Struct(sampleInput{Name: "abcdefgh", Phone: strPtr("12345")})
	if assert.Len(t, violations, 2) {
		assert.Equal(t, "name", violations[0].Field)
		assert.Equal(t, ReasonTooLong, violations[0].Reason)
		assert.Equal(t, "Name must be at most 5 characters.", violations[0].Message)
		assert.Equal(t, "Phone must be at most 3 characters.", violations[1].Message)
	}
	assert.Equal(t, []string{"Name must be at most 5 characters."}, StructMessages(sampleInput{Name: "toolong"}))
}
