package validate

import (
	"strings"
	"testing"

	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "test@example.com", want: true},
		{input: "user+tag@example.com", want: true},
		{input: "a@b.co", want: true},
		{input: "@example.com", want: false},
		{input: "test@", want: false},
		{input: "test@example", want: false},
		{input: "has space@example.com", want: false},
		{input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Email(tt.input))
		})
	}
}

func TestPassword(t *testing.T) {
	assert.False(t, Password(""))
	assert.False(t, Password("1234567"))
	assert.True(t, Password("12345678"))
	assert.True(t, Password("a much longer passphrase"))
}

func TestScalarValidators(t *testing.T) {
	assert.True(t, Amount(decimal.RequireFromString("0.01")))
	assert.False(t, Amount(decimal.Zero))
	assert.False(t, Amount(decimal.RequireFromString("-5")))

	assert.True(t, Required(" x "))
	assert.False(t, Required("   "))

	assert.True(t, MinLength("abc", 3))
	assert.False(t, MinLength("ab", 3))
	assert.True(t, MaxLength("ação", 4))
	assert.False(t, MaxLength("abcde", 4))

	assert.True(t, HexColor("#4CAF50"))
	assert.True(t, HexColor("#fff"))
	assert.False(t, HexColor("4CAF50"))
	assert.False(t, HexColor("#4CAF5"))
}

func validTransaction() model.TransactionRequest {
	return model.TransactionRequest{
		Description: "Groceries",
		Amount:      decimal.RequireFromString("42.10"),
		Type:        model.TransactionTypeExpense,
		CategoryID:  1,
		Date:        model.MustParseDate("2024-01-15"),
	}
}

func TestStruct_TransactionRequest(t *testing.T) {
	require.NoError(t, Struct(validTransaction()))

	req := validTransaction()
	req.Description = "   "
	req.Amount = decimal.Zero
	req.Type = "TRANSFER"
	req.CategoryID = 0
	req.Date = model.Date{}
	req.Notes = strings.Repeat("n", 501)

	err := Struct(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "is required", verrs.Field("description"))
	assert.Equal(t, "must be greater than zero", verrs.Field("amount"))
	assert.Equal(t, "must be one of INCOME, EXPENSE", verrs.Field("type"))
	assert.Equal(t, "must be greater than 0", verrs.Field("categoryId"))
	assert.Equal(t, "is required", verrs.Field("date"))
	assert.Equal(t, "must be at most 500 characters", verrs.Field("notes"))
}

func TestStruct_NegativeAmount(t *testing.T) {
	req := validTransaction()
	req.Amount = decimal.RequireFromString("-10")

	var verrs ValidationErrors
	require.ErrorAs(t, Struct(req), &verrs)
	assert.Len(t, verrs, 1)
	assert.NotEmpty(t, verrs.Field("amount"))
}

func TestStruct_RegisterRequest(t *testing.T) {
	valid := model.RegisterRequest{
		Name:            "Ana",
		Email:           "ana@example.com",
		Password:        "12345678",
		ConfirmPassword: "12345678",
	}
	require.NoError(t, Struct(valid))

	tests := []struct {
		mutate func(*model.RegisterRequest)
		name   string
		field  string
	}{
		{name: "short password", field: "password", mutate: func(r *model.RegisterRequest) {
			r.Password, r.ConfirmPassword = "1234567", "1234567"
		}},
		{name: "mismatched confirmation", field: "confirmPassword", mutate: func(r *model.RegisterRequest) {
			r.ConfirmPassword = "87654321"
		}},
		{name: "bad email", field: "email", mutate: func(r *model.RegisterRequest) { r.Email = "test@" }},
		{name: "blank name", field: "name", mutate: func(r *model.RegisterRequest) { r.Name = " " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			var verrs ValidationErrors
			require.ErrorAs(t, Struct(req), &verrs)
			assert.NotEmpty(t, verrs.Field(tt.field), verrs.Error())
		})
	}
}

func TestStruct_LoginRequest(t *testing.T) {
	assert.NoError(t, Struct(model.LoginRequest{Email: "a@b.co", Password: "x"}))

	var verrs ValidationErrors
	require.ErrorAs(t, Struct(model.LoginRequest{Email: "@example.com"}), &verrs)
	assert.Equal(t, "must be a valid email address", verrs.Field("email"))
	assert.Equal(t, "is required", verrs.Field("password"))
}

func TestStruct_BudgetRequest(t *testing.T) {
	end := model.MustParseDate("2024-01-31")
	req := model.BudgetRequest{
		CategoryID: 2,
		Amount:     decimal.NewFromInt(1000),
		Period:     model.PeriodMonthly,
		StartDate:  model.MustParseDate("2024-01-01"),
		EndDate:    &end,
	}
	require.NoError(t, Struct(req))

	before := model.MustParseDate("2023-12-31")
	req.EndDate = &before
	var verrs ValidationErrors
	require.ErrorAs(t, Struct(req), &verrs)
	assert.Equal(t, "must not be before startDate", verrs.Field("endDate"))

	req.EndDate = nil
	req.Period = "DAILY"
	require.ErrorAs(t, Struct(req), &verrs)
	assert.NotEmpty(t, verrs.Field("period"))
}

func TestStruct_CategoryRequest(t *testing.T) {
	assert.NoError(t, Struct(model.CategoryRequest{Name: "Food", Type: model.TransactionTypeExpense}))
	assert.NoError(t, Struct(model.CategoryRequest{Name: "Food", Type: model.TransactionTypeExpense, Color: "#FF5722"}))

	var verrs ValidationErrors
	require.ErrorAs(t, Struct(model.CategoryRequest{Name: "Food", Type: model.TransactionTypeIncome, Color: "red"}), &verrs)
	assert.Equal(t, "must be a hex color such as #4CAF50", verrs.Field("color"))
}

func TestStruct_ProfileUpdate(t *testing.T) {
	assert.NoError(t, Struct(model.ProfileUpdate{}))

	bad := "nope"
	var verrs ValidationErrors
	require.ErrorAs(t, Struct(model.ProfileUpdate{Email: &bad}), &verrs)
	assert.NotEmpty(t, verrs.Field("email"))
}

func TestStruct_NotAStruct(t *testing.T) {
	assert.ErrorIs(t, Struct(42), common.ErrInvalidInput)
}
