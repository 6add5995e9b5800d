package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/tablegate/internal/entity/domain"
	apperrors "github.com/allisson/tablegate/internal/errors"
)

func TestParse_Eval(t *testing.T) {
	record := domain.Record{
		domain.PartitionKeyField: "pkey",
		domain.RowKeyField:       "v1",
		"color":                  "blue",
		"size":                   "10",
		"name":                   "o'brien",
	}

	tests := []struct {
		name   string
		filter string
		want   bool
	}{
		{name: "row key equality", filter: "RowKey eq 'v1'", want: true},
		{name: "row key mismatch", filter: "RowKey eq 'v2'", want: false},
		{name: "not equal", filter: "color ne 'red'", want: true},
		{name: "and both true", filter: "PartitionKey eq 'pkey' and color eq 'blue'", want: true},
		{name: "and one false", filter: "PartitionKey eq 'pkey' and color eq 'red'", want: false},
		{name: "or one true", filter: "color eq 'red' or color eq 'blue'", want: true},
		{name: "or both false", filter: "color eq 'red' or color eq 'green'", want: false},
		{name: "and binds tighter than or", filter: "color eq 'red' and size eq '10' or RowKey eq 'v1'", want: true},
		{name: "parens override precedence", filter: "color eq 'red' and (size eq '10' or RowKey eq 'v1')", want: false},
		{name: "numeric greater than", filter: "size gt 9", want: true},
		{name: "numeric less than", filter: "size lt 9", want: false},
		{name: "numeric ge boundary", filter: "size ge 10", want: true},
		{name: "numeric le boundary", filter: "size le 10", want: true},
		{name: "lexicographic compare when not numeric", filter: "color gt 'azure'", want: true},
		{name: "string compare of numeric-looking field against string", filter: "size eq '10'", want: true},
		{name: "missing field never matches", filter: "weight eq '5'", want: false},
		{name: "missing field not matched by ne", filter: "weight ne '5'", want: false},
		{name: "escaped quote in literal", filter: "name eq 'o''brien'", want: true},
		{name: "empty filter matches all", filter: "", want: true},
		{name: "whitespace only matches all", filter: "   ", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := Parse(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, expr.Eval(record))
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		filter string
	}{
		{name: "missing operator", filter: "color 'blue'"},
		{name: "unknown operator", filter: "color like 'blue'"},
		{name: "missing literal", filter: "color eq"},
		{name: "unterminated string", filter: "color eq 'blue"},
		{name: "unbalanced parens", filter: "(color eq 'blue'"},
		{name: "trailing garbage", filter: "color eq 'blue' extra"},
		{name: "dangling and", filter: "color eq 'blue' and"},
		{name: "bare field", filter: "color"},
		{name: "unexpected character", filter: "color eq @blue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := Parse(tt.filter)
			assert.Nil(t, expr)
			assert.ErrorIs(t, err, domain.ErrInvalidFilter)
			assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		})
	}
}

func TestParse_NumberLiterals(t *testing.T) {
	record := domain.Record{"count": "-3.5"}

	expr, err := Parse("count lt -1")
	require.NoError(t, err)
	assert.True(t, expr.Eval(record))

	expr, err = Parse("count gt -10.25")
	require.NoError(t, err)
	assert.True(t, expr.Eval(record))
}
