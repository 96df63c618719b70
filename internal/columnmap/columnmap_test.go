package columnmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a1e5ya/smart-finance-planner/internal/importerror"
	"github.com/a1e5ya/smart-finance-planner/internal/logging"
)

func TestBuildExactMatches(t *testing.T) {
	headers := []string{"Date", "Amount", "Merchant", "Memo", "Currency"}

	cm, err := Build(headers, logging.NewMockLogger())
	require.NoError(t, err)

	assert.Equal(t, "Date", cm.Header(FieldDate))
	assert.Equal(t, "Amount", cm.Header(FieldAmount))
	assert.Equal(t, "Merchant", cm.Header(FieldMerchant))
	assert.Equal(t, "Memo", cm.Header(FieldMemo))
	assert.Equal(t, "Currency", cm.Header(FieldCurrency))
}

func TestBuildAliasAndCaseVariants(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		field   string
		header  string
	}{
		{"Posting date alias", []string{"Posting Date", "Amount"}, FieldDate, "Posting Date"},
		{"Underscored header", []string{"transaction_date", "amount"}, FieldDate, "transaction_date"},
		{"Description maps to merchant", []string{"Date", "Amount", "Description"}, FieldMerchant, "Description"},
		{"Payee maps to merchant", []string{"Date", "Amount", "Payee"}, FieldMerchant, "Payee"},
		{"Substring match", []string{"Booking Date (UTC)", "Amount"}, FieldDate, "Booking Date (UTC)"},
		{"German amount", []string{"Datum", "Betrag"}, FieldAmount, "Betrag"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cm, err := Build(tc.headers, logging.NewMockLogger())
			require.NoError(t, err)
			assert.Equal(t, tc.header, cm.Header(tc.field))
		})
	}
}

func TestBuildMissingRequiredColumn(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		missing string
	}{
		{"No date column", []string{"Amount", "Merchant"}, FieldDate},
		{"No amount column", []string{"Date", "Merchant"}, FieldAmount},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(tc.headers, logging.NewMockLogger())
			require.Error(t, err)

			var mapErr *importerror.ColumnMappingError
			require.ErrorAs(t, err, &mapErr)
			assert.Equal(t, tc.missing, mapErr.Field)
		})
	}
}

func TestBuildDeterministic(t *testing.T) {
	headers := []string{"Date", "Amount", "Description", "Notes", "Category"}

	first, err := Build(headers, logging.NewMockLogger())
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := Build(headers, logging.NewMockLogger())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestBuildHeaderClaimedOnce(t *testing.T) {
	// "Description" must not serve both merchant and memo.
	cm, err := Build([]string{"Date", "Amount", "Description"}, logging.NewMockLogger())
	require.NoError(t, err)

	assert.Equal(t, "Description", cm.Header(FieldMerchant))
	assert.False(t, cm.Has(FieldMemo))
}

func TestBuildOptionalPassthroughs(t *testing.T) {
	headers := []string{"Date", "Amount", "Category", "Subcategory", "Account", "Owner", "MCC"}

	cm, err := Build(headers, logging.NewMockLogger())
	require.NoError(t, err)

	assert.Equal(t, "Category", cm.Header(FieldCategory))
	assert.Equal(t, "Subcategory", cm.Header(FieldSubcategory))
	assert.Equal(t, "Account", cm.Header(FieldAccount))
	assert.Equal(t, "Owner", cm.Header(FieldOwner))
	assert.Equal(t, "MCC", cm.Header(FieldMCC))
}
