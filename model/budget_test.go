package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBudget_Fits(t *testing.T) {
	testCases := []struct {
		description string
		budget      *Budget
		amount      float64
		fits        bool
		remaining   float64
	}{
		{description: "exact fit", budget: &Budget{Total: 1000.30, Spent: 1000.10}, amount: 0.20, fits: true, remaining: 0.20},
		{description: "one cent over", budget: &Budget{Total: 1000.30, Spent: 1000.10}, amount: 0.21, remaining: 0.20},
		{description: "fully spent", budget: &Budget{Total: 500, Spent: 500}, amount: 0.01},
		{description: "overspent", budget: &Budget{Total: 500, Spent: 600}, amount: 1, remaining: -100},
		{description: "plenty left", budget: &Budget{Total: 500, Spent: 100}, amount: 400, fits: true, remaining: 400},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.fits, testCase.budget.Fits(testCase.amount), testCase.description)
		assert.Equal(t, testCase.remaining, testCase.budget.Remaining(), testCase.description)
	}
}

func TestVendor_IsPreApproved(t *testing.T) {
	testCases := []struct {
		description string
		vendor      *Vendor
		expect      bool
	}{
		{description: "missing vendor"},
		{description: "active pre-approved", vendor: &Vendor{Active: true, PreApproved: true}, expect: true},
		{description: "inactive pre-approved", vendor: &Vendor{PreApproved: true}},
		{description: "active not vetted", vendor: &Vendor{Active: true}},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, testCase.vendor.IsPreApproved(), testCase.description)
	}
}
