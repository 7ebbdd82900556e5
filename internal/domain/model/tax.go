package model

import "time"

type TaxValueType string

const (
	TaxValuePercentage TaxValueType = "percentage"
	TaxValueFixed      TaxValueType = "fixed"
)

type TaxType string

const (
	TaxInclusive TaxType = "inclusive"
	TaxExclusive TaxType = "exclusive"
)

type TaxBillingType string

const (
	TaxBillingPersonal TaxBillingType = "personal"
	TaxBillingBusiness TaxBillingType = "business"
	TaxBillingBoth     TaxBillingType = "both"
)

// Tax is an admin-managed tax rule applied at checkout.
type Tax struct {
	ID           string
	InternalName string
	Name         string
	Description  string
	Value        int
	ValueType    TaxValueType
	Type         TaxType
	BillingType  TaxBillingType
	Countries    []string // nil means every country
	CreatedAt    time.Time
}
