package enums

import "fmt"

// PaymentTerms captures the supplier settlement arrangement.
type PaymentTerms string

const (
	PaymentTermsNet30           PaymentTerms = "Net 30"
	PaymentTermsNet60           PaymentTerms = "Net 60"
	PaymentTermsNet90           PaymentTerms = "Net 90"
	PaymentTermsCashOnDelivery  PaymentTerms = "Cash on Delivery"
	PaymentTermsAdvance         PaymentTerms = "Advance Payment"
	PaymentTermsTwoTenNet30     PaymentTerms = "2/10 Net 30"
	PaymentTermsOneFifteenNet45 PaymentTerms = "1/15 Net 45"
	PaymentTermsDueOnReceipt    PaymentTerms = "Due on Receipt"
)

var validPaymentTerms = []PaymentTerms{
	PaymentTermsNet30,
	PaymentTermsNet60,
	PaymentTermsNet90,
	PaymentTermsCashOnDelivery,
	PaymentTermsAdvance,
	PaymentTermsTwoTenNet30,
	PaymentTermsOneFifteenNet45,
	PaymentTermsDueOnReceipt,
}

// String implements fmt.Stringer.
func (p PaymentTerms) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentTerms.
func (p PaymentTerms) IsValid() bool {
	for _, candidate := range validPaymentTerms {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentTerms converts raw input into a PaymentTerms.
func ParsePaymentTerms(value string) (PaymentTerms, error) {
	for _, candidate := range validPaymentTerms {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment terms %q", value)
}
