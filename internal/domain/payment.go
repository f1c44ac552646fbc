package domain

// PaymentMode is how a passenger settles a seat.
type PaymentMode string

const (
	PaymentModeCash    PaymentMode = "cash"
	PaymentModeUniCard PaymentMode = "unicard"
	PaymentModeMixed   PaymentMode = "mixed"
)

// Valid reports whether m is a known payment mode.
func (m PaymentMode) Valid() bool {
	switch m {
	case PaymentModeCash, PaymentModeUniCard, PaymentModeMixed:
		return true
	}
	return false
}
