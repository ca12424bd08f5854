package checkout

import "github.com/iliyamo/reservas-express/internal/model"

// successMessages are checkout acknowledgements treated as paid even when
// no status is returned.  The API answers "Reservation already paid" to a
// repeated submission, which must not surface as an error.
var successMessages = map[string]bool{
	"Reservation already paid":       true,
	"Payment processed successfully": true,
}

// IsPaymentSuccess reports whether a 2xx checkout answer means the
// reservation is paid.
func IsPaymentSuccess(res model.CheckoutResult) bool {
	return res.Status.IsPaid() || successMessages[res.Message]
}
