// Package finance models money owed and received outside of the sale flow:
// one-off financial transactions, accounts payable and accounts receivable.
package finance

// Status is the lifecycle state shared by financial records
type Status string

const (
	StatusOpen      Status = "open"
	StatusPartial   Status = "partial"
	StatusPaid      Status = "paid"
	StatusReceived  Status = "received"
	StatusCancelled Status = "cancelled"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusPartial, StatusPaid, StatusReceived, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true once no further transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusPaid || s == StatusReceived || s == StatusCancelled
}

// String returns the status name
func (s Status) String() string {
	return string(s)
}

// PaymentMethod identifies how money moved
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodPix          PaymentMethod = "pix"
	MethodCard         PaymentMethod = "card"
	MethodBoleto       PaymentMethod = "boleto"
	MethodOther        PaymentMethod = "other"
)

// IsValid reports whether m is a known method
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCash, MethodBankTransfer, MethodPix, MethodCard, MethodBoleto, MethodOther:
		return true
	}
	return false
}
