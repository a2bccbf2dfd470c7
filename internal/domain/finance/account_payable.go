package finance

import "github.com/google/uuid"

// AccountPayable is money owed to a supplier.
// Lifecycle: open -> partial -> paid; open -> cancelled.
type AccountPayable struct {
	Title
}

// NewAccountPayable creates an open payable
func NewAccountPayable(in TitleInput, createdBy uuid.UUID) (*AccountPayable, error) {
	t, err := newTitle(in, createdBy)
	if err != nil {
		return nil, err
	}
	return &AccountPayable{Title: t}, nil
}

// Update edits the payable while it is still open
func (ap *AccountPayable) Update(in TitleInput) error {
	return ap.update(in)
}

// RecordPayment applies a payment; the payable becomes paid once nothing is outstanding
func (ap *AccountPayable) RecordPayment(in SettlementInput) (*Settlement, error) {
	return ap.settle(in, StatusPaid)
}

// Cancel cancels the payable (only if no payments have been applied)
func (ap *AccountPayable) Cancel(reason string) error {
	return ap.cancel(reason)
}
