package finance

import "github.com/google/uuid"

// AccountReceivable is money a customer owes the business.
// Lifecycle: open -> partial -> received; open -> cancelled.
type AccountReceivable struct {
	Title
}

// NewAccountReceivable creates an open receivable
func NewAccountReceivable(in TitleInput, createdBy uuid.UUID) (*AccountReceivable, error) {
	t, err := newTitle(in, createdBy)
	if err != nil {
		return nil, err
	}
	return &AccountReceivable{Title: t}, nil
}

// Update edits the receivable while it is still open
func (ar *AccountReceivable) Update(in TitleInput) error {
	return ar.update(in)
}

// RecordReceipt applies a receipt; the receivable becomes received once nothing is outstanding
func (ar *AccountReceivable) RecordReceipt(in SettlementInput) (*Settlement, error) {
	return ar.settle(in, StatusReceived)
}

// Cancel cancels the receivable (only if nothing has been received)
func (ar *AccountReceivable) Cancel(reason string) error {
	return ar.cancel(reason)
}
