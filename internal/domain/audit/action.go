package audit

import (
	"fmt"
	"strings"
)

// Action names an audited operation as an {entity, verb} pair
type Action struct {
	Entity string
	Verb   string
}

// NewAction builds an action, lower-casing both parts
func NewAction(entity, verb string) Action {
	return Action{
		Entity: strings.ToLower(strings.TrimSpace(entity)),
		Verb:   strings.ToLower(strings.TrimSpace(verb)),
	}
}

// String renders the action as <entity>_<verb>
func (a Action) String() string {
	return a.Entity + "_" + a.Verb
}

// IsZero reports whether the action is unset
func (a Action) IsZero() bool {
	return a.Entity == "" && a.Verb == ""
}

// Validate checks that both parts are present
func (a Action) Validate() error {
	if a.Entity == "" || a.Verb == "" {
		return fmt.Errorf("audit action requires entity and verb, got %q", a.String())
	}
	return nil
}

// ParseAction reads a stored <entity>_<verb> string. The verb is the last
// segment so multi-word entities such as financial_transaction survive.
func ParseAction(s string) (Action, error) {
	idx := strings.LastIndex(s, "_")
	if idx <= 0 || idx == len(s)-1 {
		return Action{}, fmt.Errorf("invalid audit action %q: expected <entity>_<verb>", s)
	}
	return NewAction(s[:idx], s[idx+1:]), nil
}

// Common verbs
const (
	VerbCreate   = "create"
	VerbUpdate   = "update"
	VerbCancel   = "cancel"
	VerbReopen   = "reopen"
	VerbComplete = "complete"
	VerbSettle   = "settle"
	VerbPayment  = "payment"
	VerbReceipt  = "receipt"
	VerbLogin    = "login"
	VerbLogout   = "logout"
	VerbRefresh  = "refresh"
	VerbPassword = "password"
)

// Audited entities
const (
	EntityUser                 = "user"
	EntityProduct              = "product"
	EntitySale                 = "sale"
	EntityFinancialTransaction = "financial_transaction"
	EntityPayable              = "payable"
	EntityReceivable           = "receivable"
	EntityCompanyInfo          = "company_info"
	EntityPrinterConfig        = "printer_config"
	EntityScaleConfig          = "scale_config"
)
