package types

// TransactionType is the meaning of a ledger movement as seen from one
// account. It is derived on read and never stored.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
	TransactionTypeIncome     TransactionType = "INCOME"
	TransactionTypePayment    TransactionType = "PAYMENT"
	TransactionTypeRefund     TransactionType = "REFUND"
	// TransactionTypeUnknown is reported when the viewpoint is neither party
	TransactionTypeUnknown TransactionType = "UNKNOWN"
)

func (t TransactionType) String() string {
	return string(t)
}
