package transaction

import "github.com/tallybank/tallybank/internal/types"

// Classify labels t as seen from the viewpoint account. Rules apply in
// order and a later match overrides an earlier one: sender side, receiver
// side, then the bank sentinels. A movement with the bank is therefore
// always PAYMENT or REFUND whichever side is looking.
func Classify(t *Transaction, viewpoint string) types.TransactionType {
	kind := types.TransactionTypeUnknown

	if is(t.Sender, viewpoint) {
		if t.Receiver == nil {
			kind = types.TransactionTypeDeposit
		} else {
			kind = types.TransactionTypeTransfer
		}
	}
	if is(t.Receiver, viewpoint) {
		if t.Sender == nil {
			kind = types.TransactionTypeWithdrawal
		} else {
			kind = types.TransactionTypeIncome
		}
	}

	if IsSystemParty(t.Receiver) {
		kind = types.TransactionTypePayment
	}
	if IsSystemParty(t.Sender) {
		kind = types.TransactionTypeRefund
	}
	return kind
}
