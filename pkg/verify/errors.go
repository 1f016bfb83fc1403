// NFTGate - Discord NFT ownership verification bot

package verify

import "errors"

var (
	// ErrInvalidAddress is returned when a submitted wallet address fails
	// format validation.
	ErrInvalidAddress = errors.New("invalid wallet address")

	// ErrNoPendingRequest is returned when a transaction hash arrives for a
	// user with no pending wallet verification.
	ErrNoPendingRequest = errors.New("no pending verification request")

	// ErrValidationExpired is returned when the validation window has
	// elapsed; the pending record is removed.
	ErrValidationExpired = errors.New("validation time expired")

	// ErrTransactionNotFound is returned when the hash is unknown to the
	// network; the pending record is kept for retry.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrChainUnavailable is returned on transient RPC failures; the pending
	// record is kept for retry.
	ErrChainUnavailable = errors.New("chain unavailable")

	// ErrInvalidTransaction is returned when the transaction is not a
	// self-transfer of at least the minimum amount from the linked wallet.
	ErrInvalidTransaction = errors.New("invalid transaction")
)

// BalanceCheckError wraps a failed NFT balance call. By the time it occurs
// the pending request has already been consumed, so the user must restart
// from wallet submission.
type BalanceCheckError struct {
	Err error
}

func (e *BalanceCheckError) Error() string {
	return "NFT balance check failed: " + e.Err.Error()
}

func (e *BalanceCheckError) Unwrap() error {
	return e.Err
}
