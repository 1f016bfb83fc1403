// NFTGate - Discord NFT ownership verification bot

package channels

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/skyforge/nftgate/pkg/config"
	"github.com/skyforge/nftgate/pkg/verify"
)

// outcomeMessage maps a verifier error to its user-visible text. Every error
// kind gets distinct wording so the user knows which step to retry.
func outcomeMessage(err error, cfg *config.Config) string {
	var balanceErr *verify.BalanceCheckError

	switch {
	case errors.Is(err, verify.ErrInvalidAddress):
		return "❌ Wallet invalid. Please enter a valid wallet address."
	case errors.Is(err, verify.ErrNoPendingRequest):
		return "❌ No pending wallet validation found. Please start again by clicking **Link Your Wallet**."
	case errors.Is(err, verify.ErrValidationExpired):
		return "❌ Validation time expired. Please start again by clicking **Link Your Wallet**."
	case errors.Is(err, verify.ErrTransactionNotFound):
		return "❌ Transaction not found. Please check the hash and try again."
	case errors.Is(err, verify.ErrChainUnavailable):
		return "⚠️ Error fetching transaction. Please try again later."
	case errors.Is(err, verify.ErrInvalidTransaction):
		return fmt.Sprintf("⚠️ Invalid transaction. Ensure you sent %s to **yourself** with the correct amount.",
			cfg.Chain.Currency)
	case errors.As(err, &balanceErr):
		return "⚠️ Error checking NFT balance. Please start again by clicking **Link Your Wallet**."
	default:
		return "⚠️ Unexpected error. Please try again later."
	}
}

// FormatAmount renders a smallest-unit amount as a decimal string.
func FormatAmount(amount *big.Int, decimals int64) string {
	if amount == nil {
		return "0"
	}

	value := new(big.Float).SetInt(amount)
	divisor := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(decimals), nil))
	value.Quo(value, divisor)

	return value.Text('f', -1)
}
