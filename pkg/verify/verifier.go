// NFTGate - Discord NFT ownership verification bot

package verify

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/skyforge/nftgate/pkg/blockchain"
	"github.com/skyforge/nftgate/pkg/logger"
)

// ChainReader is the read-only chain access the verifier needs.
type ChainReader interface {
	GetTransaction(ctx context.Context, hash string) (*blockchain.TransferRecord, error)
	GetNFTBalance(ctx context.Context, owner common.Address, tokenID *big.Int) (*big.Int, error)
}

// Result is the outcome of a completed ownership proof.
type Result struct {
	Wallet    common.Address
	Balance   *big.Int
	Qualified bool
}

// Options fixes the verification thresholds for the process lifetime.
type Options struct {
	TokenID    *big.Int
	MinAmount  *big.Int
	MinBalance *big.Int
}

// Verifier advances users through the wallet-link, self-transfer and
// NFT-balance phases of verification.
type Verifier struct {
	store     *PendingStore
	chain     ChainReader
	tokenID   *big.Int
	minAmount *big.Int
	minOwned  *big.Int

	// userLocks serializes transitions per user so a check-then-delete
	// sequence cannot be split by a concurrent submission for the same
	// user. Different users never contend here.
	userLocks sync.Map
}

// NewVerifier creates a verifier over the given store and chain client.
func NewVerifier(store *PendingStore, chain ChainReader, opts Options) *Verifier {
	tokenID := opts.TokenID
	if tokenID == nil {
		tokenID = big.NewInt(0)
	}
	minAmount := opts.MinAmount
	if minAmount == nil {
		minAmount = big.NewInt(0)
	}
	minOwned := opts.MinBalance
	if minOwned == nil || minOwned.Sign() <= 0 {
		minOwned = big.NewInt(1)
	}

	return &Verifier{
		store:     store,
		chain:     chain,
		tokenID:   tokenID,
		minAmount: minAmount,
		minOwned:  minOwned,
	}
}

func (v *Verifier) lockUser(userID string) *sync.Mutex {
	lock, _ := v.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// SubmitWallet links a wallet address to a user and opens the validation
// window. A prior pending request for the user is overwritten.
func (v *Verifier) SubmitWallet(userID, rawAddress string) (common.Address, error) {
	if !blockchain.IsValidAddress(rawAddress) {
		return common.Address{}, ErrInvalidAddress
	}

	lock := v.lockUser(userID)
	lock.Lock()
	defer lock.Unlock()

	wallet := blockchain.NormalizeAddress(rawAddress)
	v.store.Put(userID, wallet)

	logger.InfoCF("verify", "Wallet linked", map[string]any{
		"user":   userID,
		"wallet": wallet.Hex(),
	})

	return wallet, nil
}

// SubmitTransaction validates an ownership-proof transaction for the user's
// pending request and, when it passes, runs the NFT balance check. The
// pending record is consumed on successful validation, before the balance
// call: a repeat submission then gets ErrNoPendingRequest.
func (v *Verifier) SubmitTransaction(ctx context.Context, userID, txHash string) (*Result, error) {
	lock := v.lockUser(userID)
	lock.Lock()
	defer lock.Unlock()

	rec, ok := v.store.Get(userID)
	if !ok {
		return nil, ErrNoPendingRequest
	}

	if v.store.Expired(rec) {
		v.store.Delete(userID)
		logger.InfoCF("verify", "Verification request expired", map[string]any{
			"user": userID,
		})
		return nil, ErrValidationExpired
	}

	tx, err := v.chain.GetTransaction(ctx, txHash)
	if err != nil {
		if errors.Is(err, blockchain.ErrTxNotFound) {
			return nil, ErrTransactionNotFound
		}
		logger.WarnCF("verify", "Transaction lookup failed", map[string]any{
			"user":  userID,
			"hash":  txHash,
			"error": err.Error(),
		})
		return nil, ErrChainUnavailable
	}

	// Ownership proof: a self-transfer from the linked wallet of at least
	// the minimum amount. Addresses are checksum-normalized on both sides,
	// so equality here is case-insensitive.
	if tx.From != rec.Wallet || tx.To != rec.Wallet || tx.Value.Cmp(v.minAmount) < 0 {
		logger.InfoCF("verify", "Transaction rejected", map[string]any{
			"user":   userID,
			"hash":   txHash,
			"from":   tx.From.Hex(),
			"to":     tx.To.Hex(),
			"wallet": rec.Wallet.Hex(),
		})
		return nil, ErrInvalidTransaction
	}

	// Success consumes the pending request so the same hash cannot be
	// replayed against a later attempt.
	v.store.Delete(userID)

	balance, err := v.chain.GetNFTBalance(ctx, rec.Wallet, v.tokenID)
	if err != nil {
		logger.ErrorCF("verify", "NFT balance check failed", map[string]any{
			"user":   userID,
			"wallet": rec.Wallet.Hex(),
			"error":  err.Error(),
		})
		return nil, &BalanceCheckError{Err: err}
	}

	result := &Result{
		Wallet:    rec.Wallet,
		Balance:   balance,
		Qualified: balance.Cmp(v.minOwned) >= 0,
	}

	logger.InfoCF("verify", "Ownership proof completed", map[string]any{
		"user":      userID,
		"wallet":    rec.Wallet.Hex(),
		"balance":   balance.String(),
		"qualified": result.Qualified,
	})

	return result, nil
}
