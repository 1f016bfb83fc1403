// NFTGate - Discord NFT ownership verification bot

package blockchain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/skyforge/nftgate/pkg/config"
	"github.com/skyforge/nftgate/pkg/logger"
)

var (
	// ErrTxNotFound is returned when a well-formed hash is unknown to the
	// network (not yet mined or never sent).
	ErrTxNotFound = errors.New("transaction not found")

	// ErrChainUnavailable is returned when the RPC endpoint cannot be reached.
	ErrChainUnavailable = errors.New("chain unavailable")
)

// Client is a read-only connection to a single EVM chain.
type Client struct {
	rpc      *ethclient.Client
	chain    *config.ChainConfig
	signer   types.Signer
	contract common.Address
}

// Dial connects to the configured RPC endpoint and verifies the chain ID.
func Dial(ctx context.Context, chain *config.ChainConfig) (*Client, error) {
	rpc, err := ethclient.DialContext(ctx, chain.RPC)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s RPC: %w", chain.Name, err)
	}

	chainID, err := rpc.ChainID(ctx)
	if err != nil {
		rpc.Close()
		return nil, fmt.Errorf("failed to get chain ID for %s: %w", chain.Name, err)
	}

	if chain.ChainID != 0 && chainID.Int64() != chain.ChainID {
		rpc.Close()
		return nil, fmt.Errorf("chain ID mismatch: expected %d, got %d", chain.ChainID, chainID.Int64())
	}

	logger.InfoCF("blockchain", "Connected to chain", map[string]any{
		"name":    chain.Name,
		"chainId": chainID.Int64(),
		"rpc":     chain.RPC,
	})

	return &Client{
		rpc:      rpc,
		chain:    chain,
		signer:   types.LatestSignerForChainID(chainID),
		contract: common.HexToAddress(chain.NFTContract),
	}, nil
}

// Close closes the RPC connection.
func (c *Client) Close() {
	c.rpc.Close()
	logger.InfoCF("blockchain", "Disconnected from chain", map[string]any{
		"name": c.chain.Name,
	})
}

// TransferRecord is the subset of a transaction the verifier inspects.
type TransferRecord struct {
	Hash    common.Hash
	From    common.Address
	To      common.Address
	Value   *big.Int
	Pending bool
}

// GetTransaction fetches a transaction by hash. Unknown hashes yield
// ErrTxNotFound; transport failures yield ErrChainUnavailable.
func (c *Client) GetTransaction(ctx context.Context, hash string) (*TransferRecord, error) {
	txHash := common.HexToHash(hash)

	tx, pending, err := c.rpc.TransactionByHash(ctx, txHash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, ErrTxNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrChainUnavailable, err)
	}

	from, err := types.Sender(c.signer, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to recover sender: %w", err)
	}

	record := &TransferRecord{
		Hash:    tx.Hash(),
		From:    from,
		Value:   tx.Value(),
		Pending: pending,
	}
	// Contract creations have no recipient.
	if tx.To() != nil {
		record.To = *tx.To()
	}

	return record, nil
}

// IsValidAddress reports whether raw parses as a 20-byte hex address.
func IsValidAddress(raw string) bool {
	return common.IsHexAddress(raw)
}

// NormalizeAddress converts a valid hex address to its checksum form.
func NormalizeAddress(raw string) common.Address {
	return common.HexToAddress(raw)
}
