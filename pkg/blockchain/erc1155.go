// NFTGate - Discord NFT ownership verification bot

package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// balanceOf(address,uint256) is the only contract function this bot calls,
// so the ABI is compiled in rather than loaded from disk.
const erc1155ABI = `[
	{
		"constant": true,
		"inputs": [
			{"name": "_owner", "type": "address"},
			{"name": "_id", "type": "uint256"}
		],
		"name": "balanceOf",
		"outputs": [{"name": "", "type": "uint256"}],
		"payable": false,
		"stateMutability": "view",
		"type": "function"
	}
]`

var parsedERC1155 = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(erc1155ABI))
	if err != nil {
		panic(fmt.Sprintf("invalid ERC-1155 ABI: %v", err))
	}
	return parsed
}()

// GetNFTBalance calls balanceOf(owner, tokenID) on the configured NFT
// contract. Any failure is a call error, never a zero balance.
func (c *Client) GetNFTBalance(ctx context.Context, owner common.Address, tokenID *big.Int) (*big.Int, error) {
	data, err := parsedERC1155.Pack("balanceOf", owner, tokenID)
	if err != nil {
		return nil, fmt.Errorf("failed to pack balanceOf call: %w", err)
	}

	msg := ethereum.CallMsg{
		To:   &c.contract,
		Data: data,
	}

	result, err := c.rpc.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("balanceOf call failed: %w", err)
	}

	outputs, err := parsedERC1155.Unpack("balanceOf", result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack balanceOf result: %w", err)
	}
	if len(outputs) != 1 {
		return nil, fmt.Errorf("unexpected balanceOf output count: %d", len(outputs))
	}

	balance, ok := outputs[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected balanceOf output type: %T", outputs[0])
	}

	return balance, nil
}
