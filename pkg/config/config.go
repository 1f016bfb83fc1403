// NFTGate - Discord NFT ownership verification bot

package config

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	LogLevel     string             `json:"log_level" env:"NFTGATE_LOG_LEVEL"`
	Discord      DiscordConfig      `json:"discord"`
	Chain        ChainConfig        `json:"chain"`
	Verification VerificationConfig `json:"verification"`
}

type DiscordConfig struct {
	Token         string `json:"token" env:"NFTGATE_DISCORD_TOKEN"`
	RoleName      string `json:"role_name" env:"NFTGATE_DISCORD_ROLE_NAME"`
	CommandPrefix string `json:"command_prefix" env:"NFTGATE_DISCORD_COMMAND_PREFIX"`
}

type ChainConfig struct {
	Name        string `json:"name" env:"NFTGATE_CHAIN_NAME"`
	RPC         string `json:"rpc" env:"NFTGATE_CHAIN_RPC"`
	ChainID     int64  `json:"chain_id" env:"NFTGATE_CHAIN_ID"`
	Currency    string `json:"currency" env:"NFTGATE_CHAIN_CURRENCY"`
	NFTContract string `json:"nft_contract" env:"NFTGATE_CHAIN_NFT_CONTRACT"`
	TokenID     int64  `json:"token_id" env:"NFTGATE_CHAIN_TOKEN_ID"`
}

type VerificationConfig struct {
	// MinAmountWei is a base-10 string because smallest-unit amounts
	// overflow int64 for most practical thresholds.
	MinAmountWei         string `json:"min_amount_wei" env:"NFTGATE_VERIFICATION_MIN_AMOUNT_WEI"`
	WindowSeconds        int    `json:"window_seconds" env:"NFTGATE_VERIFICATION_WINDOW_SECONDS"`
	MinNFTBalance        int64  `json:"min_nft_balance" env:"NFTGATE_VERIFICATION_MIN_NFT_BALANCE"`
	SweepIntervalSeconds int    `json:"sweep_interval_seconds" env:"NFTGATE_VERIFICATION_SWEEP_INTERVAL_SECONDS"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Discord: DiscordConfig{
			RoleName:      "Early Holder",
			CommandPrefix: "!",
		},
		Chain: ChainConfig{
			Name:     "Monad Testnet",
			ChainID:  10143,
			Currency: "MON",
		},
		Verification: VerificationConfig{
			MinAmountWei:  "100000000000000", // 0.0001 in 18-decimal units
			WindowSeconds: 600,
			MinNFTBalance: 1,
		},
	}
}

func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, env.Parse(cfg)
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Validate checks the fields the process cannot start without.
func (c *Config) Validate() error {
	if c.Discord.Token == "" {
		return fmt.Errorf("discord token not configured")
	}
	if c.Chain.RPC == "" {
		return fmt.Errorf("chain RPC endpoint not configured")
	}
	if c.Chain.NFTContract == "" {
		return fmt.Errorf("NFT contract address not configured")
	}
	if _, ok := new(big.Int).SetString(c.Verification.MinAmountWei, 10); !ok {
		return fmt.Errorf("invalid min_amount_wei: %q", c.Verification.MinAmountWei)
	}
	if c.Verification.WindowSeconds <= 0 {
		return fmt.Errorf("window_seconds must be positive")
	}
	return nil
}

// Window returns the validation window as a duration.
func (v *VerificationConfig) Window() time.Duration {
	return time.Duration(v.WindowSeconds) * time.Second
}

// SweepInterval returns the optional eviction sweep interval, zero when disabled.
func (v *VerificationConfig) SweepInterval() time.Duration {
	return time.Duration(v.SweepIntervalSeconds) * time.Second
}

// MinAmount returns the minimum self-transfer value in the chain's
// smallest unit. Call Validate first; malformed strings yield zero.
func (v *VerificationConfig) MinAmount() *big.Int {
	amount, ok := new(big.Int).SetString(v.MinAmountWei, 10)
	if !ok {
		return big.NewInt(0)
	}
	return amount
}
