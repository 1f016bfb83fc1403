// NFTGate - Discord NFT ownership verification bot

package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/skyforge/nftgate/pkg/blockchain"
	"github.com/skyforge/nftgate/pkg/channels"
	"github.com/skyforge/nftgate/pkg/config"
	"github.com/skyforge/nftgate/pkg/logger"
	"github.com/skyforge/nftgate/pkg/verify"
)

var configPath string

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(home, ".nftgate", "config.json")
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "nftgate",
		Short: "Discord bot that verifies NFT ownership via a self-transfer proof",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath(), "path to config file")

	onboardCmd := &cobra.Command{
		Use:   "onboard",
		Short: "Write a default config file to edit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(configPath); err == nil {
				fmt.Printf("Config already exists at %s\n", configPath)
				return nil
			}
			if err := config.SaveConfig(configPath, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("Created config at %s\n", configPath)
			fmt.Println("\nNext steps:")
			fmt.Println("  1. Add your Discord bot token and chain RPC endpoint")
			fmt.Println("  2. Set the NFT contract address and token ID")
			fmt.Println("  3. Run 'nftgate' to start the bot")
			return nil
		},
	}
	rootCmd.AddCommand(onboardCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.SetLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chain, err := blockchain.Dial(ctx, &cfg.Chain)
	if err != nil {
		return err
	}
	defer chain.Close()

	store := verify.NewPendingStore(cfg.Verification.Window())
	if interval := cfg.Verification.SweepInterval(); interval > 0 {
		store.StartSweeper(ctx, interval)
	}

	verifier := verify.NewVerifier(store, chain, verify.Options{
		TokenID:    big.NewInt(cfg.Chain.TokenID),
		MinAmount:  cfg.Verification.MinAmount(),
		MinBalance: big.NewInt(cfg.Verification.MinNFTBalance),
	})

	channel, err := channels.NewDiscordChannel(cfg, verifier)
	if err != nil {
		return err
	}

	if err := channel.Start(ctx); err != nil {
		return err
	}

	logger.InfoCF("main", "NFTGate running", map[string]any{
		"chain": cfg.Chain.Name,
		"role":  cfg.Discord.RoleName,
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.InfoCF("main", "Shutting down", nil)
	return channel.Stop(ctx)
}
