package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Verification.WindowSeconds != 600 {
		t.Errorf("WindowSeconds = %d, want 600", cfg.Verification.WindowSeconds)
	}
	if cfg.Verification.MinAmountWei != "100000000000000" {
		t.Errorf("MinAmountWei = %q", cfg.Verification.MinAmountWei)
	}
	if cfg.Verification.MinNFTBalance != 1 {
		t.Errorf("MinNFTBalance = %d, want 1", cfg.Verification.MinNFTBalance)
	}
	if cfg.Discord.CommandPrefix != "!" {
		t.Errorf("CommandPrefix = %q, want '!'", cfg.Discord.CommandPrefix)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
		"discord": {"token": "tok", "role_name": "Holder"},
		"chain": {"rpc": "https://rpc.example", "chain_id": 10143, "nft_contract": "0x00000000000000000000000000000000000000aa", "token_id": 3},
		"verification": {"min_amount_wei": "5", "window_seconds": 300}
	}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Discord.Token != "tok" || cfg.Discord.RoleName != "Holder" {
		t.Errorf("discord = %+v", cfg.Discord)
	}
	if cfg.Chain.TokenID != 3 {
		t.Errorf("TokenID = %d, want 3", cfg.Chain.TokenID)
	}
	if cfg.Verification.Window() != 5*time.Minute {
		t.Errorf("Window = %v, want 5m", cfg.Verification.Window())
	}
	if cfg.Verification.MinAmount().Int64() != 5 {
		t.Errorf("MinAmount = %v, want 5", cfg.Verification.MinAmount())
	}
	// Untouched fields keep their defaults.
	if cfg.Discord.CommandPrefix != "!" {
		t.Errorf("CommandPrefix = %q, want default '!'", cfg.Discord.CommandPrefix)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Verification.WindowSeconds != 600 {
		t.Errorf("WindowSeconds = %d, want default 600", cfg.Verification.WindowSeconds)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("NFTGATE_DISCORD_TOKEN", "env-token")
	t.Setenv("NFTGATE_VERIFICATION_WINDOW_SECONDS", "120")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Discord.Token != "env-token" {
		t.Errorf("Token = %q, want env override", cfg.Discord.Token)
	}
	if cfg.Verification.WindowSeconds != 120 {
		t.Errorf("WindowSeconds = %d, want 120", cfg.Verification.WindowSeconds)
	}
}

func TestValidate(t *testing.T) {
	valid := DefaultConfig()
	valid.Discord.Token = "tok"
	valid.Chain.RPC = "https://rpc.example"
	valid.Chain.NFTContract = "0x00000000000000000000000000000000000000aa"

	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing token", func(c *Config) { c.Discord.Token = "" }},
		{"missing rpc", func(c *Config) { c.Chain.RPC = "" }},
		{"missing contract", func(c *Config) { c.Chain.NFTContract = "" }},
		{"bad amount", func(c *Config) { c.Verification.MinAmountWei = "not-a-number" }},
		{"zero window", func(c *Config) { c.Verification.WindowSeconds = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Discord.Token = "tok"
			cfg.Chain.RPC = "https://rpc.example"
			cfg.Chain.NFTContract = "0x00000000000000000000000000000000000000aa"
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	cfg := DefaultConfig()
	cfg.Discord.Token = "tok"
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Discord.Token != "tok" {
		t.Errorf("Token = %q after round trip", loaded.Discord.Token)
	}
}
