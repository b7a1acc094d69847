// Package config loads the vestd TOML configuration file, following the
// decode-or-create-default pattern of the teacher repository's own
// config.Load (config/config.go): if the file is missing, a default is
// written out rather than the process failing outright.
package config

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/blackelite/vestd/crypto"
)

// Config is the top-level vestd configuration.
type Config struct {
	Name            string `toml:"Name"`
	Symbol          string `toml:"Symbol"`
	Token           string `toml:"Token"`
	Creator         string `toml:"Creator"`
	Admin           string `toml:"Admin"`
	MerkleRoot      string `toml:"MerkleRoot"`
	PaymentReceiver string `toml:"PaymentReceiver"`
	VTokenCost      string `toml:"VTokenCost"`
	ListenAddress   string `toml:"ListenAddress"`
	StoragePath     string `toml:"StoragePath"`
	JWTSigningKey   string `toml:"JWTSigningKey"`
	LogLevel        string `toml:"LogLevel"`

	Telemetry TelemetryConfig `toml:"Telemetry"`
}

// TelemetryConfig controls the OpenTelemetry exporter endpoints.
type TelemetryConfig struct {
	Enabled        bool   `toml:"Enabled"`
	ServiceName    string `toml:"ServiceName"`
	OTLPEndpoint   string `toml:"OTLPEndpoint"`
	MetricsAddress string `toml:"MetricsAddress"`
}

// Load reads the configuration at path, writing and returning a default
// configuration with a freshly generated admin key if the file does not
// yet exist.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func createDefault(path string) (*Config, error) {
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	admin := key.PubKey().Address()

	escrowKey, err := crypto.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	escrow := escrowKey.PubKey().Address()

	cfg := &Config{
		Name:          "Vested Token",
		Symbol:        "vTKN",
		Token:         escrow.String(),
		ListenAddress: ":8080",
		StoragePath:   "./vestd-data/vestd.db",
		Admin:         admin.String(),
		LogLevel:      "info",
		VTokenCost:    "0",
		Telemetry: TelemetryConfig{
			ServiceName:    "vestd",
			MetricsAddress: ":9464",
		},
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Admin) == "" {
		return fmt.Errorf("config: Admin is required")
	}
	if _, err := crypto.DecodeAddress(c.Admin); err != nil {
		return fmt.Errorf("config: invalid Admin address: %w", err)
	}
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("config: Token is required")
	}
	if _, err := crypto.DecodeAddress(c.Token); err != nil {
		return fmt.Errorf("config: invalid Token address: %w", err)
	}
	if strings.TrimSpace(c.StoragePath) == "" {
		return fmt.Errorf("config: StoragePath is required")
	}
	if strings.TrimSpace(c.ListenAddress) == "" {
		return fmt.Errorf("config: ListenAddress is required")
	}
	if c.Creator != "" {
		if _, err := crypto.DecodeAddress(c.Creator); err != nil {
			return fmt.Errorf("config: invalid Creator address: %w", err)
		}
	}
	if c.PaymentReceiver != "" {
		if _, err := crypto.DecodeAddress(c.PaymentReceiver); err != nil {
			return fmt.Errorf("config: invalid PaymentReceiver address: %w", err)
		}
	}
	if _, err := c.ParseVTokenCost(); err != nil {
		return err
	}
	return nil
}

// ParseVTokenCost parses the configured VTokenCost decimal string into a
// *big.Int, defaulting to zero (purchasable claims disabled) when unset.
func (c *Config) ParseVTokenCost() (*big.Int, error) {
	raw := strings.TrimSpace(c.VTokenCost)
	if raw == "" {
		return big.NewInt(0), nil
	}
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, fmt.Errorf("config: invalid VTokenCost: %q", c.VTokenCost)
	}
	return v, nil
}

// ParseMerkleRoot parses the configured MerkleRoot hex string, returning the
// zero root when unset.
func (c *Config) ParseMerkleRoot() ([32]byte, error) {
	var root [32]byte
	raw := strings.TrimSpace(strings.TrimPrefix(c.MerkleRoot, "0x"))
	if raw == "" {
		return root, nil
	}
	if len(raw) != 64 {
		return root, fmt.Errorf("config: MerkleRoot must be 32 bytes hex-encoded")
	}
	decoded, err := hex.DecodeString(raw)
	if err != nil {
		return root, fmt.Errorf("config: invalid MerkleRoot: %w", err)
	}
	copy(root[:], decoded)
	return root, nil
}
