package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vestd.toml")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotEmpty(t, cfg.Admin)
	require.Equal(t, ":8080", cfg.ListenAddress)

	reloaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.Admin, reloaded.Admin)
}

func TestLoadRejectsInvalidAdmin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vestd.toml")
	require.NoError(t, writeFile(path, `
Admin = "not-an-address"
StoragePath = "./data.db"
ListenAddress = ":8080"
`))
	_, err := Load(path)
	require.Error(t, err)
}

func TestParseVTokenCostDefaultsToZero(t *testing.T) {
	cfg := &Config{}
	v, err := cfg.ParseVTokenCost()
	require.NoError(t, err)
	require.Equal(t, int64(0), v.Int64())
}

func TestParseMerkleRootDefaultsToZero(t *testing.T) {
	cfg := &Config{}
	root, err := cfg.ParseMerkleRoot()
	require.NoError(t, err)
	require.Equal(t, [32]byte{}, root)
}

func TestParseMerkleRootDecodesHex(t *testing.T) {
	cfg := &Config{MerkleRoot: "0x" + repeat("ab", 32)}
	root, err := cfg.ParseMerkleRoot()
	require.NoError(t, err)
	require.Equal(t, byte(0xab), root[0])
	require.Equal(t, byte(0xab), root[31])
}

func repeat(s string, n int) string {
	out := make([]byte, 0, len(s)*n)
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}
