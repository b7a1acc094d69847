package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadPlanParsesEntries(t *testing.T) {
	path := writePlan(t, `
- beneficiary: "vest1deadbeef"
  start: 1700000000
  cliff_offset: 3600
  duration: 31536000
  slice_seconds: 60
  amount: "1000000000000000000000"
  revokable: true
`)
	entries, err := LoadPlan(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "vest1deadbeef", entries[0].Beneficiary)
	require.Equal(t, int64(31536000), entries[0].Duration)
	require.Equal(t, "1000000000000000000000", entries[0].Amount.String())
	require.True(t, entries[0].Revokable)
}

func TestLoadPlanRejectsMissingBeneficiary(t *testing.T) {
	path := writePlan(t, `
- beneficiary: ""
  duration: 100
  amount: "1"
`)
	_, err := LoadPlan(path)
	require.Error(t, err)
}

func TestLoadPlanRejectsInvalidAmount(t *testing.T) {
	path := writePlan(t, `
- beneficiary: "vest1deadbeef"
  duration: 100
  amount: "not-a-number"
`)
	_, err := LoadPlan(path)
	require.Error(t, err)
}

func TestLoadPlanRejectsNonPositiveDuration(t *testing.T) {
	path := writePlan(t, `
- beneficiary: "vest1deadbeef"
  duration: 0
  amount: "1"
`)
	_, err := LoadPlan(path)
	require.Error(t, err)
}
