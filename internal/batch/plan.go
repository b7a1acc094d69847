// Package batch loads a YAML plan of vesting schedules to be created in
// bulk by an operator tool, following the YAML-policy-file convention of
// the teacher's payout worker (services/payoutd/policy.go): a flat decoded
// struct with string-encoded big.Int fields, validated and normalized on
// load rather than trusted as-is.
package batch

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is one planned schedule creation.
type Entry struct {
	Beneficiary  string
	Start        int64
	CliffOffset  int64
	Duration     int64
	SliceSeconds uint8
	Amount       *big.Int
	Revokable    bool
}

type entryFile struct {
	Beneficiary  string `yaml:"beneficiary"`
	Start        int64  `yaml:"start"`
	CliffOffset  int64  `yaml:"cliff_offset"`
	Duration     int64  `yaml:"duration"`
	SliceSeconds uint8  `yaml:"slice_seconds"`
	Amount       string `yaml:"amount"`
	Revokable    bool   `yaml:"revokable"`
}

// LoadPlan reads a batch of schedule entries from a YAML file on disk.
func LoadPlan(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("batch: open plan: %w", err)
	}
	defer file.Close()

	dec := yaml.NewDecoder(file)
	var raw []entryFile
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("batch: decode plan: %w", err)
	}

	entries := make([]Entry, 0, len(raw))
	for i, r := range raw {
		beneficiary := strings.TrimSpace(r.Beneficiary)
		if beneficiary == "" {
			return nil, fmt.Errorf("batch: entry %d: beneficiary required", i)
		}
		amount, ok := new(big.Int).SetString(strings.TrimSpace(r.Amount), 10)
		if !ok {
			return nil, fmt.Errorf("batch: entry %d: invalid amount %q", i, r.Amount)
		}
		if r.Duration <= 0 {
			return nil, fmt.Errorf("batch: entry %d: duration must be positive", i)
		}
		entries = append(entries, Entry{
			Beneficiary:  beneficiary,
			Start:        r.Start,
			CliffOffset:  r.CliffOffset,
			Duration:     r.Duration,
			SliceSeconds: r.SliceSeconds,
			Amount:       amount,
			Revokable:    r.Revokable,
		})
	}
	return entries, nil
}
