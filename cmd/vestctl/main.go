// Command vestctl is an operator CLI for vestd: it applies a YAML batch
// plan of schedule creations against a running server, one HTTP call per
// entry. It follows the teacher's multi-binary cmd/ layout (cmd/nhbctl,
// cmd/nhb-cli) rather than folding operator tooling into the server binary.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/blackelite/vestd/internal/batch"
)

const applyCommand = "apply-plan"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case applyCommand:
		runApplyPlan(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: vestctl %s --server URL --token JWT --plan FILE\n", applyCommand)
}

func runApplyPlan(args []string) {
	fs := flag.NewFlagSet(applyCommand, flag.ExitOnError)
	server := fs.String("server", "http://127.0.0.1:8080", "vestd base URL")
	token := fs.String("token", "", "bearer JWT with schedule_creator or admin role")
	planPath := fs.String("plan", "", "path to the YAML schedule plan")
	_ = fs.Parse(args)

	if *planPath == "" {
		fmt.Fprintln(os.Stderr, "vestctl: --plan is required")
		os.Exit(1)
	}

	entries, err := batch.LoadPlan(*planPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vestctl: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: 15 * time.Second}
	failures := 0
	for i, entry := range entries {
		requestID := uuid.NewString()
		body, err := json.Marshal(struct {
			Params interface{} `json:"params"`
		}{Params: struct {
			Beneficiary  string `json:"beneficiary"`
			Start        int64  `json:"start"`
			CliffOffset  int64  `json:"cliffOffset"`
			Duration     int64  `json:"duration"`
			SliceSeconds uint8  `json:"sliceSeconds"`
			Amount       string `json:"amount"`
			Revokable    bool   `json:"revokable"`
		}{
			Beneficiary:  entry.Beneficiary,
			Start:        entry.Start,
			CliffOffset:  entry.CliffOffset,
			Duration:     entry.Duration,
			SliceSeconds: entry.SliceSeconds,
			Amount:       entry.Amount.String(),
			Revokable:    entry.Revokable,
		}})
		if err != nil {
			fmt.Fprintf(os.Stderr, "entry %d: encode: %v\n", i, err)
			failures++
			continue
		}
		req, err := http.NewRequest(http.MethodPost, *server+"/v1/schedules", bytes.NewReader(body))
		if err != nil {
			fmt.Fprintf(os.Stderr, "entry %d: build request: %v\n", i, err)
			failures++
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Request-Id", requestID)
		if *token != "" {
			req.Header.Set("Authorization", "Bearer "+*token)
		}
		resp, err := client.Do(req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "entry %d (%s): %v\n", i, requestID, err)
			failures++
			continue
		}
		payload, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			fmt.Fprintf(os.Stderr, "entry %d (%s): HTTP %d: %s\n", i, requestID, resp.StatusCode, payload)
			failures++
			continue
		}
		fmt.Printf("entry %d (%s): %s\n", i, requestID, payload)
	}
	if failures > 0 {
		os.Exit(1)
	}
}
