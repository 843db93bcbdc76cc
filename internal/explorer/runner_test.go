package explorer

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

type mockVerifier struct {
	verifyFunc func(ctx context.Context, r VerifyRequest) error
	calls      []VerifyRequest
	callTimes  []time.Time
}

func (m *mockVerifier) Verify(ctx context.Context, r VerifyRequest) error {
	m.calls = append(m.calls, r)
	m.callTimes = append(m.callTimes, time.Now())
	if m.verifyFunc != nil {
		return m.verifyFunc(ctx, r)
	}
	return nil
}

func newTestRunner(t *testing.T, v Verifier, delay time.Duration) *Runner {
	t.Helper()
	r := NewRunner(v, delay, Defaults{CompilerVersion: "v0.8.24+commit.e11b9ed9", Runs: 200}, zaptest.NewLogger(t))
	r.readFile = func(name string) ([]byte, error) {
		if name == "missing.sol" {
			return nil, os.ErrNotExist
		}
		return []byte("// " + name), nil
	}
	return r
}

func TestRunnerClassifiesResults(t *testing.T) {
	v := &mockVerifier{
		verifyFunc: func(ctx context.Context, r VerifyRequest) error {
			switch r.ContractName {
			case "Escrow":
				return &APIError{Action: "verifysourcecode", Message: "Contract source code already verified"}
			case "Broken":
				return errors.New("Fail - Unable to verify")
			}
			return nil
		},
	}
	runner := newTestRunner(t, v, 0)

	deployments := []Deployment{
		{Name: "Broken", Address: addrToken, SourceFile: "Broken.sol"},
		{Name: "Escrow", Address: addrEscrow, SourceFile: "Escrow.sol"},
		{Name: "NoSource", Address: addrToken},
		{Name: "Token", Address: addrToken, SourceFile: "Token.sol", CompilerVersion: "v0.8.20+commit.a1b79de6"},
		{Name: "Unreadable", Address: addrToken, SourceFile: "missing.sol"},
	}

	results, err := runner.Run(context.Background(), deployments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []Outcome{OutcomeFailed, OutcomeAlreadyVerified, OutcomeFailed, OutcomeVerified, OutcomeFailed}
	if len(results) != len(expected) {
		t.Fatalf("expected %d results, but got %d", len(expected), len(results))
	}
	for i, r := range results {
		if r.Outcome != expected[i] {
			t.Errorf("%s: expected %s, but got %s", r.Name, expected[i], r.Outcome)
		}
		if (r.Outcome == OutcomeFailed) != (r.Err != nil) {
			t.Errorf("%s: error must be set only for failures, got %v", r.Name, r.Err)
		}
	}

	// NoSource и Unreadable не доходят до explorer
	if len(v.calls) != 3 {
		t.Errorf("expected 3 explorer calls, but got %d", len(v.calls))
	}
	if v.calls[2].CompilerVersion != "v0.8.20+commit.a1b79de6" {
		t.Errorf("expected per-contract compiler version, but got '%s'", v.calls[2].CompilerVersion)
	}
	if v.calls[0].SourceCode != "// Broken.sol" || v.calls[0].Runs != 200 {
		t.Errorf("unexpected request: %+v", v.calls[0])
	}

	summary := Summarize(results)
	if summary != (Summary{Verified: 1, AlreadyVerified: 1, Failed: 3}) || !summary.HasFailures() {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestRunnerFixedDelay(t *testing.T) {
	v := &mockVerifier{}
	delay := 30 * time.Millisecond
	runner := newTestRunner(t, v, delay)

	deployments := []Deployment{
		{Name: "A", Address: addrToken, SourceFile: "A.sol"},
		{Name: "B", Address: addrToken, SourceFile: "B.sol"},
		{Name: "C", Address: addrToken, SourceFile: "C.sol"},
	}
	start := time.Now()
	if _, err := runner.Run(context.Background(), deployments); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if time.Since(start) < 2*delay {
		t.Errorf("expected at least %v total, but took %v", 2*delay, time.Since(start))
	}
	if v.callTimes[0].Sub(start) >= delay {
		t.Error("first contract must not wait for the delay")
	}
	for i := 1; i < len(v.callTimes); i++ {
		if gap := v.callTimes[i].Sub(v.callTimes[i-1]); gap < delay {
			t.Errorf("gap %d: expected at least %v, but got %v", i, delay, gap)
		}
	}
}

func TestRunnerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	v := &mockVerifier{
		verifyFunc: func(context.Context, VerifyRequest) error {
			cancel()
			return nil
		},
	}
	runner := newTestRunner(t, v, time.Hour)

	deployments := []Deployment{
		{Name: "A", Address: addrToken, SourceFile: "A.sol"},
		{Name: "B", Address: addrToken, SourceFile: "B.sol"},
	}
	results, err := runner.Run(ctx, deployments)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, but got %v", err)
	}
	if len(results) != 1 || results[0].Outcome != OutcomeVerified {
		t.Errorf("expected one completed result before cancellation, got %+v", results)
	}
}
