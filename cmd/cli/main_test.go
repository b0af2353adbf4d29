package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func withServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	origURL := baseURL
	baseURL = server.URL
	t.Cleanup(func() { baseURL = origURL })
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	out := captureOutput(t, func() {
		printJSON(struct {
			A int `json:"a"`
		}{A: 1})
	})

	expected := "{\n  \"a\": 1\n}\n"
	if out != expected {
		t.Fatalf("unexpected json output:\n%s", out)
	}
}

func TestConsistencyCmdPassed(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/balances/consistency" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"consistent":true,"drifts":[]}`))
	})

	out := captureOutput(t, func() {
		if err := consistencyCmd().Execute(); err != nil {
			t.Errorf("command failed: %v", err)
		}
	})

	if !strings.Contains(out, "PASSED") {
		t.Fatalf("expected PASSED, got %q", out)
	}
}

func TestConsistencyCmdDrift(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"consistent":false,"drifts":[{"account_id":"acc-1","cached":"100","recomputed":"90"}]}`))
	})

	cmd := consistencyCmd()
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	var cmdErr error
	out := captureOutput(t, func() {
		cmdErr = cmd.Execute()
	})

	if cmdErr == nil {
		t.Fatal("expected error for drifted ledger")
	}
	if !strings.Contains(out, "FAILED") || !strings.Contains(out, "acc-1") {
		t.Fatalf("expected drift report, got %q", out)
	}
}

func TestSweepCmd(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/transfers/sweep" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"due":3,"executed":2,"skipped":1,"failed":0}`))
	})

	out := captureOutput(t, func() {
		if err := sweepCmd().Execute(); err != nil {
			t.Errorf("command failed: %v", err)
		}
	})

	if !strings.Contains(out, "Due: 3, Executed: 2, Skipped: 1, Failed: 0") {
		t.Fatalf("unexpected sweep output: %q", out)
	}
}

func TestAccountsListCmd(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"accounts":[{"id":"acc-1","name":"Main","kind":"BANK","balance":"1500.00","active":true}],"total":1}`))
	})

	out := captureOutput(t, func() {
		if err := accountsListCmd().Execute(); err != nil {
			t.Errorf("command failed: %v", err)
		}
	})

	if !strings.Contains(out, "Main") || !strings.Contains(out, "1500.00") {
		t.Fatalf("unexpected list output: %q", out)
	}
	if !strings.Contains(out, "Total: 1") {
		t.Fatalf("expected total line, got %q", out)
	}
}

func TestApiGetErrorStatus(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"account not found"}`))
	})

	var out map[string]any
	err := apiGet("/api/v1/accounts/missing", &out)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected status in error, got %v", err)
	}
}
