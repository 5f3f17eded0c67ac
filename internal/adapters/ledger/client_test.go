package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tally/internal/core/contribution"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient(Options{
		GatewayURL:      srv.URL,
		ContractAddress: "0xcafe",
		AccountAddress:  "0xacc7",
		Timeout:         2 * time.Second,
	})
	return c, srv
}

func TestSubmitAcceptsAssign(t *testing.T) {
	t.Parallel()

	var got invokeRequest
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gateway/add_transaction" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(invokeResponse{
			Code:            "TRANSACTION_RECEIVED",
			TransactionHash: "0xbeef",
		})
	})

	ref, err := c.Submit(context.Background(), contribution.Assign{
		ID:          "c-1",
		Contributor: "octocat",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if ref != "0xbeef" {
		t.Fatalf("ref = %q, want 0xbeef", ref)
	}
	if got.EntryPoint != "assign_contributor" {
		t.Fatalf("entry point = %q", got.EntryPoint)
	}
	if len(got.Calldata) != 2 || got.Calldata[0] != "c-1" || got.Calldata[1] != "octocat" {
		t.Fatalf("calldata = %v", got.Calldata)
	}
	if got.ContractAddress != "0xcafe" {
		t.Fatalf("contract = %q", got.ContractAddress)
	}
}

func TestSubmitEntryPoints(t *testing.T) {
	t.Parallel()

	cases := []struct {
		act  contribution.Action
		want string
	}{
		{contribution.Create{Contribution: contribution.Contribution{ID: "c-1", ProjectID: 7, IssueNumber: 42}}, "new_contribution"},
		{contribution.Assign{ID: "c-1", Contributor: "a"}, "assign_contributor"},
		{contribution.Unassign{ID: "c-1"}, "unassign_contributor"},
		{contribution.Validate{ID: "c-1"}, "validate_contribution"},
	}
	for _, tc := range cases {
		var got invokeRequest
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&got)
			_ = json.NewEncoder(w).Encode(invokeResponse{TransactionHash: "0x1"})
		})
		if _, err := c.Submit(context.Background(), tc.act); err != nil {
			t.Fatalf("%s: %v", tc.want, err)
		}
		if got.EntryPoint != tc.want {
			t.Fatalf("entry point = %q, want %q", got.EntryPoint, tc.want)
		}
	}
}

func TestServerErrorIsTransient(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "sequencer busy", http.StatusServiceUnavailable)
	})

	_, err := c.Submit(context.Background(), contribution.Validate{ID: "c-1"})
	if err == nil {
		t.Fatal("want error")
	}
	if !IsTransient(err) {
		t.Fatalf("want transient, got %v", err)
	}
	if IsRejected(err) {
		t.Fatalf("transient error classified as rejected: %v", err)
	}
}

func TestThrottleIsTransient(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	})

	_, err := c.LogStatus(context.Background(), StatusUpdate{ProjectID: 1, WorkItemID: 2, Author: "a", Status: "merged"})
	if !IsTransient(err) {
		t.Fatalf("want transient, got %v", err)
	}
}

func TestClientErrorIsRejected(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"INVALID_TRANSACTION","message":"duplicate"}`, http.StatusBadRequest)
	})

	_, err := c.Submit(context.Background(), contribution.Unassign{ID: "c-1"})
	if err == nil {
		t.Fatal("want error")
	}
	if !IsRejected(err) {
		t.Fatalf("want rejected, got %v", err)
	}
	if IsTransient(err) {
		t.Fatalf("rejected error classified as transient: %v", err)
	}
}

func TestUnreachableGatewayIsTransient(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(Options{GatewayURL: srv.URL, Timeout: time.Second})
	_, err := c.Submit(context.Background(), contribution.Validate{ID: "c-1"})
	if !IsTransient(err) {
		t.Fatalf("want transient, got %v", err)
	}
}

func TestMissingHashIsRejected(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(invokeResponse{Code: "TRANSACTION_RECEIVED", Message: "pending"})
	})

	_, err := c.Submit(context.Background(), contribution.Validate{ID: "c-1"})
	if !IsRejected(err) {
		t.Fatalf("want rejected, got %v", err)
	}
}

func TestLogStatusCalldata(t *testing.T) {
	t.Parallel()

	var got invokeRequest
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(invokeResponse{TransactionHash: "0x2"})
	})

	ref, err := c.LogStatus(context.Background(), StatusUpdate{
		ProjectID:  12,
		WorkItemID: 345,
		Author:     "octocat",
		Status:     "merged",
	})
	if err != nil {
		t.Fatalf("LogStatus: %v", err)
	}
	if ref != "0x2" {
		t.Fatalf("ref = %q", ref)
	}
	if got.EntryPoint != "log_work_item_status" {
		t.Fatalf("entry point = %q", got.EntryPoint)
	}
	want := []string{"12", "345", "octocat", "merged"}
	if len(got.Calldata) != len(want) {
		t.Fatalf("calldata = %v", got.Calldata)
	}
	for i := range want {
		if got.Calldata[i] != want[i] {
			t.Fatalf("calldata[%d] = %q, want %q", i, got.Calldata[i], want[i])
		}
	}
}
