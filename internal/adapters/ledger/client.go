// Package ledger submits confirmed state transitions to the on-chain
// contributions contract through its transaction gateway.
// The client performs a single attempt per call; retry policy belongs
// to the reconciliation worker
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tally/internal/core/contribution"
	perr "tally/internal/platform/errors"
	"tally/internal/platform/logger"
)

const (
	defaultTimeout = 15 * time.Second
	defaultUA      = "tally-reconciler"
)

// Options configures the Client
type Options struct {
	// GatewayURL is the base URL of the transaction gateway
	GatewayURL string

	// ContractAddress is the contributions contract
	ContractAddress string

	// AccountAddress signs invokes on behalf of the registry
	AccountAddress string

	UserAgent string
	Timeout   time.Duration
}

// Client is a minimal gateway client
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("ledger"),
	}
}

// TxRef is the opaque transaction hash returned on acceptance
type TxRef string

// invokeRequest is the gateway wire format for a contract call
type invokeRequest struct {
	Type            string   `json:"type"`
	ContractAddress string   `json:"contract_address"`
	AccountAddress  string   `json:"account_address,omitempty"`
	EntryPoint      string   `json:"entry_point_selector"`
	Calldata        []string `json:"calldata"`
}

type invokeResponse struct {
	Code            string `json:"code"`
	TransactionHash string `json:"transaction_hash"`
	Message         string `json:"message,omitempty"`
}

// Submit sends one contribution action to the contract.
// Transient failures (network, timeout, 5xx, 429) are retryable by the caller;
// gateway refusals (other 4xx) are terminal and must not be retried
func (c *Client) Submit(ctx context.Context, act contribution.Action) (TxRef, error) {
	req := invokeRequest{
		Type:            "INVOKE_FUNCTION",
		ContractAddress: c.opts.ContractAddress,
		AccountAddress:  c.opts.AccountAddress,
	}

	switch a := act.(type) {
	case contribution.Create:
		req.EntryPoint = "new_contribution"
		req.Calldata = []string{
			string(a.Contribution.ID),
			fmt.Sprintf("%d", a.Contribution.ProjectID),
			fmt.Sprintf("%d", a.Contribution.IssueNumber),
		}
	case contribution.Assign:
		req.EntryPoint = "assign_contributor"
		req.Calldata = []string{string(a.ID), string(a.Contributor)}
	case contribution.Unassign:
		req.EntryPoint = "unassign_contributor"
		req.Calldata = []string{string(a.ID)}
	case contribution.Validate:
		req.EntryPoint = "validate_contribution"
		req.Calldata = []string{string(a.ID)}
	default:
		return "", perr.Internalf("ledger: unhandled action kind %s", act.Kind())
	}

	return c.invoke(ctx, req)
}

// StatusUpdate carries a work item status for the sync pipeline
type StatusUpdate struct {
	ProjectID  int64
	WorkItemID int64
	Author     string
	Status     string
}

// LogStatus records a work item status update on the contract
func (c *Client) LogStatus(ctx context.Context, su StatusUpdate) (TxRef, error) {
	return c.invoke(ctx, invokeRequest{
		Type:            "INVOKE_FUNCTION",
		ContractAddress: c.opts.ContractAddress,
		AccountAddress:  c.opts.AccountAddress,
		EntryPoint:      "log_work_item_status",
		Calldata: []string{
			fmt.Sprintf("%d", su.ProjectID),
			fmt.Sprintf("%d", su.WorkItemID),
			su.Author,
			su.Status,
		},
	})
}

func (c *Client) invoke(ctx context.Context, in invokeRequest) (TxRef, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "ledger marshal invoke")
	}

	url := c.opts.GatewayURL + "/gateway/add_transaction"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "ledger new request")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		// network or timeout; outcome unknown, caller may retry
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "ledger gateway unreachable")
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("entry_point", in.EntryPoint).Msg("ledger close body failed")
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "ledger read response")
	}

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return "", perr.Unavailablef("ledger gateway %d: %s", resp.StatusCode, snippet(raw))
	case resp.StatusCode >= 400:
		return "", perr.LedgerRejectedf("ledger rejected %s: %s", in.EntryPoint, snippet(raw))
	}

	var out invokeResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "ledger decode response")
	}
	if out.TransactionHash == "" {
		return "", perr.LedgerRejectedf("ledger accepted without transaction hash: %s", out.Message)
	}

	c.log.Debug().
		Str("entry_point", in.EntryPoint).
		Str("tx", out.TransactionHash).
		Dur("elapsed", time.Since(start)).
		Msg("ledger invoke accepted")
	return TxRef(out.TransactionHash), nil
}

func snippet(b []byte) string {
	const max = 256
	if len(b) > max {
		b = b[:max]
	}
	return string(b)
}

// IsTransient reports whether the caller may retry the same submission
func IsTransient(err error) bool { return perr.IsCode(err, perr.ErrorCodeUnavailable) }

// IsRejected reports whether the ledger refused the transition permanently
func IsRejected(err error) bool { return perr.IsCode(err, perr.ErrorCodeLedgerRejected) }
