package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

type rpcResponse struct {
	Result string    `json:"result"`
	Error  *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type RPCClient struct {
	http *http.Client
}

func NewRPCClient(timeout time.Duration) *RPCClient {
	return &RPCClient{http: &http.Client{Timeout: timeout}}
}

// ChainID вызывает eth_chainId и возвращает id сети
func (c *RPCClient) ChainID(ctx context.Context, rpcURL string) (int64, error) {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", Method: "eth_chainId", Params: []interface{}{}, ID: 1})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rpcURL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build rpc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("rpc request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rpc returned status %d", resp.StatusCode)
	}

	var out rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("failed to decode rpc response: %w", err)
	}
	if out.Error != nil {
		return 0, fmt.Errorf("rpc error %d: %s", out.Error.Code, out.Error.Message)
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(out.Result, "0x"), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chain id %q: %w", out.Result, err)
	}
	return id, nil
}

// CheckNetwork сверяет id, который отдает RPC, с ожидаемым для сети
func (c *RPCClient) CheckNetwork(ctx context.Context, n Network) error {
	id, err := c.ChainID(ctx, n.RPCURL)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", n.Name, err)
	}
	if id != n.ID {
		return fmt.Errorf("rpc %s reports chain id %d, expected %d", n.RPCURL, id, n.ID)
	}
	return nil
}
