package chain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"propchain/internal/config"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry(config.ChainConfig{})

	frontend := r.Frontend()
	if len(frontend) != 1 {
		t.Fatalf("expected 1 frontend network, but got %d", len(frontend))
	}
	core := frontend[0]
	if core.ID != 1114 || core.Name != "Core Testnet 2" {
		t.Errorf("unexpected frontend network %+v", core)
	}
	if core.RPCURL == "" || core.ExplorerURL == "" {
		t.Errorf("frontend network must have rpc and explorer urls: %+v", core)
	}

	deployment := r.Deployment()
	if len(deployment) != 2 {
		t.Fatalf("expected 2 deployment networks, but got %d", len(deployment))
	}
	for _, n := range deployment {
		if n.ExplorerAPIURL == "" {
			t.Errorf("deployment network %s has no explorer api url", n.Name)
		}
	}

	if len(r.All()) != 3 {
		t.Errorf("expected 3 networks, but got %d", len(r.All()))
	}
}

func TestLookup(t *testing.T) {
	r := NewRegistry(config.ChainConfig{})

	tests := []struct {
		name       string
		input      string
		expectedID int64
		expectErr  bool
	}{
		{name: "by_key", input: "baseSepolia", expectedID: BaseSepoliaID},
		{name: "by_key_case_insensitive", input: "ELECTRONEUM", expectedID: ElectroneumID},
		{name: "by_name", input: "Core Testnet 2", expectedID: CoreTestnet2ID},
		{name: "by_id", input: "84532", expectedID: BaseSepoliaID},
		{name: "unknown", input: "mainnet", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := r.Lookup(tt.input)
			if tt.expectErr {
				if err == nil {
					t.Errorf("expected error, but got network %+v", n)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n.ID != tt.expectedID {
				t.Errorf("expected id %d, but got %d", tt.expectedID, n.ID)
			}
		})
	}

	if _, err := r.ByID(1); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestRPCOverride(t *testing.T) {
	r := NewRegistry(config.ChainConfig{CoreTestnetRPC: "http://localhost:8545"})
	n, err := r.ByID(CoreTestnet2ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.RPCURL != "http://localhost:8545" {
		t.Errorf("expected overridden rpc, but got '%s'", n.RPCURL)
	}

	other, _ := r.ByID(BaseSepoliaID)
	if other.RPCURL != "https://sepolia.base.org" {
		t.Errorf("expected default rpc for base sepolia, but got '%s'", other.RPCURL)
	}
}

func TestChainID(t *testing.T) {
	tests := []struct {
		name          string
		response      string
		status        int
		expectedID    int64
		expectedError string
	}{
		{name: "core_testnet", response: `{"jsonrpc":"2.0","id":1,"result":"0x45a"}`, status: http.StatusOK, expectedID: 1114},
		{name: "rpc_error", response: `{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"method not found"}}`, status: http.StatusOK, expectedError: "rpc error -32601"},
		{name: "http_error", response: `oops`, status: http.StatusBadGateway, expectedError: "rpc returned status 502"},
		{name: "bad_result", response: `{"jsonrpc":"2.0","id":1,"result":"0xzz"}`, status: http.StatusOK, expectedError: "invalid chain id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var req rpcRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Method != "eth_chainId" {
					t.Errorf("unexpected rpc request: %+v, %v", req, err)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.response))
			}))
			defer srv.Close()

			client := NewRPCClient(5 * time.Second)
			id, err := client.ChainID(context.Background(), srv.URL)
			if tt.expectedError != "" {
				if err == nil || !strings.Contains(err.Error(), tt.expectedError) {
					t.Errorf("expected error containing '%s', but got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id != tt.expectedID {
				t.Errorf("expected chain id %d, but got %d", tt.expectedID, id)
			}
		})
	}
}

func TestCheckNetworkMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"0x1"}`))
	}))
	defer srv.Close()

	err := NewRPCClient(time.Second).CheckNetwork(context.Background(), Network{ID: CoreTestnet2ID, Name: "Core Testnet 2", RPCURL: srv.URL})
	if err == nil || !strings.Contains(err.Error(), "expected 1114") {
		t.Errorf("expected chain id mismatch error, but got %v", err)
	}
}
