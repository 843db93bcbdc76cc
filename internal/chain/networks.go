package chain

import (
	"fmt"
	"sort"
	"strings"

	"propchain/internal/config"
)

type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// Network описание EVM сети. ExplorerAPIURL заполнен только для сетей деплоя
type Network struct {
	ID             int64          `json:"id"`
	Key            string         `json:"key"`
	Name           string         `json:"name"`
	RPCURL         string         `json:"rpc_url"`
	ExplorerURL    string         `json:"explorer_url"`
	ExplorerAPIURL string         `json:"explorer_api_url,omitempty"`
	Currency       NativeCurrency `json:"native_currency"`
	Testnet        bool           `json:"testnet"`
	// Deployment сети используются только hardhat-скриптами, не фронтендом
	Deployment bool `json:"deployment"`
}

const (
	CoreTestnet2ID int64 = 1114
	BaseSepoliaID  int64 = 84532
	ElectroneumID  int64 = 52014
)

func defaultNetworks() []Network {
	return []Network{
		{
			ID:          CoreTestnet2ID,
			Key:         "coreTestnet2",
			Name:        "Core Testnet 2",
			RPCURL:      "https://rpc.test2.btcs.network",
			ExplorerURL: "https://scan.test2.btcs.network",
			Currency:    NativeCurrency{Name: "tCORE2", Symbol: "tCORE2", Decimals: 18},
			Testnet:     true,
		},
		{
			ID:             BaseSepoliaID,
			Key:            "baseSepolia",
			Name:           "Base Sepolia",
			RPCURL:         "https://sepolia.base.org",
			ExplorerURL:    "https://sepolia.basescan.org",
			ExplorerAPIURL: "https://api-sepolia.basescan.org/api",
			Currency:       NativeCurrency{Name: "Ether", Symbol: "ETH", Decimals: 18},
			Testnet:        true,
			Deployment:     true,
		},
		{
			ID:             ElectroneumID,
			Key:            "electroneum",
			Name:           "Electroneum",
			RPCURL:         "https://rpc.ankr.com/electroneum",
			ExplorerURL:    "https://blockexplorer.electroneum.com",
			ExplorerAPIURL: "https://blockexplorer.electroneum.com/api",
			Currency:       NativeCurrency{Name: "Electroneum", Symbol: "ETN", Decimals: 18},
			Deployment:     true,
		},
	}
}

type Registry struct {
	networks []Network
}

// NewRegistry собирает реестр сетей; непустые RPC из конфига заменяют дефолтные
func NewRegistry(cfg config.ChainConfig) *Registry {
	overrides := map[int64]string{
		CoreTestnet2ID: cfg.CoreTestnetRPC,
		BaseSepoliaID:  cfg.BaseSepoliaRPC,
		ElectroneumID:  cfg.ElectroneumRPC,
	}

	networks := defaultNetworks()
	for i := range networks {
		if rpc := overrides[networks[i].ID]; rpc != "" {
			networks[i].RPCURL = rpc
		}
	}
	sort.Slice(networks, func(i, j int) bool { return networks[i].ID < networks[j].ID })
	return &Registry{networks: networks}
}

func (r *Registry) All() []Network {
	out := make([]Network, len(r.networks))
	copy(out, r.networks)
	return out
}

// Frontend сети, которые подключает кошелек на фронтенде
func (r *Registry) Frontend() []Network {
	var out []Network
	for _, n := range r.networks {
		if !n.Deployment {
			out = append(out, n)
		}
	}
	return out
}

func (r *Registry) Deployment() []Network {
	var out []Network
	for _, n := range r.networks {
		if n.Deployment {
			out = append(out, n)
		}
	}
	return out
}

func (r *Registry) ByID(id int64) (Network, error) {
	for _, n := range r.networks {
		if n.ID == id {
			return n, nil
		}
	}
	return Network{}, fmt.Errorf("unknown network id: %d", id)
}

// Lookup ищет сеть по ключу или имени без учета регистра, либо по числовому id
func (r *Registry) Lookup(nameOrID string) (Network, error) {
	needle := strings.TrimSpace(nameOrID)
	for _, n := range r.networks {
		if strings.EqualFold(n.Key, needle) || strings.EqualFold(n.Name, needle) || fmt.Sprint(n.ID) == needle {
			return n, nil
		}
	}
	return Network{}, fmt.Errorf("unknown network: %q", nameOrID)
}
