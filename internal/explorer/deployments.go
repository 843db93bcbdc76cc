package explorer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"propchain/internal/model"
)

// Deployment один развёрнутый контракт из файла адресов
type Deployment struct {
	Name                 string `json:"-"`
	Address              string `json:"address"`
	Contract             string `json:"contract,omitempty"`
	ConstructorArguments string `json:"constructorArguments,omitempty"`
	SourceFile           string `json:"sourceFile,omitempty"`
	CompilerVersion      string `json:"compilerVersion,omitempty"`
}

// ContractName имя контракта для explorer: явное или ключ из файла
func (d Deployment) ContractName() string {
	if d.Contract != "" {
		return d.Contract
	}
	return d.Name
}

// LoadDeployments читает файл адресов. Относительные sourceFile
// разрешаются от каталога файла
func LoadDeployments(path string) ([]Deployment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deployments file: %w", err)
	}

	deployments, err := ParseDeployments(data)
	if err != nil {
		return nil, fmt.Errorf("invalid deployments file %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i := range deployments {
		if src := deployments[i].SourceFile; src != "" && !filepath.IsAbs(src) {
			deployments[i].SourceFile = filepath.Join(dir, src)
		}
	}
	return deployments, nil
}

// ParseDeployments разбирает объект имя -> адрес | {address, ...}.
// Результат отсортирован по имени
func ParseDeployments(data []byte) ([]Deployment, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse deployments: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("no deployments found")
	}

	deployments := make([]Deployment, 0, len(raw))
	for name, value := range raw {
		var d Deployment
		value = bytes.TrimSpace(value)
		if len(value) > 0 && value[0] == '"' {
			if err := json.Unmarshal(value, &d.Address); err != nil {
				return nil, fmt.Errorf("contract %s: %w", name, err)
			}
		} else if err := json.Unmarshal(value, &d); err != nil {
			return nil, fmt.Errorf("contract %s: expected address string or object: %w", name, err)
		}
		d.Name = name

		if !model.IsWalletAddress(d.Address) {
			return nil, fmt.Errorf("contract %s: invalid address %q", name, d.Address)
		}
		deployments = append(deployments, d)
	}

	sort.Slice(deployments, func(i, j int) bool { return deployments[i].Name < deployments[j].Name })
	return deployments, nil
}
