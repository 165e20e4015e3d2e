package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"multichain-wallet-gateway-go/internal/models"

	"gopkg.in/yaml.v2"
)

type ChainEntry struct {
	Symbol       string `yaml:"symbol"`
	Network      string `yaml:"network"`
	PrimeNetwork string `yaml:"prime_network"`
}

type ChainsFile struct {
	Chains []ChainEntry `yaml:"chains"`
}

var defaultPrimeNetworks = map[models.ChainID]string{
	models.ChainBTC:  "bitcoin-mainnet",
	models.ChainETH:  "ethereum-mainnet",
	models.ChainLTC:  "litecoin-mainnet",
	models.ChainDOGE: "dogecoin-mainnet",
}

// DefaultChains enables every supported chain on mainnet.
func DefaultChains() []models.ChainSettings {
	out := make([]models.ChainSettings, 0, 4)
	for _, id := range []models.ChainID{models.ChainBTC, models.ChainETH, models.ChainLTC, models.ChainDOGE} {
		out = append(out, models.ChainSettings{Chain: id, Network: "mainnet", PrimeNetwork: defaultPrimeNetworks[id]})
	}
	return out
}

// LoadChainConfig reads the enabled chains from a YAML file. A missing file
// yields DefaultChains.
func LoadChainConfig(chainsFile string) ([]models.ChainSettings, error) {
	var chainsPath string
	if filepath.IsAbs(chainsFile) {
		chainsPath = chainsFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		chainsPath = filepath.Join(wd, chainsFile)
	}

	data, err := os.ReadFile(chainsPath)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultChains(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", chainsFile, err)
	}

	return ParseChainConfig(data)
}

func ParseChainConfig(data []byte) ([]models.ChainSettings, error) {
	var file ChainsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unable to parse chains config: %w", err)
	}
	if len(file.Chains) == 0 {
		return nil, errors.New("chains config lists no chains")
	}

	seen := make(map[models.ChainID]bool)
	out := make([]models.ChainSettings, 0, len(file.Chains))
	for i, entry := range file.Chains {
		id := models.ChainID(strings.ToUpper(strings.TrimSpace(entry.Symbol)))
		if _, ok := defaultPrimeNetworks[id]; !ok {
			return nil, fmt.Errorf("chain at index %d has unsupported symbol %q", i, entry.Symbol)
		}
		if seen[id] {
			return nil, fmt.Errorf("chain %s listed more than once", id)
		}
		seen[id] = true

		network := strings.ToLower(entry.Network)
		if network == "" {
			network = "mainnet"
		}
		if network != "mainnet" && network != "testnet" {
			return nil, fmt.Errorf("chain %s has invalid network %q", id, entry.Network)
		}

		primeNetwork := entry.PrimeNetwork
		if primeNetwork == "" {
			primeNetwork = defaultPrimeNetworks[id]
		}

		out = append(out, models.ChainSettings{Chain: id, Network: network, PrimeNetwork: primeNetwork})
	}
	return out, nil
}

func chainNetworks(chains []models.ChainSettings) map[models.ChainID]string {
	networks := make(map[models.ChainID]string, len(chains))
	for _, c := range chains {
		networks[c.Chain] = c.PrimeNetwork
	}
	return networks
}
