/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package bitcoin

import (
	"errors"
	"fmt"
	"sync"

	"multichain-wallet-gateway-go/internal/models"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
)

// Script type used for the receive address of a chain.
type addressType int

const (
	p2wpkh addressType = iota
	p2pkh
)

// network bundles everything needed to derive and spend for one chain/network pair.
type network struct {
	params   *chaincfg.Params
	purpose  uint32 // BIP-44 or BIP-84
	coinType uint32
	addrType addressType
}

var (
	litecoinMainNet = derivedParams(chaincfg.MainNetParams, "litecoin-mainnet", 0xdbb6c0fb, 0x30, 0x32, 0xb0, "ltc")
	litecoinTestNet = derivedParams(chaincfg.TestNet3Params, "litecoin-testnet", 0xfdd2c8f1, 0x6f, 0x3a, 0xef, "tltc")
	dogecoinMainNet = derivedParams(chaincfg.MainNetParams, "dogecoin-mainnet", 0xc0c0c0c0, 0x1e, 0x16, 0x9e, "")
	dogecoinTestNet = derivedParams(chaincfg.TestNet3Params, "dogecoin-testnet", 0xdcb7c1fc, 0x71, 0xc4, 0xf1, "")

	registerOnce sync.Once
	registerErr  error
)

func derivedParams(base chaincfg.Params, name string, net uint32, pkh, sh, wif byte, hrp string) *chaincfg.Params {
	p := base
	p.Name = name
	p.Net = wire.BitcoinNet(net)
	p.PubKeyHashAddrID = pkh
	p.ScriptHashAddrID = sh
	p.PrivateKeyID = wif
	p.Bech32HRPSegwit = hrp
	return &p
}

// registerParams makes the derived networks known to btcutil address decoding.
func registerParams() error {
	registerOnce.Do(func() {
		for _, p := range []*chaincfg.Params{litecoinMainNet, litecoinTestNet, dogecoinMainNet, dogecoinTestNet} {
			if err := chaincfg.Register(p); err != nil && !errors.Is(err, chaincfg.ErrDuplicateNet) {
				registerErr = fmt.Errorf("registering %s params: %w", p.Name, err)
				return
			}
		}
	})
	return registerErr
}

func networkFor(id models.ChainID, name string) (*network, error) {
	if err := registerParams(); err != nil {
		return nil, err
	}

	testnet := name == "testnet"
	if name != "mainnet" && !testnet {
		return nil, fmt.Errorf("unsupported network %q", name)
	}

	switch id {
	case models.ChainBTC:
		if testnet {
			return &network{params: &chaincfg.TestNet3Params, purpose: 84, coinType: 1, addrType: p2wpkh}, nil
		}
		return &network{params: &chaincfg.MainNetParams, purpose: 84, coinType: 0, addrType: p2wpkh}, nil
	case models.ChainLTC:
		if testnet {
			return &network{params: litecoinTestNet, purpose: 84, coinType: 1, addrType: p2wpkh}, nil
		}
		return &network{params: litecoinMainNet, purpose: 84, coinType: 2, addrType: p2wpkh}, nil
	case models.ChainDOGE:
		if testnet {
			return &network{params: dogecoinTestNet, purpose: 44, coinType: 1, addrType: p2pkh}, nil
		}
		return &network{params: dogecoinMainNet, purpose: 44, coinType: 3, addrType: p2pkh}, nil
	}
	return nil, fmt.Errorf("chain %s is not a bitcoin-family chain", id)
}
