package ethereum

import (
	"crypto/ecdsa"
	"errors"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"
)

var errInvalidSecret = errors.New("secret is neither a valid BIP-39 mnemonic nor a hex private key")

func newMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(128)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

// keyFromSecret accepts a mnemonic or a 32-byte hex private key, with or without 0x.
func keyFromSecret(secret string) (*ecdsa.PrivateKey, error) {
	normalized := strings.Join(strings.Fields(strings.ToLower(secret)), " ")
	if bip39.IsMnemonicValid(normalized) {
		return deriveKey(normalized)
	}

	hexKey := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(secret), "0x"), "0X")
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, errInvalidSecret
	}
	return key, nil
}

// deriveKey walks m/44'/60'/0'/0/0.
func deriveKey(mnemonic string) (*ecdsa.PrivateKey, error) {
	seed := bip39.NewSeed(mnemonic, "")
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, err
	}

	for _, i := range []uint32{
		hdkeychain.HardenedKeyStart + 44,
		hdkeychain.HardenedKeyStart + 60,
		hdkeychain.HardenedKeyStart + 0,
		0,
		0,
	} {
		if key, err = key.Derive(i); err != nil {
			return nil, err
		}
	}

	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, err
	}
	return crypto.ToECDSA(priv.Serialize())
}

func addressOf(key *ecdsa.PrivateKey) common.Address {
	return crypto.PubkeyToAddress(key.PublicKey)
}
