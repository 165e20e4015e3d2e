package bitcoin

import (
	"errors"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/tyler-smith/go-bip39"
)

// Key parsing errors never carry the offending input.
var (
	errInvalidSecret = errors.New("secret is neither a valid BIP-39 mnemonic nor a WIF private key")
	errWrongNetwork  = errors.New("WIF private key belongs to a different network")
)

// newMnemonic returns a fresh 12-word BIP-39 mnemonic.
func newMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(128)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

// keyFromSecret accepts a mnemonic or a WIF key and returns the spending key.
func (n *network) keyFromSecret(secret string) (*btcec.PrivateKey, error) {
	secret = strings.TrimSpace(secret)

	if bip39.IsMnemonicValid(normalizeMnemonic(secret)) {
		return n.deriveKey(normalizeMnemonic(secret))
	}

	wif, err := btcutil.DecodeWIF(secret)
	if err != nil {
		return nil, errInvalidSecret
	}
	if !wif.IsForNet(n.params) {
		return nil, errWrongNetwork
	}
	return wif.PrivKey, nil
}

// deriveKey walks m/purpose'/coin'/0'/0/0.
func (n *network) deriveKey(mnemonic string) (*btcec.PrivateKey, error) {
	seed := bip39.NewSeed(mnemonic, "")
	key, err := hdkeychain.NewMaster(seed, n.params)
	if err != nil {
		return nil, err
	}

	path := []uint32{
		hdkeychain.HardenedKeyStart + n.purpose,
		hdkeychain.HardenedKeyStart + n.coinType,
		hdkeychain.HardenedKeyStart + 0,
		0,
		0,
	}
	for _, i := range path {
		if key, err = key.Derive(i); err != nil {
			return nil, err
		}
	}
	return key.ECPrivKey()
}

// address returns the receive address for key under the network's script type.
func (n *network) address(key *btcec.PrivateKey) (btcutil.Address, error) {
	hash := btcutil.Hash160(key.PubKey().SerializeCompressed())
	if n.addrType == p2pkh {
		return btcutil.NewAddressPubKeyHash(hash, n.params)
	}
	return btcutil.NewAddressWitnessPubKeyHash(hash, n.params)
}

func normalizeMnemonic(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
