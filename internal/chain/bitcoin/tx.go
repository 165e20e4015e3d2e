package bitcoin

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"sort"

	"multichain-wallet-gateway-go/internal/explorer"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

const (
	dustLimit      = 546
	txOverheadSize = 11
	p2wpkhInSize   = 68
	p2pkhInSize    = 148
	rbfSequence    = 0xfffffffd
)

var errInsufficientFunds = errors.New("insufficient confirmed funds")

// spend is a fully signed transaction ready for broadcast.
type spend struct {
	tx  *wire.MsgTx
	fee int64
}

func (s *spend) txid() string { return s.tx.TxHash().String() }

func (s *spend) hex() (string, error) {
	var buf bytes.Buffer
	if err := s.tx.Serialize(&buf); err != nil {
		return "", fmt.Errorf("failed to serialize transaction: %w", err)
	}
	return hex.EncodeToString(buf.Bytes()), nil
}

func (n *network) inputSize() int64 {
	if n.addrType == p2pkh {
		return p2pkhInSize
	}
	return p2wpkhInSize
}

func outputSize(pkScript []byte) int64 {
	return int64(8 + 1 + len(pkScript))
}

func estimateVSize(n *network, inputs int, outputs [][]byte) int64 {
	size := int64(txOverheadSize) + int64(inputs)*n.inputSize()
	for _, script := range outputs {
		size += outputSize(script)
	}
	return size
}

// selectUTXOs picks confirmed outputs largest first until amount plus fee is covered.
// It returns the chosen inputs, the fee, and the change (zero when below dust).
func selectUTXOs(n *network, utxos []explorer.UTXO, amount, feeRate int64, destScript, changeScript []byte) ([]explorer.UTXO, int64, int64, error) {
	confirmed := make([]explorer.UTXO, 0, len(utxos))
	for _, u := range utxos {
		if u.Status.Confirmed {
			confirmed = append(confirmed, u)
		}
	}
	sort.Slice(confirmed, func(i, j int) bool { return confirmed[i].Value > confirmed[j].Value })

	var total int64
	for i, u := range confirmed {
		total += u.Value
		inputs := confirmed[:i+1]

		feeWithChange := feeRate * estimateVSize(n, len(inputs), [][]byte{destScript, changeScript})
		if change := total - amount - feeWithChange; change >= dustLimit {
			return inputs, feeWithChange, change, nil
		}

		feeNoChange := feeRate * estimateVSize(n, len(inputs), [][]byte{destScript})
		if total-amount >= feeNoChange {
			return inputs, total - amount, 0, nil
		}
	}
	return nil, 0, 0, errInsufficientFunds
}

// buildSpend assembles and signs a transaction paying amount to dest with change back to from.
func buildSpend(n *network, key *btcec.PrivateKey, from, dest btcutil.Address, utxos []explorer.UTXO, amount, feeRate int64) (*spend, error) {
	fromScript, err := txscript.PayToAddrScript(from)
	if err != nil {
		return nil, fmt.Errorf("failed to create source script: %w", err)
	}
	destScript, err := txscript.PayToAddrScript(dest)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination script: %w", err)
	}

	inputs, fee, change, err := selectUTXOs(n, utxos, amount, feeRate, destScript, fromScript)
	if err != nil {
		return nil, err
	}

	tx := wire.NewMsgTx(wire.TxVersion)
	fetcher := txscript.NewMultiPrevOutFetcher(nil)
	for _, u := range inputs {
		hash, err := chainhash.NewHashFromStr(u.TxID)
		if err != nil {
			return nil, fmt.Errorf("invalid utxo txid %q: %w", u.TxID, err)
		}
		op := wire.NewOutPoint(hash, u.Vout)
		in := wire.NewTxIn(op, nil, nil)
		in.Sequence = rbfSequence
		tx.AddTxIn(in)
		fetcher.AddPrevOut(*op, wire.NewTxOut(u.Value, fromScript))
	}

	tx.AddTxOut(wire.NewTxOut(amount, destScript))
	if change > 0 {
		tx.AddTxOut(wire.NewTxOut(change, fromScript))
	}

	sigHashes := txscript.NewTxSigHashes(tx, fetcher)
	for i, u := range inputs {
		if n.addrType == p2pkh {
			sigScript, err := txscript.SignatureScript(tx, i, fromScript, txscript.SigHashAll, key, true)
			if err != nil {
				return nil, fmt.Errorf("failed to sign input %d: %w", i, err)
			}
			tx.TxIn[i].SignatureScript = sigScript
			continue
		}
		witness, err := txscript.WitnessSignature(tx, sigHashes, i, u.Value, fromScript, txscript.SigHashAll, key, true)
		if err != nil {
			return nil, fmt.Errorf("failed to sign input %d: %w", i, err)
		}
		tx.TxIn[i].Witness = witness
	}

	return &spend{tx: tx, fee: fee}, nil
}

// feeRateFromEstimates picks the 6-block target, then faster ones, rounding up to whole sat/vB.
func feeRateFromEstimates(estimates map[string]float64, fallback int64) int64 {
	for _, target := range []string{"6", "3", "2", "1"} {
		if rate, ok := estimates[target]; ok && rate > 0 {
			return int64(math.Ceil(rate))
		}
	}
	return fallback
}
