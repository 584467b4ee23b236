package lightning

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/bolt-observer/nodectl/entities"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/golang/glog"
	"github.com/lightningnetwork/lnd/zpay32"
)

// ChainParams returns the chain parameters for a bitcoin network name
func ChainParams(network string) (*chaincfg.Params, error) {
	switch strings.ToLower(network) {
	case "", "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "mainnet", "bitcoin":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "simnet":
		return &chaincfg.SimNetParams, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	}

	return nil, classifyf(ErrConfiguration, "unknown network %q", network)
}

func decodeInvoice(node *entities.NodeDescriptor, invoice string) (*zpay32.Invoice, error) {
	params, err := ChainParams(node.GetNetwork())
	if err != nil {
		return nil, err
	}

	decoded, err := zpay32.Decode(invoice, params)
	if err != nil {
		return nil, fmt.Errorf("decode invoice: %w", err)
	}

	return decoded, nil
}

// overrideAmount returns the amount (in sats) to send along an invoice, zero means none.
// Invoices that cannot be decoded locally get the override so the node can decide.
func overrideAmount(node *entities.NodeDescriptor, invoice string, amount uint64) uint64 {
	if amount == 0 {
		return 0
	}

	decoded, err := decodeInvoice(node, invoice)
	if err != nil {
		glog.V(2).Infof("Could not decode invoice on %s: %v", node.Name, err)
		return amount
	}

	if decoded.MilliSat != nil && *decoded.MilliSat > 0 {
		glog.V(1).Infof("Ignoring amount %d for invoice with amount %v", amount, *decoded.MilliSat)
		return 0
	}

	return amount
}

// completeReceipt fills amount and destination the node did not report from the invoice itself
func completeReceipt(node *entities.NodeDescriptor, receipt *entities.PayReceipt, invoice string, amount uint64) {
	if receipt.Amount != "" && receipt.Amount != "0" && receipt.Destination != "" {
		return
	}

	decoded, err := decodeInvoice(node, invoice)
	if err != nil {
		if receipt.Amount == "" && amount > 0 {
			receipt.Amount = formatSats(amount)
		}
		return
	}

	if receipt.Amount == "" || receipt.Amount == "0" {
		if decoded.MilliSat != nil && *decoded.MilliSat > 0 {
			receipt.Amount = formatAmount(decoded.MilliSat.ToSatoshis())
		} else if amount > 0 {
			receipt.Amount = formatSats(amount)
		}
	}

	if receipt.Destination == "" && decoded.Destination != nil {
		receipt.Destination = hex.EncodeToString(decoded.Destination.SerializeCompressed())
	}
}
