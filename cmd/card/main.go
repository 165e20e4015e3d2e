package main

import (
	"flag"
	"fmt"
	"os"

	"multichain-wallet-gateway-go/internal/card"
	"multichain-wallet-gateway-go/internal/common"
)

func main() {
	contract := flag.String("contract", "", "Smart contract address to derive the card number from")
	half := flag.String("half", string(card.FirstHalf), "Half of the address to use (first or second)")
	flag.Parse()

	if *contract == "" {
		fmt.Fprintln(os.Stderr, "-contract is required")
		flag.Usage()
		os.Exit(2)
	}

	h, err := card.ParseHalf(*half)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	common.PrintHeader("CARD NUMBER", common.DefaultWidth)
	fmt.Printf("%s Contract: %s\n", common.BoxPrefix(false), *contract)
	fmt.Printf("%s Half:     %s\n", common.BoxPrefix(false), h)
	fmt.Printf("%s Card:     %s\n", common.BoxPrefix(true), card.Derive(*contract, h))
	common.PrintFooter("Derived locally; no network access", common.DefaultWidth)
}
