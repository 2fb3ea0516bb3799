package main

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

type KeygenCommand struct{}

func (c *KeygenCommand) Name() string {
	return "keygen"
}

func (c *KeygenCommand) Description() string {
	return "Generate a claim signer key and print its address"
}

func (c *KeygenCommand) Run(args []string) error {
	key, err := crypto.GenerateKey()
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}

	PrintWarning("Store the private key in a secret manager; it is printed once.")
	fmt.Printf("CLAIM_SIGNER_KEY=%s\n", hex.EncodeToString(crypto.FromECDSA(key)))
	fmt.Printf("signer address:  %s\n", crypto.PubkeyToAddress(key.PublicKey).Hex())
	PrintInfo("Register the signer address as the trusted signer on the claim contract.")
	return nil
}
