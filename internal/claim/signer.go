package claim

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/Cleo-11/OceanX/internal/domain"
)

// Signer produces and checks claim signatures bound to one settlement
// contract on one chain
type Signer struct {
	key      *ecdsa.PrivateKey
	address  common.Address
	contract common.Address
	chainID  *uint256.Int
}

// NewSigner loads a hex secp256k1 key (0x prefix optional)
func NewSigner(privKeyHex, contract string, chainID int64) (*Signer, error) {
	pkHex := strings.TrimPrefix(strings.TrimSpace(privKeyHex), "0x")
	if pkHex == "" {
		return nil, fmt.Errorf("empty claim signer key")
	}
	key, err := ethcrypto.HexToECDSA(pkHex)
	if err != nil {
		return nil, fmt.Errorf("load claim signer key: %w", err)
	}
	if !common.IsHexAddress(contract) {
		return nil, fmt.Errorf("invalid claim contract address %q", contract)
	}
	if chainID <= 0 {
		return nil, fmt.Errorf("invalid chain id %d", chainID)
	}
	return &Signer{
		key:      key,
		address:  ethcrypto.PubkeyToAddress(key.PublicKey),
		contract: common.HexToAddress(contract),
		chainID:  uint256.NewInt(uint64(chainID)),
	}, nil
}

// Address is the signing identity the contract trusts
func (s *Signer) Address() common.Address {
	return s.address
}

// Digest is the EIP-191 personal-sign hash of
// keccak256(contract | chainId | wallet | amount | nonce | expiresAt), with
// addresses as 20 bytes and integers as 32-byte big-endian words
func (s *Signer) Digest(p domain.ClaimPayload) ([]byte, error) {
	if !common.IsHexAddress(p.Wallet) {
		return nil, fmt.Errorf("%w: wallet %q", domain.ErrInvalidInput, p.Wallet)
	}
	if p.Amount <= 0 || p.ExpiresAt <= 0 {
		return nil, fmt.Errorf("%w: amount and expiry must be positive", domain.ErrInvalidInput)
	}

	chainID := s.chainID.Bytes32()
	amount := uint256.NewInt(uint64(p.Amount)).Bytes32()
	nonce := uint256.NewInt(p.Nonce).Bytes32()
	expiresAt := uint256.NewInt(uint64(p.ExpiresAt)).Bytes32()

	hash := ethcrypto.Keccak256(
		s.contract.Bytes(),
		chainID[:],
		common.HexToAddress(p.Wallet).Bytes(),
		amount[:],
		nonce[:],
		expiresAt[:],
	)
	return accounts.TextHash(hash), nil
}

// Sign returns the 65-byte signature as 0x hex plus its v, r, s split.
// v is 27 or 28 as the contract's ecrecover expects.
func (s *Signer) Sign(p domain.ClaimPayload) (string, domain.SignatureParts, error) {
	digest, err := s.Digest(p)
	if err != nil {
		return "", domain.SignatureParts{}, err
	}
	sig, err := ethcrypto.Sign(digest, s.key)
	if err != nil {
		return "", domain.SignatureParts{}, fmt.Errorf("sign claim: %w", err)
	}
	sig[64] += 27
	return "0x" + hex.EncodeToString(sig), SplitSignature(sig), nil
}

// Recover returns the address that produced sigHex over p
func (s *Signer) Recover(p domain.ClaimPayload, sigHex string) (common.Address, error) {
	digest, err := s.Digest(p)
	if err != nil {
		return common.Address{}, err
	}
	sig, err := hex.DecodeString(strings.TrimPrefix(sigHex, "0x"))
	if err != nil || len(sig) != 65 {
		return common.Address{}, fmt.Errorf("%w: malformed signature", domain.ErrUnauthorizedSigner)
	}
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	pub, err := ethcrypto.SigToPub(digest, sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", domain.ErrUnauthorizedSigner, err)
	}
	return ethcrypto.PubkeyToAddress(*pub), nil
}

// SplitSignature splits a 65-byte [r | s | v] signature
func SplitSignature(sig []byte) domain.SignatureParts {
	return domain.SignatureParts{
		V: sig[64],
		R: "0x" + hex.EncodeToString(sig[:32]),
		S: "0x" + hex.EncodeToString(sig[32:64]),
	}
}

// ChainID returns the chain the signer is bound to
func (s *Signer) ChainID() *big.Int {
	return s.chainID.ToBig()
}

func decodeSignature(sigHex string) ([]byte, error) {
	sig, err := hex.DecodeString(strings.TrimPrefix(sigHex, "0x"))
	if err != nil || len(sig) != 65 {
		return nil, fmt.Errorf("stored signature is malformed")
	}
	return sig, nil
}
