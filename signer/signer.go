// Package signer wraps the Schnorr signature scheme used by the account
// contracts and defines the canonical transfer hash that co-signers sign.
package signer

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/corestario/kyber"
	"github.com/corestario/kyber/group/edwards25519"
	"github.com/corestario/kyber/sign/schnorr"
	"golang.org/x/crypto/sha3"
)

// SignatureSize is the length in bytes of a single co-signer signature.
// The witness assembler relies on signatures being fixed-size when it
// concatenates them into slot order.
const SignatureSize = 64

// transferDomainTag separates transfer hashes from any other signed
// payloads. The remote authorization check computes the same hash, so
// the encoding below must never change silently.
const transferDomainTag = "sandcastle.transfer.v1"

var suite = edwards25519.NewBlakeSHA256Ed25519()

type KeyPair struct {
	Priv kyber.Scalar
	Pub  kyber.Point
}

func NewKeyPair() *KeyPair {
	priv := suite.Scalar().Pick(suite.RandomStream())
	return &KeyPair{
		Priv: priv,
		Pub:  suite.Point().Mul(priv, nil),
	}
}

// NewKeyPairFromSeed derives a key pair deterministically, so a registry
// can be reconstructed from its base seed.
func NewKeyPairFromSeed(seed []byte) *KeyPair {
	priv := suite.Scalar().Pick(suite.XOF(seed))
	return &KeyPair{
		Priv: priv,
		Pub:  suite.Point().Mul(priv, nil),
	}
}

func (k *KeyPair) PrivHex() string {
	bz, err := k.Priv.MarshalBinary()
	if err != nil {
		panic(fmt.Sprintf("failed to marshal scalar: %v", err))
	}
	return encodeHex(bz)
}

func (k *KeyPair) PubHex() string {
	bz, err := k.Pub.MarshalBinary()
	if err != nil {
		panic(fmt.Sprintf("failed to marshal point: %v", err))
	}
	return encodeHex(bz)
}

// ComputeTransferHash returns the canonical message for a transfer
// action as a hex-encoded field element. The top bits are cleared so the
// value fits the contract's scalar field.
func ComputeTransferHash(amount uint64, recipient string, nonce uint64) string {
	payload := make([]byte, 0, len(transferDomainTag)+len(recipient)+16)
	payload = append(payload, transferDomainTag...)

	var num [8]byte
	binary.BigEndian.PutUint64(num[:], amount)
	payload = append(payload, num[:]...)

	payload = append(payload, recipient...)

	binary.BigEndian.PutUint64(num[:], nonce)
	payload = append(payload, num[:]...)

	digest := sha3.Sum256(payload)
	digest[0] &= 0x3f

	return encodeHex(digest[:])
}

// shieldDomainTag separates shield secret hashes from transfer hashes.
const shieldDomainTag = "sandcastle.shield.v1"

// ComputeSecretHash returns the commitment for a shield secret, in the
// same hex field-element form as the transfer hash. Minting commits to
// this value; redeeming reveals the secret.
func ComputeSecretHash(secret []byte) string {
	payload := make([]byte, 0, len(shieldDomainTag)+len(secret))
	payload = append(payload, shieldDomainTag...)
	payload = append(payload, secret...)

	digest := sha3.Sum256(payload)
	digest[0] &= 0x3f

	return encodeHex(digest[:])
}

// Sign produces a Schnorr signature of the canonical message with the
// given hex-encoded private key.
func Sign(privHex, message string) ([]byte, error) {
	priv, err := ScalarFromHex(privHex)
	if err != nil {
		return nil, fmt.Errorf("failed to decode private key: %w", err)
	}

	msg, err := decodeHex(message)
	if err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}

	return schnorr.Sign(suite, priv, msg)
}

// Verify checks a Schnorr signature of the canonical message against the
// given hex-encoded public key.
func Verify(pubHex, message string, signature []byte) error {
	pub, err := PointFromHex(pubHex)
	if err != nil {
		return fmt.Errorf("failed to decode public key: %w", err)
	}

	msg, err := decodeHex(message)
	if err != nil {
		return fmt.Errorf("failed to decode message: %w", err)
	}

	return schnorr.Verify(suite, pub, msg, signature)
}

func ScalarFromHex(s string) (kyber.Scalar, error) {
	bz, err := decodeHex(s)
	if err != nil {
		return nil, err
	}

	scalar := suite.Scalar()
	if err := scalar.UnmarshalBinary(bz); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scalar: %w", err)
	}
	return scalar, nil
}

func PointFromHex(s string) (kyber.Point, error) {
	bz, err := decodeHex(s)
	if err != nil {
		return nil, err
	}

	point := suite.Point()
	if err := point.UnmarshalBinary(bz); err != nil {
		return nil, fmt.Errorf("failed to unmarshal point: %w", err)
	}
	return point, nil
}

func encodeHex(bz []byte) string {
	return "0x" + hex.EncodeToString(bz)
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	bz, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode hex string: %w", err)
	}
	return bz, nil
}
