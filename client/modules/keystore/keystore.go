package keystore

import (
	"crypto/sha512"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/pbkdf2"

	"github.com/sandcastle-labs/sandcastle/client/modules/logger"
	"github.com/sandcastle-labs/sandcastle/client/modules/state"
	"github.com/sandcastle-labs/sandcastle/client/types"
	"github.com/sandcastle-labs/sandcastle/signer"
)

const (
	accountsKey  = "accounts"
	baseSeedKey  = "base_seed"
	deployKeyKey = "deploy_key"

	mnemonicSalt = "mnemonic"
	seedSize     = 64
)

// Canonical accounts seeded into an empty registry, in slot order.
var seedAccountNames = []string{"Alice", "Bob", "Charles"}

// Registry holds the fixed set of co-signer key pairs for the local
// node. Accounts are append-only: created once, never removed.
type Registry interface {
	GetAccounts() ([]types.Account, error)
	GetAccountByPubKey(pubKey string) (*types.Account, error)
	CreateAccount(name string) (*types.Account, error)
	GetDeploymentKey() (string, error)
	StoreDeploymentKey(keyHex string) error
	SetBaseSeed(mnemonic string) error
}

// BaseRegistry keeps co-signer keys in the injected state storage. Keys
// are derived from a bip39 base seed, so the whole registry can be
// reconstructed from its mnemonic.
type BaseRegistry struct {
	sync.Mutex
	state  state.State
	logger logger.Logger
}

// NewRegistry opens the registry and, when the storage is empty, seeds
// the base seed and the three canonical accounts. Seeding is idempotent:
// it runs at most once per storage lifetime.
func NewRegistry(stg state.State, log logger.Logger) (*BaseRegistry, error) {
	r := &BaseRegistry{
		state:  stg,
		logger: log,
	}

	if err := r.ensureBaseSeed(); err != nil {
		return nil, fmt.Errorf("failed to init base seed: %w", err)
	}

	if err := r.ensureSeedAccounts(); err != nil {
		return nil, fmt.Errorf("failed to seed accounts: %w", err)
	}

	return r, nil
}

func (r *BaseRegistry) ensureBaseSeed() error {
	seed, err := r.state.Get(baseSeedKey)
	if err != nil {
		return fmt.Errorf("failed to read base seed: %w", err)
	}
	if seed != nil {
		return nil
	}

	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return fmt.Errorf("failed to generate bip39 entropy: %w", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return fmt.Errorf("failed to generate new mnemonic from entropy: %w", err)
	}

	seed = pbkdf2.Key([]byte(mnemonic), []byte(mnemonicSalt), 2048, seedSize, sha512.New)
	if err := r.state.Set(baseSeedKey, seed); err != nil {
		return fmt.Errorf("failed to store base seed: %w", err)
	}

	r.logger.Log("Registry seed not initialized, made a new one")
	r.logger.Log("Write down your mnemonic: %s", mnemonic)

	return nil
}

// SetBaseSeed replaces the base seed with one recovered from a mnemonic.
// Existing accounts are left untouched; only keys derived afterwards use
// the new seed.
func (r *BaseRegistry) SetBaseSeed(mnemonic string) error {
	r.Lock()
	defer r.Unlock()

	if _, err := bip39.EntropyFromMnemonic(mnemonic); err != nil {
		return fmt.Errorf("failed to validate mnemonic: %w", err)
	}

	seed := pbkdf2.Key([]byte(mnemonic), []byte(mnemonicSalt), 2048, seedSize, sha512.New)
	if err := r.state.Set(baseSeedKey, seed); err != nil {
		return fmt.Errorf("failed to store base seed: %w", err)
	}

	return nil
}

func (r *BaseRegistry) ensureSeedAccounts() error {
	r.Lock()
	defer r.Unlock()

	bz, err := r.state.Get(accountsKey)
	if err != nil {
		return fmt.Errorf("failed to read accounts: %w", err)
	}
	if bz != nil {
		return nil
	}

	accounts := make([]types.Account, 0, len(seedAccountNames))
	for i, name := range seedAccountNames {
		account, err := r.deriveAccount(name, i)
		if err != nil {
			return err
		}
		accounts = append(accounts, *account)
	}

	if err := r.saveAccounts(accounts); err != nil {
		return err
	}

	r.logger.Log("Seeded %d canonical accounts", len(accounts))

	return nil
}

func (r *BaseRegistry) deriveAccount(name string, index int) (*types.Account, error) {
	seed, err := r.state.Get(baseSeedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read base seed: %w", err)
	}
	if seed == nil {
		return nil, fmt.Errorf("base seed is not initialized")
	}

	var indexBz [8]byte
	binary.BigEndian.PutUint64(indexBz[:], uint64(index))

	keyPair := signer.NewKeyPairFromSeed(append(append([]byte{}, seed...), indexBz[:]...))

	return &types.Account{
		Name:    name,
		PrivKey: keyPair.PrivHex(),
		PubKey:  keyPair.PubHex(),
	}, nil
}

// GetAccounts returns all accounts in creation order. This order defines
// the signature slot order on every proposal.
func (r *BaseRegistry) GetAccounts() ([]types.Account, error) {
	r.Lock()
	defer r.Unlock()

	return r.loadAccounts()
}

func (r *BaseRegistry) GetAccountByPubKey(pubKey string) (*types.Account, error) {
	r.Lock()
	defer r.Unlock()

	accounts, err := r.loadAccounts()
	if err != nil {
		return nil, err
	}

	for i := range accounts {
		if accounts[i].PubKey == pubKey {
			return &accounts[i], nil
		}
	}
	return nil, fmt.Errorf("no account found for pubkey %s", pubKey)
}

// CreateAccount generates a fresh key pair, appends the account and
// persists the full updated set.
func (r *BaseRegistry) CreateAccount(name string) (*types.Account, error) {
	r.Lock()
	defer r.Unlock()

	accounts, err := r.loadAccounts()
	if err != nil {
		return nil, err
	}

	account, err := r.deriveAccount(name, len(accounts))
	if err != nil {
		return nil, err
	}

	accounts = append(accounts, *account)
	if err := r.saveAccounts(accounts); err != nil {
		return nil, err
	}

	return account, nil
}

// GetDeploymentKey returns the stored multisig deployment key, or an
// empty string when the multisig account has not been created yet.
func (r *BaseRegistry) GetDeploymentKey() (string, error) {
	bz, err := r.state.Get(deployKeyKey)
	if err != nil {
		return "", fmt.Errorf("failed to read deployment key: %w", err)
	}
	return string(bz), nil
}

func (r *BaseRegistry) StoreDeploymentKey(keyHex string) error {
	if err := r.state.Set(deployKeyKey, []byte(keyHex)); err != nil {
		return fmt.Errorf("failed to store deployment key: %w", err)
	}
	return nil
}

func (r *BaseRegistry) loadAccounts() ([]types.Account, error) {
	bz, err := r.state.Get(accountsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}
	if bz == nil {
		return nil, nil
	}

	var accounts []types.Account
	if err := json.Unmarshal(bz, &accounts); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal accounts: %v", types.ErrCorruptedState, err)
	}
	return accounts, nil
}

func (r *BaseRegistry) saveAccounts(accounts []types.Account) error {
	bz, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("failed to marshal accounts: %w", err)
	}
	if err := r.state.Set(accountsKey, bz); err != nil {
		return fmt.Errorf("failed to save accounts: %w", err)
	}
	return nil
}
