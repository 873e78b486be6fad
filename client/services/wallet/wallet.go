package wallet

import (
	"context"
	"fmt"
	"sync"

	"lukechampine.com/frand"

	"github.com/sandcastle-labs/sandcastle/client/modules/keystore"
	"github.com/sandcastle-labs/sandcastle/client/modules/logger"
	"github.com/sandcastle-labs/sandcastle/client/modules/state"
	"github.com/sandcastle-labs/sandcastle/ledger"
	"github.com/sandcastle-labs/sandcastle/signer"
)

const (
	multisigAddressKey = "multisig_address"
	tokenAddressKey    = "token_address"

	tokenName     = "Sandcastle Token"
	tokenSymbol   = "SAND"
	tokenDecimals = 18

	shieldSecretSize = 32
)

// WalletService owns the on-ledger contracts backing the proposal flow:
// the shared multisig account and the demo token. Both are deployed
// lazily and their addresses persisted, so every method is idempotent
// across restarts.
type WalletService interface {
	EnsureMultisig(ctx context.Context) (ledger.Address, error)
	EnsureToken(ctx context.Context) (ledger.Address, error)
	MintShielded(ctx context.Context, amount uint64) (*ledger.Receipt, error)
	GetBalance(ctx context.Context, owner ledger.Address) (uint64, error)
}

type BaseWalletService struct {
	sync.Mutex
	state        state.State
	registry     keystore.Registry
	ledgerClient ledger.Client
	logger       logger.Logger
}

func NewWalletService(
	stg state.State,
	registry keystore.Registry,
	ledgerClient ledger.Client,
	log logger.Logger,
) *BaseWalletService {
	return &BaseWalletService{
		state:        stg,
		registry:     registry,
		ledgerClient: ledgerClient,
		logger:       log,
	}
}

// EnsureMultisig returns the multisig account address, deploying the
// contract on first use. The absence of a stored deployment key means
// the account was never created; the key is persisted before use so a
// crash mid-deploy can re-derive the same address instead of deploying
// a second account.
func (s *BaseWalletService) EnsureMultisig(ctx context.Context) (ledger.Address, error) {
	s.Lock()
	defer s.Unlock()

	if addr, err := s.storedAddress(multisigAddressKey); err != nil || addr != "" {
		return addr, err
	}

	deployKey, err := s.registry.GetDeploymentKey()
	if err != nil {
		return "", fmt.Errorf("failed to get deployment key: %w", err)
	}
	if deployKey == "" {
		deployKey = signer.NewKeyPair().PrivHex()
		if err = s.registry.StoreDeploymentKey(deployKey); err != nil {
			return "", fmt.Errorf("failed to store deployment key: %w", err)
		}
		s.logger.Log("Generated a new multisig deployment key")
	}

	accounts, err := s.registry.GetAccounts()
	if err != nil {
		return "", fmt.Errorf("failed to get accounts: %w", err)
	}

	pubKeys := make([]string, 0, len(accounts))
	for _, account := range accounts {
		pubKeys = append(pubKeys, account.PubKey)
	}

	response, err := s.ledgerClient.DeployAccount(ctx, ledger.DeployAccountRequest{
		Variant:       ledger.VariantMultisig,
		SignerPubKeys: pubKeys,
		DeploymentKey: deployKey,
	})
	if err != nil {
		return "", fmt.Errorf("failed to deploy multisig account: %w", err)
	}

	if err = s.state.Set(multisigAddressKey, []byte(response.Address)); err != nil {
		return "", fmt.Errorf("failed to store multisig address: %w", err)
	}

	s.logger.Log("Deployed multisig account at %s with %d signers", response.Address, len(pubKeys))

	return response.Address, nil
}

// EnsureToken returns the demo token address, deploying the contract
// with the multisig account as admin on first use.
func (s *BaseWalletService) EnsureToken(ctx context.Context) (ledger.Address, error) {
	admin, err := s.EnsureMultisig(ctx)
	if err != nil {
		return "", err
	}

	s.Lock()
	defer s.Unlock()

	if addr, err := s.storedAddress(tokenAddressKey); err != nil || addr != "" {
		return addr, err
	}

	address, err := s.ledgerClient.DeployToken(ctx, ledger.DeployTokenRequest{
		Admin:    admin,
		Name:     tokenName,
		Symbol:   tokenSymbol,
		Decimals: tokenDecimals,
	})
	if err != nil {
		return "", fmt.Errorf("failed to deploy token: %w", err)
	}

	if err = s.state.Set(tokenAddressKey, []byte(address)); err != nil {
		return "", fmt.Errorf("failed to store token address: %w", err)
	}

	s.logger.Log("Deployed token %s at %s", tokenSymbol, address)

	return address, nil
}

// MintShielded funds the multisig account: mint a shielded amount
// committed to a fresh random secret, then immediately redeem it into
// the multisig's private balance.
func (s *BaseWalletService) MintShielded(ctx context.Context, amount uint64) (*ledger.Receipt, error) {
	token, err := s.EnsureToken(ctx)
	if err != nil {
		return nil, err
	}

	multisig, err := s.EnsureMultisig(ctx)
	if err != nil {
		return nil, err
	}

	secret := frand.Bytes(shieldSecretSize)

	if _, err = s.ledgerClient.MintPrivate(ctx, ledger.MintPrivateRequest{
		Token:      token,
		Amount:     amount,
		SecretHash: signer.ComputeSecretHash(secret),
	}); err != nil {
		return nil, fmt.Errorf("failed to mint: %w", err)
	}

	receipt, err := s.ledgerClient.RedeemShield(ctx, ledger.RedeemShieldRequest{
		Token:  token,
		To:     multisig,
		Amount: amount,
		Secret: fmt.Sprintf("0x%x", secret),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to redeem shield: %w", err)
	}

	s.logger.Log("Minted %d %s into the multisig account", amount, tokenSymbol)

	return receipt, nil
}

func (s *BaseWalletService) GetBalance(ctx context.Context, owner ledger.Address) (uint64, error) {
	token, err := s.EnsureToken(ctx)
	if err != nil {
		return 0, err
	}

	balance, err := s.ledgerClient.ViewBalance(ctx, ledger.ViewBalanceRequest{
		Token: token,
		Owner: owner,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to view balance of %s: %w", owner, err)
	}
	return balance, nil
}

func (s *BaseWalletService) storedAddress(key string) (ledger.Address, error) {
	bz, err := s.state.Get(key)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return ledger.Address(bz), nil
}
