package keystore_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sandcastle-labs/sandcastle/client/modules/keystore"
	"github.com/sandcastle-labs/sandcastle/client/modules/logger"
	"github.com/sandcastle-labs/sandcastle/client/modules/state"
	"github.com/sandcastle-labs/sandcastle/client/types"
)

func testRegistry(t *testing.T, dbPath string) (*keystore.BaseRegistry, state.State) {
	stg, err := state.NewLevelDBState(dbPath)
	require.NoError(t, err)

	registry, err := keystore.NewRegistry(stg, logger.NewLogger("test"))
	require.NoError(t, err)

	return registry, stg
}

func TestRegistry_SeedsCanonicalAccounts(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/sandcastle_test_registry_seed"
	)
	defer os.RemoveAll(dbPath)

	registry, stg := testRegistry(t, dbPath)

	accounts, err := registry.GetAccounts()
	req.NoError(err)
	req.Len(accounts, 3)
	req.Equal("Alice", accounts[0].Name)
	req.Equal("Bob", accounts[1].Name)
	req.Equal("Charles", accounts[2].Name)
	for _, account := range accounts {
		req.NotEmpty(account.PrivKey)
		req.NotEmpty(account.PubKey)
	}

	// Opening the registry again over the same storage must not re-seed.
	again, err := keystore.NewRegistry(stg, logger.NewLogger("test"))
	req.NoError(err)

	accountsAgain, err := again.GetAccounts()
	req.NoError(err)
	req.Equal(accounts, accountsAgain)
}

func TestRegistry_CreateAccount(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/sandcastle_test_registry_create"
	)
	defer os.RemoveAll(dbPath)

	registry, _ := testRegistry(t, dbPath)

	account, err := registry.CreateAccount("Dave")
	req.NoError(err)
	req.Equal("Dave", account.Name)

	accounts, err := registry.GetAccounts()
	req.NoError(err)
	req.Len(accounts, 4)
	req.Equal(*account, accounts[3])

	found, err := registry.GetAccountByPubKey(account.PubKey)
	req.NoError(err)
	req.Equal(account, found)

	_, err = registry.GetAccountByPubKey("0xunknown")
	req.Error(err)
}

func TestRegistry_DeploymentKeyRoundTrip(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/sandcastle_test_registry_deploykey"
	)
	defer os.RemoveAll(dbPath)

	registry, _ := testRegistry(t, dbPath)

	key, err := registry.GetDeploymentKey()
	req.NoError(err)
	req.Empty(key)

	req.NoError(registry.StoreDeploymentKey("0xdeadbeef"))

	key, err = registry.GetDeploymentKey()
	req.NoError(err)
	req.Equal("0xdeadbeef", key)
}

func TestRegistry_CorruptedAccounts(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/sandcastle_test_registry_corrupt"
	)
	defer os.RemoveAll(dbPath)

	registry, stg := testRegistry(t, dbPath)

	req.NoError(stg.Set("accounts", []byte(`{not json`)))

	_, err := registry.GetAccounts()
	req.ErrorIs(err, types.ErrCorruptedState)
}
