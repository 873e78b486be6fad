package state_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sandcastle-labs/sandcastle/client/modules/state"
)

func TestLevelDBState_SetGet(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/sandcastle_test_SetGet"
	)
	defer os.RemoveAll(dbPath)

	stg, err := state.NewLevelDBState(dbPath)
	req.NoError(err)

	err = stg.Set("proposals", []byte(`[]`))
	req.NoError(err)

	value, err := stg.Get("proposals")
	req.NoError(err)
	req.Equal([]byte(`[]`), value)

	missing, err := stg.Get("missing_key")
	req.NoError(err)
	req.Nil(missing)
}

func TestLevelDBState_Delete(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/sandcastle_test_Delete"
	)
	defer os.RemoveAll(dbPath)

	stg, err := state.NewLevelDBState(dbPath)
	req.NoError(err)

	req.NoError(stg.Set("accounts", []byte(`[]`)))
	req.NoError(stg.Delete("accounts"))

	value, err := stg.Get("accounts")
	req.NoError(err)
	req.Nil(value)

	// Deleting an absent key is not an error.
	req.NoError(stg.Delete("accounts"))
}

func TestLevelDBState_Reset(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/sandcastle_test_Reset"
	)
	defer os.RemoveAll(dbPath)

	stg, err := state.NewLevelDBState(dbPath)
	req.NoError(err)
	req.NoError(stg.Set("proposals", []byte(`corrupted`)))

	newPath, err := stg.Reset("")
	req.NoError(err)
	req.NotEqual(dbPath, newPath)
	defer os.RemoveAll(newPath)

	value, err := stg.Get("proposals")
	req.NoError(err)
	req.Nil(value)
}
