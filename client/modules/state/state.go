package state

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
)

// State is the node's durable key-value storage. It is an injected
// dependency: opened once at process start and passed into every module
// that persists anything.
type State interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Reset(stateDbPath string) (string, error)
}

type LevelDBState struct {
	sync.Mutex
	stateDb     *leveldb.DB
	stateDbPath string
}

func NewLevelDBState(stateDbPath string) (*LevelDBState, error) {
	db, err := leveldb.OpenFile(stateDbPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open stateDB: %w", err)
	}

	return &LevelDBState{
		stateDb:     db,
		stateDbPath: stateDbPath,
	}, nil
}

// Reset opens a fresh underlying leveldb storage and leaves the old one
// behind for inspection.
func (s *LevelDBState) Reset(stateDbPath string) (string, error) {
	s.Lock()
	defer s.Unlock()

	if len(stateDbPath) < 1 {
		stateDbPath = fmt.Sprintf("%s_%d", s.stateDbPath, time.Now().Unix())
	}

	newState, err := NewLevelDBState(stateDbPath)
	if err != nil {
		return stateDbPath, fmt.Errorf("failed to open stateDB: %w", err)
	}
	s.stateDb = newState.stateDb
	s.stateDbPath = stateDbPath

	return stateDbPath, nil
}

// Get returns nil without an error when the key is absent.
func (s *LevelDBState) Get(key string) ([]byte, error) {
	s.Lock()
	defer s.Unlock()

	value, err := s.stateDb.Get([]byte(key), nil)
	if err != nil && !errors.Is(err, leveldb.ErrNotFound) {
		return nil, fmt.Errorf("failed to get value with key {%s} from leveldb storage: %w", key, err)
	}
	return value, nil
}

func (s *LevelDBState) Set(key string, value []byte) error {
	s.Lock()
	defer s.Unlock()

	if err := s.stateDb.Put([]byte(key), value, nil); err != nil {
		return fmt.Errorf("failed to save value with key %s: %w", key, err)
	}
	return nil
}

func (s *LevelDBState) Delete(key string) error {
	s.Lock()
	defer s.Unlock()

	err := s.stateDb.Delete([]byte(key), nil)
	if err != nil && !errors.Is(err, leveldb.ErrNotFound) {
		return fmt.Errorf("failed to delete value with key {%s}: %w", key, err)
	}
	return nil
}

func MakeCompositeKey(prefix, key string) string {
	return fmt.Sprintf("%s_%s", prefix, key)
}
