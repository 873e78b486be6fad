package file_journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/juju/fslock"

	"github.com/sandcastle-labs/sandcastle/journal"
)

var _ journal.Journal = (*FileJournal)(nil)

const defaultLockFile = "/tmp/sandcastle_journal_lock"

// FileJournal keeps entries as JSON lines in a single append-only file.
// A file lock serializes writers across processes sharing the file.
type FileJournal struct {
	lockFile *fslock.Lock
	dataFile *os.File
}

// NewFileJournal opens (or creates) an append-only journal file. The
// optional second argument overrides the lock file path.
func NewFileJournal(filename string, lockFilename ...string) (*FileJournal, error) {
	var (
		fj  FileJournal
		err error
	)
	if len(lockFilename) > 0 {
		fj.lockFile = fslock.New(lockFilename[0])
	} else {
		fj.lockFile = fslock.New(defaultLockFile)
	}

	if fj.dataFile, err = os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644); err != nil {
		return nil, fmt.Errorf("failed to open a journal file: %w", err)
	}
	return &fj, nil
}

func countLines(r io.Reader) uint64 {
	var count uint64
	fileScanner := bufio.NewScanner(r)

	for fileScanner.Scan() {
		count++
	}

	return count
}

func (fj *FileJournal) append(e journal.Entry) error {
	if err := fj.lockFile.Lock(); err != nil {
		return fmt.Errorf("failed to lock a journal file: %w", err)
	}
	defer fj.lockFile.Unlock()

	e.ID = uuid.New().String()
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	if _, err := fj.dataFile.Seek(0, 0); err != nil { // otherwise countLines will return zero
		return fmt.Errorf("failed to seek to the start of a journal file: %w", err)
	}
	e.Offset = countLines(fj.dataFile)

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal an entry %v: %w", e, err)
	}

	if _, err = fmt.Fprintln(fj.dataFile, string(data)); err != nil {
		return fmt.Errorf("failed to write an entry to a journal file: %w", err)
	}
	return nil
}

func (fj *FileJournal) Append(entries ...journal.Entry) error {
	for _, e := range entries {
		if err := fj.append(e); err != nil {
			return err
		}
	}
	return nil
}

// Entries returns every entry starting from the given offset, in append
// order.
func (fj *FileJournal) Entries(offset uint64) ([]journal.Entry, error) {
	if _, err := fj.dataFile.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("failed to seek to the start of a journal file: %w", err)
	}

	var entries []journal.Entry
	scanner := bufio.NewScanner(fj.dataFile)
	for scanner.Scan() {
		if offset > 0 {
			offset--
			continue
		}

		var e journal.Entry
		row := scanner.Bytes()
		if err := json.Unmarshal(row, &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal an entry %s: %w", string(row), err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read a journal file: %w", err)
	}
	return entries, nil
}

func (fj *FileJournal) Close() error {
	return fj.dataFile.Close()
}
