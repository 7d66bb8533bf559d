package ledger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	thrown "github.com/0chain/errors"
	zlogger "github.com/photomig/photomigration/logger"
	merror "github.com/photomig/photomigration/mErrors"
)

const formatVersion = 1

// State is the transfer state of a single media item.
type State string

const (
	StatePending    State = "pending"
	StateDownloaded State = "downloaded"
	StateUploaded   State = "uploaded"
	StateSkipped    State = "skipped"
	StateFailed     State = "failed"
)

func (s State) String() string {
	return string(s)
}

// Terminal reports whether the state marks the item as handled for good.
// Terminal states never regress except through ResetFailed.
func (s State) Terminal() bool {
	return s == StateUploaded || s == StateSkipped
}

// Record is the durable per-item entry, keyed by album path + file name.
type Record struct {
	State         State  `json:"state"`
	Error         string `json:"error,omitempty"`
	DestinationID string `json:"destination_id,omitempty"`
	Size          int64  `json:"size,omitempty"`
}

type document struct {
	Version int               `json:"version"`
	Records map[string]Record `json:"records"`
}

// Ledger is the single source of truth for which files have been handled.
// Every Upsert is flushed to disk before it returns, so a crash loses at most
// the in-flight item's final state. Single-writer by contract.
type Ledger struct {
	mu      sync.Mutex
	path    string
	records map[string]Record
}

// Open loads the ledger at path. A missing file yields an empty ledger; a
// corrupt or partial file is logged and treated as empty, never an error, so
// that an abnormal prior termination cannot block a re-run. Prior uploads are
// then rediscovered through destination listings.
func Open(path string) *Ledger {
	l := &Ledger{
		path:    path,
		records: make(map[string]Record),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			zlogger.Logger.Warnf("could not read state file %s, starting empty: %v", path, err)
		}
		return l
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		zlogger.Logger.Warnf("state file %s is corrupt, starting empty: %v", path, err)
		return l
	}

	if doc.Records != nil {
		l.records = doc.Records
	}
	zlogger.Logger.Infof("loaded state: %d records from %s", len(l.records), path)
	return l
}

// Get returns the record for key, if any.
func (l *Ledger) Get(key string) (Record, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[key]
	return rec, ok
}

// Upsert stores the record and flushes the ledger to disk. A record in a
// terminal state is never overwritten; callers retry Failed items through
// ResetFailed instead.
func (l *Ledger) Upsert(key string, rec Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if existing, ok := l.records[key]; ok && existing.State.Terminal() {
		return nil
	}

	l.records[key] = rec
	return l.flushLocked()
}

// Keys returns all ledger keys in sorted order.
func (l *Ledger) Keys() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	keys := make([]string, 0, len(l.records))
	for k := range l.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// ResetFailed moves every Failed record back to Pending and returns the
// affected keys. This is the only sanctioned state regression.
func (l *Ledger) ResetFailed() ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var keys []string
	for k, rec := range l.records {
		if rec.State == StateFailed {
			rec.State = StatePending
			rec.Error = ""
			l.records[k] = rec
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	if len(keys) == 0 {
		return nil, nil
	}
	return keys, l.flushLocked()
}

// Counts returns per-state record counts.
func (l *Ledger) Counts() (uploaded, skipped, failed, pending int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, rec := range l.records {
		switch rec.State {
		case StateUploaded:
			uploaded++
		case StateSkipped:
			skipped++
		case StateFailed:
			failed++
		default:
			pending++
		}
	}
	return
}

// flushLocked writes the whole document to a temp file and renames it over
// the target, so readers never observe a torn write.
func (l *Ledger) flushLocked() error {
	doc := document{
		Version: formatVersion,
		Records: l.records,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return thrown.Throw(merror.ErrStatePersistFailed, err.Error())
	}

	dir := filepath.Dir(l.path)
	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return thrown.Throw(merror.ErrStatePersistFailed, err.Error())
	}

	if _, err = tmp.Write(data); err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return thrown.Throw(merror.ErrStatePersistFailed, err.Error())
	}

	if err := os.Rename(tmp.Name(), l.path); err != nil {
		os.Remove(tmp.Name())
		return thrown.Throw(merror.ErrStatePersistFailed, err.Error())
	}
	return nil
}
