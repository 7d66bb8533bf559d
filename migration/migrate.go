package migration

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	thrown "github.com/0chain/errors"
	"github.com/google/uuid"

	"github.com/photomig/photomigration/ledger"
	zlogger "github.com/photomig/photomigration/logger"
	merror "github.com/photomig/photomigration/mErrors"
	"github.com/photomig/photomigration/staging"
	"github.com/photomig/photomigration/types"
	"github.com/photomig/photomigration/util"
)

// Engine drives one migration: it walks the source hierarchy, mirrors it as
// destination folders, and moves every item through the staging area exactly
// once. Strictly sequential; the ledger is single-writer and must not be
// shared with a concurrent engine.
type Engine struct {
	source types.MediaSource
	dest   types.MediaDestination
	ldg    *ledger.Ledger
	store  *staging.Store
	cfg    Config

	// path → destination folder id, memoized for the run
	folderIDs map[string]string
	// folder id → destination listing, fetched lazily on first miss
	listings map[string][]types.RemoteFile

	mu         sync.Mutex
	session    Session
	failedKeys []string
}

func NewEngine(source types.MediaSource, dest types.MediaDestination, ldg *ledger.Ledger, store *staging.Store, cfg Config) *Engine {
	return &Engine{
		source:    source,
		dest:      dest,
		ldg:       ldg,
		store:     store,
		cfg:       cfg,
		folderIDs: make(map[string]string),
		listings:  make(map[string][]types.RemoteFile),
		session:   Session{ID: uuid.New().String()},
	}
}

// Summary is the outcome of one Run or RetryFailed operation.
type Summary struct {
	Albums     int
	TotalItems int
	Migrated   int
	Skipped    int
	Failed     int
	FailedKeys []string
}

// Run migrates the selected albums. Only a listing failure, a root folder
// failure, or staging-space exhaustion aborts the run; per-item failures are
// recorded in the ledger and the run continues.
func (e *Engine) Run(ctx context.Context, selected []*types.Album) (*Summary, error) {
	e.resetCounters()
	return e.run(ctx, selected, nil)
}

// RetryFailed resets all Failed ledger records to Pending and re-attempts
// exactly those items. Already-uploaded items are never re-downloaded.
func (e *Engine) RetryFailed(ctx context.Context, selected []*types.Album) (*Summary, error) {
	keys, err := e.ldg.ResetFailed()
	if err != nil {
		zlogger.Logger.Warnf("could not persist retry reset: %v", err)
	}

	e.resetCounters()
	uploaded, skipped, _, _ := e.ldg.Counts()
	e.seedCounters(uploaded, skipped)

	if len(keys) == 0 {
		zlogger.Logger.Info("no failed items to retry")
		return e.currentSummary(0), nil
	}
	zlogger.Logger.Infof("retrying %d failed items", len(keys))

	only := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		only[k] = struct{}{}
	}

	return e.run(ctx, selected, only)
}

func (e *Engine) run(ctx context.Context, selected []*types.Album, only map[string]struct{}) (*Summary, error) {
	if err := ctx.Err(); err != nil {
		return e.currentSummary(0), thrown.Throw(merror.ErrOperationCancelledByUser, err.Error())
	}

	rootID, err := e.dest.EnsureFolder(ctx, "", e.cfg.RootFolder)
	if err != nil {
		return e.currentSummary(0), thrown.Throw(merror.ErrFolderCreateFailed, err.Error())
	}

	albums := 0
	for _, album := range selected {
		albums++
		if err := e.runAlbum(ctx, rootID, album, only); err != nil {
			return e.currentSummary(albums), err
		}
	}

	summary := e.currentSummary(albums)
	zlogger.Logger.Infof("run complete: migrated=%d skipped=%d failed=%d total=%d",
		summary.Migrated, summary.Skipped, summary.Failed, summary.TotalItems)
	return summary, nil
}

func (e *Engine) runAlbum(ctx context.Context, rootID string, album *types.Album, only map[string]struct{}) error {
	folderID, err := e.folderFor(ctx, rootID, album.Path)
	if err != nil {
		// fatal for this album only; its items are skipped and the run moves on
		zlogger.Logger.Errorf("could not create folder chain for album %s: %v", album.Name, err)
		return nil
	}

	items, err := e.source.ListItems(ctx, album)
	if err != nil {
		return thrown.Throw(merror.ErrListingFailed, err.Error())
	}

	zlogger.Logger.Infof("album %s: %d items", album.Name, len(items))
	e.addKnown(len(items))

	for _, item := range items {
		// cooperative stop point; the item in flight either completed or is
		// still Pending for the next run
		if err := ctx.Err(); err != nil {
			return thrown.Throw(merror.ErrOperationCancelledByUser, err.Error())
		}

		if only != nil {
			if _, ok := only[item.Key()]; !ok {
				continue
			}
		}

		e.setPointer(album.Name, item.FileName)

		if e.cfg.DryRun {
			state := "PENDING"
			if rec, ok := e.ldg.Get(item.Key()); ok && rec.State.Terminal() {
				state = "DONE"
			}
			fmt.Printf("  [%s] %s\n", state, item.Key())
			continue
		}

		if err := e.migrateItem(ctx, folderID, item); err != nil {
			return err
		}

		if e.cfg.ItemDelay > 0 {
			select {
			case <-time.After(e.cfg.ItemDelay):
			case <-ctx.Done():
			}
		}
	}

	return nil
}

// folderFor resolves the destination folder chain for an album path, creating
// folders as needed and memoizing every prefix.
func (e *Engine) folderFor(ctx context.Context, rootID string, path []string) (string, error) {
	parentID := rootID
	for i, part := range path {
		key := strings.Join(path[:i+1], "/")
		id, ok := e.folderIDs[key]
		if !ok {
			var err error
			id, err = e.dest.EnsureFolder(ctx, parentID, part)
			if err != nil {
				return "", err
			}
			e.folderIDs[key] = id
		}
		parentID = id
	}
	return parentID, nil
}

// migrateItem applies the per-item decision chain: ledger hit, destination
// duplicate, then transfer. Returns an error only for failures that must
// abort the whole run.
func (e *Engine) migrateItem(ctx context.Context, folderID string, item *types.MediaItem) error {
	key := item.Key()

	if rec, ok := e.ldg.Get(key); ok && rec.State.Terminal() {
		if rec.State == ledger.StateUploaded {
			e.note(outcomeMigrated, key)
		} else {
			e.note(outcomeSkipped, key)
		}
		return nil
	}

	if e.cfg.SkipExisting {
		remote, found, err := e.findExisting(ctx, folderID, item)
		if err != nil {
			zlogger.Logger.Warnf("could not list destination folder for %s: %v", key, err)
		} else if found {
			e.upsert(key, ledger.Record{State: ledger.StateSkipped, DestinationID: remote.ID, Size: item.Size})
			e.note(outcomeSkipped, key)
			zlogger.Logger.Infof("skipping %s: already present at destination", key)
			return nil
		}
	}

	destID, err := e.transfer(ctx, folderID, item)
	if err != nil {
		if staging.IsDiskFull(err) {
			return thrown.Throw(merror.ErrStagingSpaceExhausted, err.Error())
		}
		e.upsert(key, ledger.Record{State: ledger.StateFailed, Error: err.Error(), Size: item.Size})
		e.note(outcomeFailed, key)
		zlogger.Logger.Errorf("transfer failed for %s: %v", key, err)
		return nil
	}

	e.upsert(key, ledger.Record{State: ledger.StateUploaded, DestinationID: destID, Size: item.Size})
	e.note(outcomeMigrated, key)
	return nil
}

// findExisting checks the cached destination listing for a file matching the
// item by name, and by size when both sides report one.
func (e *Engine) findExisting(ctx context.Context, folderID string, item *types.MediaItem) (types.RemoteFile, bool, error) {
	listing, ok := e.listings[folderID]
	if !ok {
		var err error
		listing, err = e.dest.ListFiles(ctx, folderID)
		if err != nil {
			return types.RemoteFile{}, false, err
		}
		e.listings[folderID] = listing
	}

	for _, rf := range listing {
		if rf.Name != item.FileName {
			continue
		}
		if item.Size > 0 && rf.Size > 0 && rf.Size != item.Size {
			continue
		}
		return rf, true, nil
	}
	return types.RemoteFile{}, false, nil
}

// transfer stages the item locally, then uploads it. The staging slot is
// released on every exit path, including upload failure.
func (e *Engine) transfer(ctx context.Context, folderID string, item *types.MediaItem) (string, error) {
	slot, err := e.store.Acquire(filepath.Ext(item.FileName))
	if err != nil {
		return "", err
	}
	defer slot.Release()

	if err := e.download(ctx, item, slot.Path()); err != nil {
		return "", err
	}

	e.upsert(item.Key(), ledger.Record{State: ledger.StateDownloaded, Size: item.Size})

	return e.dest.Upload(ctx, folderID, slot.Path(), item.FileName)
}

func (e *Engine) download(ctx context.Context, item *types.MediaItem, destPath string) (err error) {
	obj, err := e.source.Download(ctx, item)
	if err != nil {
		return err
	}
	defer obj.Body.Close()

	f, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if _, err = io.Copy(f, obj.Body); err != nil {
		return err
	}

	info, err := util.Fs.Stat(destPath)
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return fmt.Errorf("downloaded zero bytes for %s", item.Key())
	}
	return nil
}

// upsert persists a ledger record. A persistence failure undermines
// resumability but must not stop the run.
func (e *Engine) upsert(key string, rec ledger.Record) {
	if err := e.ldg.Upsert(key, rec); err != nil {
		zlogger.Logger.Warnf("could not persist state for %s: %v", key, err)
	}
}

func (e *Engine) currentSummary(albums int) *Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	keys := make([]string, len(e.failedKeys))
	copy(keys, e.failedKeys)

	return &Summary{
		Albums:     albums,
		TotalItems: e.session.TotalKnown,
		Migrated:   e.session.Migrated,
		Skipped:    e.session.Skipped,
		Failed:     e.session.Failed,
		FailedKeys: keys,
	}
}
