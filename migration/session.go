package migration

// Session is the rebuildable in-memory state of one migration run: overall
// counters plus the current album/file pointer. The engine updates it after
// every item; any reporting layer may poll Engine.Session concurrently.
type Session struct {
	ID           string
	Migrated     int
	Skipped      int
	Failed       int
	TotalKnown   int
	CurrentAlbum string
	CurrentFile  string
}

// Session returns a snapshot safe to read while a run is in progress.
func (e *Engine) Session() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

type outcome int

const (
	outcomeMigrated outcome = iota
	outcomeSkipped
	outcomeFailed
)

func (e *Engine) note(res outcome, key string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch res {
	case outcomeMigrated:
		e.session.Migrated++
	case outcomeSkipped:
		e.session.Skipped++
	case outcomeFailed:
		e.session.Failed++
		e.failedKeys = append(e.failedKeys, key)
	}
}

func (e *Engine) addKnown(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.TotalKnown += n
}

func (e *Engine) setPointer(album, file string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.CurrentAlbum = album
	e.session.CurrentFile = file
}

// resetCounters zeroes the session for a fresh operation, keeping the ID.
func (e *Engine) resetCounters() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.session.ID
	e.session = Session{ID: id}
	e.failedKeys = nil
}

// seedCounters pre-loads counters from ledger totals so a retry run reports
// overall progress, not just the re-attempted items.
func (e *Engine) seedCounters(migrated, skipped int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Migrated = migrated
	e.session.Skipped = skipped
}
