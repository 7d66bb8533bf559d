package ledger

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestOpenMissingFile(t *testing.T) {
	l := Open(filepath.Join(t.TempDir(), "state.json"))
	if l.Len() != 0 {
		t.Fatalf("len = %d, want 0", l.Len())
	}
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte(`{"version": 1, "records": {"a`), 0644); err != nil {
		t.Fatal(err)
	}

	// a torn or corrupt state file must not block a re-run
	l := Open(path)
	if l.Len() != 0 {
		t.Fatalf("len = %d, want empty ledger", l.Len())
	}

	if err := l.Upsert("A/one.jpg", Record{State: StateUploaded}); err != nil {
		t.Fatalf("upsert after corrupt open: %v", err)
	}
}

func TestUpsertIsWriteThrough(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	l := Open(path)
	if err := l.Upsert("A/one.jpg", Record{State: StateUploaded, DestinationID: "d1", Size: 42}); err != nil {
		t.Fatal(err)
	}
	if err := l.Upsert("A/two.jpg", Record{State: StateFailed, Error: "timeout"}); err != nil {
		t.Fatal(err)
	}

	// simulate abnormal termination: reopen from disk, no explicit save step
	reopened := Open(path)
	rec, ok := reopened.Get("A/one.jpg")
	if !ok || rec.State != StateUploaded || rec.DestinationID != "d1" || rec.Size != 42 {
		t.Fatalf("record = %+v, %v", rec, ok)
	}
	rec, ok = reopened.Get("A/two.jpg")
	if !ok || rec.State != StateFailed || rec.Error != "timeout" {
		t.Fatalf("record = %+v, %v", rec, ok)
	}
}

func TestUpsertNeverRegressesTerminalStates(t *testing.T) {
	l := Open(filepath.Join(t.TempDir(), "state.json"))

	for _, terminal := range []State{StateUploaded, StateSkipped} {
		key := "A/" + string(terminal) + ".jpg"
		if err := l.Upsert(key, Record{State: terminal, DestinationID: "d1"}); err != nil {
			t.Fatal(err)
		}
		if err := l.Upsert(key, Record{State: StateFailed, Error: "late failure"}); err != nil {
			t.Fatal(err)
		}
		rec, _ := l.Get(key)
		if rec.State != terminal || rec.DestinationID != "d1" {
			t.Errorf("state %s was overwritten: %+v", terminal, rec)
		}
	}
}

func TestResetFailed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	l := Open(path)

	seed := map[string]Record{
		"A/ok.jpg":    {State: StateUploaded},
		"A/bad.jpg":   {State: StateFailed, Error: "connection reset"},
		"B/worse.jpg": {State: StateFailed, Error: "500"},
		"B/skip.jpg":  {State: StateSkipped},
	}
	for k, rec := range seed {
		if err := l.Upsert(k, rec); err != nil {
			t.Fatal(err)
		}
	}

	keys, err := l.ResetFailed()
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if want := []string{"A/bad.jpg", "B/worse.jpg"}; !reflect.DeepEqual(keys, want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}

	rec, _ := l.Get("A/bad.jpg")
	if rec.State != StatePending || rec.Error != "" {
		t.Fatalf("record after reset = %+v", rec)
	}
	rec, _ = l.Get("A/ok.jpg")
	if rec.State != StateUploaded {
		t.Fatalf("uploaded record touched by reset: %+v", rec)
	}

	// the reset itself must be durable
	uploaded, skipped, failed, pending := Open(path).Counts()
	if uploaded != 1 || skipped != 1 || failed != 0 || pending != 2 {
		t.Fatalf("counts after reopen = %d/%d/%d/%d", uploaded, skipped, failed, pending)
	}
}

func TestResetFailedNoFailures(t *testing.T) {
	l := Open(filepath.Join(t.TempDir(), "state.json"))
	if err := l.Upsert("A/ok.jpg", Record{State: StateUploaded}); err != nil {
		t.Fatal(err)
	}

	keys, err := l.ResetFailed()
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if keys != nil {
		t.Fatalf("keys = %v, want nil", keys)
	}
}

func TestOpenIgnoresUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	doc := `{
  "version": 2,
  "generated_by": "some later build",
  "records": {
    "A/one.jpg": {"state": "uploaded", "destination_id": "d1", "checksum": "abc"}
  }
}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	l := Open(path)
	rec, ok := l.Get("A/one.jpg")
	if !ok || rec.State != StateUploaded || rec.DestinationID != "d1" {
		t.Fatalf("record = %+v, %v", rec, ok)
	}
}

func TestKeysSorted(t *testing.T) {
	l := Open(filepath.Join(t.TempDir(), "state.json"))
	for _, k := range []string{"B/2.jpg", "A/1.jpg", "C/3.jpg"} {
		if err := l.Upsert(k, Record{State: StatePending}); err != nil {
			t.Fatal(err)
		}
	}
	if want := []string{"A/1.jpg", "B/2.jpg", "C/3.jpg"}; !reflect.DeepEqual(l.Keys(), want) {
		t.Fatalf("keys = %v, want %v", l.Keys(), want)
	}
}
