package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/photomig/photomigration/ledger"
	zlogger "github.com/photomig/photomigration/logger"
	merror "github.com/photomig/photomigration/mErrors"
	"github.com/photomig/photomigration/migration"
	"github.com/photomig/photomigration/staging"
	"github.com/photomig/photomigration/types"
)

// runMigration wires the engine for the chosen source/destination pair,
// applies the album selection and runs either a full migration or a retry of
// failed items, finishing with the summary block.
func runMigration(ctx context.Context, source types.MediaSource, dest types.MediaDestination) error {
	if statePath == "" {
		statePath = filepath.Join(configDir, "migration_state.json")
	}
	if workDir == "" {
		workDir = filepath.Join(configDir, "work")
	}

	ldg := ledger.Open(statePath)

	store, err := staging.NewStore(workDir)
	if err != nil {
		return err
	}

	albums, err := source.ListAlbums(ctx)
	if err != nil {
		return err
	}
	selected := selectAlbums(albums, albumFilter)
	if len(selected) == 0 {
		fmt.Println("No albums found. Nothing to migrate.")
		return nil
	}
	zlogger.Logger.Infof("found %d albums, %d selected", len(albums), len(selected))

	engine := migration.NewEngine(source, dest, ldg, store, migration.Config{
		RootFolder:   rootFolder,
		WorkDir:      workDir,
		DryRun:       dryRun,
		SkipExisting: !noSkipExisting,
		ItemDelay:    itemDelay,
	})

	var summary *migration.Summary
	if retryFailed {
		summary, err = engine.RetryFailed(ctx, selected)
	} else {
		summary, err = engine.Run(ctx, selected)
	}

	if err != nil && merror.IsOperationCancelledError(err) {
		zlogger.Logger.Warn("migration stopped by user; run again to resume")
		err = nil
	}

	if summary != nil {
		printSummary(summary)
	}
	return err
}

func selectAlbums(albums []*types.Album, filter []string) []*types.Album {
	if len(filter) == 0 {
		return albums
	}

	wanted := make(map[string]struct{}, len(filter))
	for _, f := range filter {
		wanted[strings.ToLower(f)] = struct{}{}
	}

	var selected []*types.Album
	for _, a := range albums {
		if _, ok := wanted[strings.ToLower(a.Name)]; ok {
			selected = append(selected, a)
			continue
		}
		if _, ok := wanted[strings.ToLower(a.ID)]; ok {
			selected = append(selected, a)
		}
	}
	return selected
}

func printSummary(s *migration.Summary) {
	line := strings.Repeat("=", 60)
	fmt.Println()
	fmt.Println(line)
	fmt.Println("MIGRATION SUMMARY")
	fmt.Println(line)
	fmt.Printf("Total albums:      %d\n", s.Albums)
	fmt.Printf("Total files:       %d\n", s.TotalItems)
	fmt.Printf("Migrated:          %d\n", s.Migrated)
	fmt.Printf("Skipped (exists):  %d\n", s.Skipped)
	fmt.Printf("Failed:            %d\n", s.Failed)
	if s.Failed > 0 {
		fmt.Printf("\nFailed files are recorded in %s.\n", statePath)
		fmt.Println("Run with --retry-failed to retry them.")
	}
	fmt.Println(line)
}
