package migration

import "time"

type Config struct {
	// RootFolder is the destination folder every album lands under.
	RootFolder string
	// WorkDir hosts the staging area.
	WorkDir string
	// DryRun lists what would be migrated without transferring anything.
	DryRun bool
	// SkipExisting consults the destination folder listing for files a prior
	// partial run uploaded before its state write.
	SkipExisting bool
	// ItemDelay is an optional pause between items to stay under source rate
	// limits.
	ItemDelay time.Duration
}
