package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/spf13/cobra"

	"github.com/photomig/photomigration/gdrive"
	s3dest "github.com/photomig/photomigration/s3"
	"github.com/photomig/photomigration/smugmug"
	"github.com/photomig/photomigration/types"
	"github.com/photomig/photomigration/util"
)

var (
	rootFolder     string
	statePath      string
	workDir        string
	albumFilter    []string
	dryRun         bool
	noSkipExisting bool
	retryFailed    bool
	itemDelay      time.Duration
	s3Bucket       string
	s3Region       string
	driveToken     string
)

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().StringVar(&rootFolder, "folder", "SmugMug Migration", "root folder name at the destination")
	migrateCmd.Flags().StringVar(&statePath, "state", "", "migration state file (default <configDir>/migration_state.json)")
	migrateCmd.Flags().StringVar(&workDir, "work-dir", "", "staging directory for in-flight files (default <configDir>/work)")
	migrateCmd.Flags().StringSliceVar(&albumFilter, "albums", []string{}, "album names or keys to migrate. If no value is provided all albums are migrated")
	migrateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "list what would be migrated without actually doing it")
	migrateCmd.Flags().BoolVar(&noSkipExisting, "no-skip-existing", false, "re-upload files even if they already exist at the destination")
	migrateCmd.Flags().BoolVar(&retryFailed, "retry-failed", false, "retry previously failed items only")
	migrateCmd.Flags().DurationVar(&itemDelay, "delay", 200*time.Millisecond, "pause between files to stay under source rate limits")
	migrateCmd.Flags().StringVar(&s3Bucket, "to-s3", "", "migrate into this S3 bucket instead of Google Drive")
	migrateCmd.Flags().StringVar(&s3Region, "region", "", "region of the S3 bucket")
	migrateCmd.Flags().StringVar(&driveToken, "gdrive-token", "", "Google Drive access token")
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate SmugMug albums to cloud storage",
	Long: `Migrate all photos and videos from a SmugMug account to Google Drive (default)
	or an S3 bucket, preserving the album folder structure. Per-file progress is written
	through to a state file after every item, so an interrupted run can be resumed and
	already-transferred files are never uploaded twice. Failed files are recorded and can
	be re-attempted with --retry-failed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := resolveCredentials()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		oauthConfig := oauth1.NewConfig(creds.SmugMugAPIKey, creds.SmugMugAPISecret)
		oauthToken := oauth1.NewToken(creds.SmugMugAccessToken, creds.SmugMugTokenSecret)
		httpClient := oauthConfig.Client(ctx, oauthToken)

		source := smugmug.NewClient(httpClient, smugmug.DefaultAPIBase)

		var dest types.MediaDestination
		if s3Bucket != "" {
			dest, err = s3dest.NewClient(ctx, s3Bucket, s3Region)
		} else {
			dest, err = gdrive.NewClient(ctx, creds.DriveAccessToken)
		}
		if err != nil {
			return err
		}

		return runMigration(ctx, source, dest)
	},
}

// resolveCredentials looks up SmugMug and Drive credentials from environment
// variables first, then the config file.
func resolveCredentials() (CredConfig, error) {
	creds := CredConfig{DriveAccessToken: driveToken}
	creds.SmugMugAPIKey, creds.SmugMugAPISecret, creds.SmugMugAccessToken, creds.SmugMugTokenSecret = util.GetSmugMugCredentialsFromEnv()
	if creds.DriveAccessToken == "" {
		creds.DriveAccessToken = util.GetDriveTokenFromEnv()
	}

	if creds.SmugMugAPIKey == "" || creds.DriveAccessToken == "" {
		fileCreds, err := loadCredFile(filepath.Join(configDir, cfgFile))
		if err != nil && !errors.Is(err, ErrMissingConfig) {
			return creds, err
		}
		if creds.SmugMugAPIKey == "" {
			creds.SmugMugAPIKey = fileCreds.SmugMugAPIKey
			creds.SmugMugAPISecret = fileCreds.SmugMugAPISecret
			creds.SmugMugAccessToken = fileCreds.SmugMugAccessToken
			creds.SmugMugTokenSecret = fileCreds.SmugMugTokenSecret
		}
		if creds.DriveAccessToken == "" {
			creds.DriveAccessToken = fileCreds.DriveAccessToken
		}
	}

	if creds.SmugMugAPIKey == "" || creds.SmugMugAPISecret == "" {
		return creds, errors.New("smugmug credentials missing. Set SMUGMUG_API_KEY and SMUGMUG_API_SECRET in the environment or config file")
	}
	if creds.SmugMugAccessToken == "" || creds.SmugMugTokenSecret == "" {
		return creds, errors.New("smugmug access token missing. Authorize the application first and store the token")
	}
	if s3Bucket == "" && creds.DriveAccessToken == "" {
		return creds, fmt.Errorf("google drive access token missing")
	}

	return creds, nil
}
