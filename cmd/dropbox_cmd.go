package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/photomig/photomigration/dropbox"
	"github.com/photomig/photomigration/gdrive"
	"github.com/photomig/photomigration/util"
)

var cfgDropbox string

func init() {
	rootCmd.AddCommand(dropboxMigrateCmd)

	dropboxMigrateCmd.Flags().StringVar(&cfgDropbox, "dropbox", "dropbox.yaml", "dropbox config file")
	dropboxMigrateCmd.Flags().StringVar(&rootFolder, "folder", "Dropbox Migration", "root folder name at the destination")
	dropboxMigrateCmd.Flags().StringVar(&statePath, "state", "", "migration state file (default <configDir>/dropbox_state.json)")
	dropboxMigrateCmd.Flags().StringVar(&workDir, "work-dir", "", "staging directory for in-flight files (default <configDir>/work)")
	dropboxMigrateCmd.Flags().StringSliceVar(&albumFilter, "albums", []string{}, "top-level folders to migrate. If no value is provided all folders are migrated")
	dropboxMigrateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "list what would be migrated without actually doing it")
	dropboxMigrateCmd.Flags().BoolVar(&noSkipExisting, "no-skip-existing", false, "re-upload files even if they already exist at the destination")
	dropboxMigrateCmd.Flags().BoolVar(&retryFailed, "retry-failed", false, "retry previously failed items only")
	dropboxMigrateCmd.Flags().StringVar(&driveToken, "gdrive-token", "", "Google Drive access token")
}

var dropboxMigrateCmd = &cobra.Command{
	Use:   "dropboxmigration",
	Short: "Migrate data from Dropbox to cloud storage",
	Long: `dropboxmigration treats every top-level Dropbox folder as an album and migrates
	its files to Google Drive with the same resume and duplicate-skip behavior as the
	SmugMug migration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := loadDropboxFile(filepath.Join(configDir, cfgDropbox))
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		source, err := dropbox.NewClient(token)
		if err != nil {
			return err
		}

		gdriveToken := driveToken
		if gdriveToken == "" {
			gdriveToken = util.GetDriveTokenFromEnv()
		}
		dest, err := gdrive.NewClient(ctx, gdriveToken)
		if err != nil {
			return err
		}

		if statePath == "" {
			statePath = filepath.Join(configDir, "dropbox_state.json")
		}

		return runMigration(ctx, source, dest)
	},
}
