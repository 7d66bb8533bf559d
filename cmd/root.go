package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	zlogger "github.com/photomig/photomigration/logger"
	"github.com/photomig/photomigration/util"
)

var (
	cfgFile, configDir string
	bSilent            bool

	rootCmd = &cobra.Command{
		Use:   "photomgrt",
		Short: "photomgrt migrates photo libraries from SmugMug to cloud storage",
		Long: `photomgrt walks a SmugMug account's album hierarchy, mirrors it as a folder
		tree on Google Drive (or an S3 bucket) and copies every photo and video across,
		one file at a time. Progress is kept in a durable state file so an interrupted
		migration resumes where it left off and never re-uploads what is already done.`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file")
	rootCmd.PersistentFlags().StringVar(&configDir, "configDir", util.GetConfigDir(), "configuration directory")
	rootCmd.PersistentFlags().BoolVar(&bSilent, "silent", false, "Do not mirror logs to the console (shown by default)")
}

func Execute() error {
	return rootCmd.Execute()
}

func initConfig() {
	zlogger.SetLogFile(filepath.Join(configDir, "migration.log"), !bSilent)
}
