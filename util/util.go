package util

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// GetConfigDir get config directory, default is ~/.photomgrt/
func GetConfigDir() string {
	configDir := filepath.Join(GetHomeDir(), ".photomgrt")

	if err := os.MkdirAll(configDir, 0744); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	return configDir
}

// GetHomeDir Find home directory.
func GetHomeDir() string {
	idr, err := homedir.Dir()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	return idr
}

func GetSmugMugCredentialsFromEnv() (apiKey, apiSecret, accessToken, tokenSecret string) {
	apiKey = os.Getenv("SMUGMUG_API_KEY")
	apiSecret = os.Getenv("SMUGMUG_API_SECRET")
	accessToken = os.Getenv("SMUGMUG_ACCESS_TOKEN")
	tokenSecret = os.Getenv("SMUGMUG_TOKEN_SECRET")
	return
}

func GetSmugMugCredentialsFromFile(credPath string) (apiKey, apiSecret, accessToken, tokenSecret string) {
	v := viper.New()

	v.SetConfigFile(credPath)

	if err := v.ReadInConfig(); err != nil {
		return
	}

	apiKey = v.GetString("smugmug_api_key")
	apiSecret = v.GetString("smugmug_api_secret")
	accessToken = v.GetString("smugmug_access_token")
	tokenSecret = v.GetString("smugmug_token_secret")

	return
}

func GetDriveTokenFromEnv() string {
	return os.Getenv("GDRIVE_ACCESS_TOKEN")
}

func GetDriveTokenFromFile(credPath string) string {
	v := viper.New()

	v.SetConfigFile(credPath)
	if err := v.ReadInConfig(); err != nil {
		return ""
	}

	return v.GetString("gdrive_access_token")
}
