package cmd

import (
	"errors"
	"os"
	"strings"

	thrown "github.com/0chain/errors"
	"github.com/spf13/viper"
)

// CredConfig holds pre-acquired credentials for both remote services. Token
// acquisition (the interactive OAuth dances) happens outside this tool.
type CredConfig struct {
	SmugMugAPIKey      string
	SmugMugAPISecret   string
	SmugMugAccessToken string
	SmugMugTokenSecret string
	DriveAccessToken   string
}

var (
	ErrMissingConfig = errors.New("[conf]missing config file")
	ErrBadParsing    = errors.New("parsing error")
	ErrInvalidToken  = errors.New("invalid access token")
)

func loadCredFile(file string) (CredConfig, error) {
	var cfg CredConfig

	if _, err := os.Stat(file); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, thrown.Throw(ErrMissingConfig, file)
		}
		return cfg, err
	}

	v := viper.New()
	v.SetConfigFile(file)

	if err := v.ReadInConfig(); err != nil {
		return cfg, thrown.Throw(ErrBadParsing, err.Error())
	}

	return LoadConfig(v)
}

func LoadConfig(v *viper.Viper) (CredConfig, error) {
	cfg := CredConfig{
		SmugMugAPIKey:      strings.TrimSpace(v.GetString("smugmug_api_key")),
		SmugMugAPISecret:   strings.TrimSpace(v.GetString("smugmug_api_secret")),
		SmugMugAccessToken: strings.TrimSpace(v.GetString("smugmug_access_token")),
		SmugMugTokenSecret: strings.TrimSpace(v.GetString("smugmug_token_secret")),
		DriveAccessToken:   strings.TrimSpace(v.GetString("gdrive_access_token")),
	}

	return cfg, nil
}

func loadDropboxFile(file string) (string, error) {
	if _, err := os.Stat(file); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", thrown.Throw(ErrMissingConfig, file)
		}
		return "", err
	}

	v := viper.New()
	v.SetConfigFile(file)

	if err := v.ReadInConfig(); err != nil {
		return "", thrown.Throw(ErrBadParsing, err.Error())
	}

	accessToken := strings.TrimSpace(v.GetString("access_token"))
	if len(accessToken) == 0 {
		return "", thrown.Throw(ErrInvalidToken, "token is empty")
	}

	return accessToken, nil
}
