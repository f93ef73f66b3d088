package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/booklib/internal/logger"
	"github.com/mesh-intelligence/booklib/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "BOOKLIB"

	cfgKeyLibraryDir = "library_dir"
	cfgKeyDBFilename = "db_filename"
	cfgKeyLogLevel   = "log_level"
	cfgKeyLogFormat  = "log_format"
	cfgKeyTempPrefix = "temp_prefix"

	defaultLogLevel = "warn"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	LibraryDir string `yaml:"library_dir"`
	DBFilename string `yaml:"db_filename"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
	TempPrefix string `yaml:"temp_prefix"`
}

// loadConfig reads config.yaml from configDir using Viper. A missing file is
// not an error; defaults and BOOKLIB_* environment variables still apply.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyDBFilename, types.DefaultDBFilename)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyLogFormat, logger.FormatText)
	v.SetDefault(cfgKeyTempPrefix, types.DefaultTempPrefix)
	v.SetDefault(cfgKeyLibraryDir, "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing creates config.yaml describing cfg if the file does
// not exist. It reports whether a file was written.
func writeConfigIfMissing(configDir string, cfg types.Config, v *viper.Viper) (bool, error) {
	path := filepath.Join(configDir, configFileExt)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(&configFile{
		LibraryDir: cfg.LibraryDir,
		DBFilename: v.GetString(cfgKeyDBFilename),
		LogLevel:   v.GetString(cfgKeyLogLevel),
		LogFormat:  v.GetString(cfgKeyLogFormat),
		TempPrefix: cfg.Prefix(),
	})
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
