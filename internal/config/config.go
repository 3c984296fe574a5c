package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"todosync/internal/utils"
	"todosync/remote"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	_ "embed"
)

var configOnce sync.Once

var globalConfig *Config

var customConfigPath string // Custom config path set via --config flag

//go:embed config.sample.yaml
var sampleConfig []byte

const (
	CONFIG_DIR_PATH  = "todosync"
	CONFIG_FILE_PATH = "config.yaml"
	CONFIG_DIR_PERM  = 0755
	CONFIG_FILE_PERM = 0644
)

// Config represents the application configuration
type Config struct {
	Remote   RemoteConfig   `yaml:"remote" validate:"required"`
	Realtime RealtimeConfig `yaml:"realtime"`

	// Common settings
	DBPath     string `yaml:"db_path,omitempty"`     // defaults to the XDG data dir
	DateFormat string `yaml:"date_format,omitempty"` // Go time format string, defaults to "2006-01-02"
	Verbose    bool   `yaml:"verbose,omitempty"`
}

// RemoteConfig points at the hosted project
type RemoteConfig struct {
	URL     string `yaml:"url" validate:"required,url"`
	AnonKey string `yaml:"anon_key,omitempty"` // resolvable via keyring or env instead
	UserID  string `yaml:"user_id,omitempty"`
}

// RealtimeConfig tunes the change-feed subscription
type RealtimeConfig struct {
	// Tables to watch; defaults to every synced table
	Tables []string `yaml:"tables,omitempty"`
}

// WatchedTables returns the configured table list, or the full synced set
func (c *Config) WatchedTables() []string {
	if len(c.Realtime.Tables) > 0 {
		return c.Realtime.Tables
	}
	return remote.WatchedTables()
}

func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	return nil
}

func (c *Config) GetDateFormat() string {
	if c.DateFormat == "" {
		return "2006-01-02" // Default to yyyy-mm-dd
	}
	return c.DateFormat
}

// SetCustomConfigPath sets a custom config path to use instead of the default user config directory.
// If path is empty or ".", it uses "./todosync/config.yaml" (current directory).
// If path is a directory, it looks for "config.yaml" inside it.
// If path is a file, it uses that file directly.
// This must be called before GetConfig() is called for the first time.
func SetCustomConfigPath(path string) {
	if path == "" || path == "." {
		customConfigPath = filepath.Join(".", CONFIG_DIR_PATH, CONFIG_FILE_PATH)
	} else {
		// Check if path is a directory
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			customConfigPath = filepath.Join(path, CONFIG_FILE_PATH)
		} else {
			customConfigPath = path
		}
	}
}

func GetConfig() *Config {
	configOnce.Do(func() {
		config, err := loadUserOrSampleConfig()
		if err != nil {
			log.Fatal(err)
		}
		globalConfig = config
	})
	return globalConfig
}

func loadUserOrSampleConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	configData, err := configDataFromPath(configPath)
	if err != nil {
		return nil, err
	}
	return parseConfig(configData, configPath)
}

func GetConfigPath() (string, error) {
	// If a custom config path was set, check if it exists
	if customConfigPath != "" {
		if _, err := os.Stat(customConfigPath); err == nil {
			return customConfigPath, nil
		}
		// Custom path was set but doesn't exist, still return it
		// (allows creation of config in custom location)
		return customConfigPath, nil
	}

	// Otherwise, use the default user config directory
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	return filepath.Join(dir, CONFIG_DIR_PATH, CONFIG_FILE_PATH), nil
}

func createConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), CONFIG_DIR_PERM)
}

func WriteConfigFile(configPath string, data []byte) error {
	return os.WriteFile(configPath, data, CONFIG_FILE_PERM)
}

func createConfigFromSample(configPath string) []byte {
	var (
		configData []byte
		err        error
	)
	err = createConfigDir(configPath)
	if err != nil {
		log.Fatal(err)
	}
	configData = sampleConfig

	err = WriteConfigFile(configPath, configData)
	if err != nil {
		log.Fatal(err)
	}
	return configData
}

func parseConfig(configData []byte, configPath string) (*Config, error) {
	var configObj Config
	err := yaml.Unmarshal(configData, &configObj)
	if err != nil {
		return nil, fmt.Errorf("invalid YAML in config file %s: %w", configPath, err)
	}

	if err = configObj.Validate(); err != nil {
		return nil, utils.ErrInvalidConfig("remote", err.Error())
	}
	return &configObj, nil
}

func configDataFromPath(configPath string) ([]byte, error) {
	var (
		configData []byte
		err        error
	)

	configData, err = os.ReadFile(configPath)
	if os.IsNotExist(err) {
		fmt.Println("No config exist at ", configPath)

		shouldCopySample := utils.PromptYesNo("Do you want to copy config sample to " + configPath + "?")
		if !shouldCopySample {
			return nil, utils.ErrConfigFileNotFound(configPath)
		}
		configData = createConfigFromSample(configPath)
	} else if err != nil {
		return nil, err
	}

	return configData, nil
}
