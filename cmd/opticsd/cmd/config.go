package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ethcmn "github.com/ethereum/go-ethereum/common"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/celestiaorg/optics/x/optics/updater"
)

const (
	DBBackendGoLevelDB = "goleveldb"
	DBBackendMemDB     = "memdb"
)

// Config is read from $HOME/config/config.toml and OPTICS_* environment
// variables.
type Config struct {
	LogLevel  string `mapstructure:"log-level" toml:"log-level"`
	LogFormat string `mapstructure:"log-format" toml:"log-format"`
	DBBackend string `mapstructure:"db-backend" toml:"db-backend"`

	Home    HomeConfig    `mapstructure:"home" toml:"home"`
	Replica ReplicaConfig `mapstructure:"replica" toml:"replica"`
	Updater UpdaterConfig `mapstructure:"updater" toml:"updater"`
}

// HomeConfig describes the home domain and the address of its updater.
type HomeConfig struct {
	Domain  uint32 `mapstructure:"domain" toml:"domain"`
	Updater string `mapstructure:"updater" toml:"updater"`
}

// ReplicaConfig describes the local replica of the home.
type ReplicaConfig struct {
	Domain      uint32 `mapstructure:"domain" toml:"domain"`
	InitialRoot string `mapstructure:"initial-root" toml:"initial-root"`
}

// UpdaterConfig holds the signing key of the updater. It is usually set with
// OPTICS_UPDATER_KEY rather than written to disk.
type UpdaterConfig struct {
	Key string `mapstructure:"key" toml:"key,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "plain",
		DBBackend: DBBackendGoLevelDB,
		Home: HomeConfig{
			Domain: 1000,
		},
		Replica: ReplicaConfig{
			Domain:      2000,
			InitialRoot: ethcmn.Hash{}.Hex(),
		},
	}
}

// ValidateBasic checks the fields every command relies on.
func (c Config) ValidateBasic() error {
	switch c.DBBackend {
	case DBBackendGoLevelDB, DBBackendMemDB:
	default:
		return fmt.Errorf("unknown db backend %q", c.DBBackend)
	}
	switch c.LogFormat {
	case "plain", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if c.Home.Updater != "" && !ethcmn.IsHexAddress(c.Home.Updater) {
		return fmt.Errorf("invalid updater address %q", c.Home.Updater)
	}
	return nil
}

// UpdaterAddress returns the configured updater address, deriving it from the
// updater key when no address is set.
func (c Config) UpdaterAddress() (ethcmn.Address, error) {
	if c.Home.Updater != "" {
		return ethcmn.HexToAddress(c.Home.Updater), nil
	}
	if c.Updater.Key != "" {
		u, err := updater.NewUpdaterFromHex(c.Updater.Key, c.Home.Domain)
		if err != nil {
			return ethcmn.Address{}, err
		}
		return u.Address(), nil
	}
	return ethcmn.Address{}, errors.New("updater address is not configured")
}

func configFile(homeDir string) string {
	return filepath.Join(homeDir, "config", "config.toml")
}

// WriteConfigFile writes cfg as TOML to the config file under homeDir.
func WriteConfigFile(homeDir string, cfg Config) error {
	path := configFile(homeDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	bz, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, bz, 0o600)
}

// loadConfig merges defaults, the config file, OPTICS_* environment variables
// and the flags bound to config keys, in increasing order of precedence.
func loadConfig(homeDir string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("log-level", defaults.LogLevel)
	v.SetDefault("log-format", defaults.LogFormat)
	v.SetDefault("db-backend", defaults.DBBackend)
	v.SetDefault("home.domain", defaults.Home.Domain)
	v.SetDefault("home.updater", defaults.Home.Updater)
	v.SetDefault("replica.domain", defaults.Replica.Domain)
	v.SetDefault("replica.initial-root", defaults.Replica.InitialRoot)
	v.SetDefault("updater.key", defaults.Updater.Key)

	for _, name := range []string{FlagLogLevel, FlagLogFormat, FlagDBBackend} {
		if err := v.BindPFlag(name, flags.Lookup(name)); err != nil {
			return Config{}, err
		}
	}

	v.SetConfigFile(configFile(homeDir))
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.ValidateBasic()
}
