package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/hyperledger-labs/yui-relay-core/core"
)

const envPrefix = "YRC"

type Config struct {
	Global GlobalConfig        `yaml:"global" json:"global" mapstructure:"global"`
	Chains []ChainProverConfig `yaml:"chains" json:"chains" mapstructure:"chains"`
	Paths  core.Paths          `yaml:"paths" json:"paths" mapstructure:"paths"`

	// ConfigPath is the path of the file this config is loaded from
	ConfigPath string `yaml:"-" json:"-" mapstructure:"-"`
}

type GlobalConfig struct {
	Timeout        string       `yaml:"timeout" json:"timeout" mapstructure:"timeout"`
	ClientStoreDir string       `yaml:"client-store-dir" json:"client-store-dir" mapstructure:"client-store-dir"`
	RelayInterval  string       `yaml:"relay-interval" json:"relay-interval" mapstructure:"relay-interval"`
	BatchQueueSize int          `yaml:"batch-queue-size" json:"batch-queue-size" mapstructure:"batch-queue-size"`
	MaxTxSize      uint64       `yaml:"max-tx-size" json:"max-tx-size" mapstructure:"max-tx-size"`
	MaxMsgLength   uint64       `yaml:"max-msg-length" json:"max-msg-length" mapstructure:"max-msg-length"`
	LoggerConfig   LoggerConfig `yaml:"logger" json:"logger" mapstructure:"logger"`
}

type LoggerConfig struct {
	Level           string `yaml:"level" json:"level" mapstructure:"level"`
	Format          string `yaml:"format" json:"format" mapstructure:"format"`
	Output          string `yaml:"output" json:"output" mapstructure:"output"`
	EnableTelemetry bool   `yaml:"enable-telemetry" json:"enable-telemetry" mapstructure:"enable-telemetry"`
}

func DefaultConfig(homePath string) Config {
	return Config{
		Global:     newDefaultGlobalConfig(homePath),
		Chains:     []ChainProverConfig{},
		Paths:      core.Paths{},
		ConfigPath: filepath.Join(homePath, "config", "config.yaml"),
	}
}

// newDefaultGlobalConfig returns a global config with defaults set
func newDefaultGlobalConfig(homePath string) GlobalConfig {
	return GlobalConfig{
		Timeout:        "10s",
		ClientStoreDir: filepath.Join(homePath, "data"),
		RelayInterval:  "3s",
		BatchQueueSize: 64,
		MaxTxSize:      0,
		MaxMsgLength:   0,
		LoggerConfig: LoggerConfig{
			Level:  "INFO",
			Format: "json",
			Output: "stderr",
		},
	}
}

// LoadConfig reads the config file at `cfgPath` on top of the defaults.
// The environment variables prefixed with YRC_ override the values in the file,
// e.g. YRC_GLOBAL_RELAY_INTERVAL overrides global.relay-interval.
func LoadConfig(homePath, cfgPath string) (*Config, error) {
	cfg := DefaultConfig(homePath)
	cfg.ConfigPath = cfgPath

	v := viper.New()
	v.SetConfigFile(cfgPath)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", cfgPath, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config to ConfigPath in YAML, creating the parent directory if needed
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.ConfigPath), os.ModePerm); err != nil {
		return err
	}
	bz, err := c.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(c.ConfigPath, bz, 0600)
}

func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Global.Timeout); err != nil {
		return fmt.Errorf("invalid global.timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.Global.RelayInterval); err != nil {
		return fmt.Errorf("invalid global.relay-interval: %w", err)
	}
	if c.Global.BatchQueueSize < 0 {
		return fmt.Errorf("global.batch-queue-size must not be negative: %d", c.Global.BatchQueueSize)
	}
	for name, path := range c.Paths {
		if err := path.Validate(); err != nil {
			return fmt.Errorf("invalid path %s: %w", name, err)
		}
	}
	return nil
}

// ServiceConfig returns the settings of the relay service
func (c *Config) ServiceConfig() (core.ServiceConfig, error) {
	interval, err := time.ParseDuration(c.Global.RelayInterval)
	if err != nil {
		return core.ServiceConfig{}, err
	}
	return core.ServiceConfig{
		RelayInterval:  interval,
		BatchQueueSize: c.Global.BatchQueueSize,
		MaxTxSize:      c.Global.MaxTxSize,
		MaxMsgLength:   c.Global.MaxMsgLength,
	}, nil
}

// AddPath adds an additional path to the config
func (c *Config) AddPath(name string, path *core.Path) error {
	if c.Paths == nil {
		c.Paths = core.Paths{}
	}
	return c.Paths.Add(name, path)
}

// BuildChains builds all configured chains
func (c *Config) BuildChains(registry *Registry) (Chains, error) {
	var chains Chains
	for i, cc := range c.Chains {
		chain, err := cc.Build(registry)
		if err != nil {
			return nil, fmt.Errorf("failed to build chains[%d]: %w", i, err)
		}
		chains = append(chains, chain)
	}
	return chains, nil
}

// ChainsFromPath builds the chains of the path `name` and sets the path ends on them
func (c *Config) ChainsFromPath(registry *Registry, name string) (src, dst *core.ProvableChain, err error) {
	path, err := c.Paths.Get(name)
	if err != nil {
		return nil, nil, err
	}
	chains, err := c.BuildChains(registry)
	if err != nil {
		return nil, nil, err
	}
	if src, err = chains.Get(path.Src.ChainID); err != nil {
		return nil, nil, err
	}
	if dst, err = chains.Get(path.Dst.ChainID); err != nil {
		return nil, nil, err
	}
	if err := src.SetRelayInfo(path.Src, path.Dst); err != nil {
		return nil, nil, err
	}
	if err := dst.SetRelayInfo(path.Dst, path.Src); err != nil {
		return nil, nil, err
	}
	return src, dst, nil
}
