// Package config holds the campaign runtime configuration and seed
// management. Config is a plain data holder: interpretation (board
// resolution, profile parsing, backend setup) belongs to the consumers.
package config

// #region imports
import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// #endregion

// #region config

// Config is the full runtime configuration for one campaign.
//
// Precedence is file < flags: the CLI loads an optional YAML file over
// DefaultConfig, then applies explicit flags on top. Optional values use
// pointers so "unset" and "zero" stay distinguishable.
type Config struct {
	// Serial link to the SEM monitor.
	Device     string `yaml:"device"`
	Baud       int    `yaml:"baud"`
	SEMClockHz int    `yaml:"sem_clock_hz"`

	// Profile selection with opaque per-profile argument strings,
	// e.g. "modules=alu,decoder;ratio=0.3" or "rate=10;duration=60".
	AreaProfile string `yaml:"area_profile"`
	AreaArgs    string `yaml:"area_args"`
	TimeProfile string `yaml:"time_profile"`
	TimeArgs    string `yaml:"time_args"`

	// File inputs.
	SystemDictPath string `yaml:"system_dict_path"`
	AddressListDir string `yaml:"address_list_dir"` // pre-decoded region address lists
	PoolFilePath   string `yaml:"pool_file_path"`   // pre-built pool, skips area selection

	// Board selection.
	BoardName        string `yaml:"board_name"` // empty means resolve
	DefaultBoardName string `yaml:"default_board_name"`

	// Register injection wire format.
	WireIdleID     int `yaml:"wire_idle_id"`
	WireRegIDWidth int `yaml:"wire_reg_id_width"` // bits available for reg_id

	// Pool building.
	RatioStrict             bool   `yaml:"ratio_strict"`
	PoolSizeBreakRepeatOnly bool   `yaml:"pool_size_break_repeat_only"`
	PoolAbsoluteCap         int    `yaml:"pool_absolute_cap"`
	PoolAutoSave            bool   `yaml:"pool_auto_save"`
	PoolOutputDir           string `yaml:"pool_output_dir"`
	AddressCacheSize        int    `yaml:"address_cache_size"`

	// Benchmark synchronization. Sync is enabled iff SyncFile is set.
	SyncFile           string  `yaml:"sync_file"`
	SyncCheckIntervalS float64 `yaml:"sync_check_interval_s"`
	SyncCheckEveryN    int     `yaml:"sync_check_every_n"`
	SyncTimeoutS       float64 `yaml:"sync_timeout_s"` // 0 waits forever

	// Results store.
	ResultsDBPath string `yaml:"results_db_path"`

	// Seeds. Nil means unset; resolution may generate a global seed so
	// every campaign is reproducible by default.
	GlobalSeed *int64 `yaml:"global_seed"`
	AreaSeed   *int64 `yaml:"area_seed"`
	TimeSeed   *int64 `yaml:"time_seed"`

	// Debug runs without hardware: backends are replaced by no-ops.
	Debug bool `yaml:"debug"`
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() Config {
	return Config{
		Device:                  "/dev/ttyUSB0",
		Baud:                    115200,
		SEMClockHz:              100_000_000,
		AreaProfile:             "modules",
		TimeProfile:             "uniform",
		SystemDictPath:          "systemdict.yaml",
		AddressListDir:          "gen/addr",
		DefaultBoardName:        "basys3",
		WireIdleID:              0,
		WireRegIDWidth:          8,
		PoolSizeBreakRepeatOnly: true,
		PoolAbsoluteCap:         1_000_000,
		PoolAutoSave:            true,
		PoolOutputDir:           "gen/tpool",
		AddressCacheSize:        64,
		SyncCheckIntervalS:      1.0,
		SyncCheckEveryN:         100,
		ResultsDBPath:           "fi-results.db",
	}
}

// #endregion

// #region load

// LoadFile overlays a YAML config file onto base. Unknown keys are errors:
// a misspelled setting silently reverting to its default has burned enough
// campaigns.
func LoadFile(path string, base Config) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := base
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// #endregion

// #region validate

// Validate rejects configurations eagerly, before any hardware is touched.
func (c Config) Validate() error {
	if c.Baud <= 0 {
		return fmt.Errorf("baud must be positive, got %d", c.Baud)
	}
	if c.AreaProfile == "" && c.PoolFilePath == "" {
		return fmt.Errorf("either area_profile or pool_file_path must be set")
	}
	if c.TimeProfile == "" {
		return fmt.Errorf("time_profile must be set")
	}
	// The register command carries the ID in a single byte; the backend
	// enforces the same bound at setup time.
	if c.WireRegIDWidth < 1 || c.WireRegIDWidth > 8 {
		return fmt.Errorf("wire_reg_id_width must be in [1,8], got %d", c.WireRegIDWidth)
	}
	if c.PoolAbsoluteCap < 1 {
		return fmt.Errorf("pool_absolute_cap must be positive, got %d", c.PoolAbsoluteCap)
	}
	if c.AddressCacheSize < 1 {
		return fmt.Errorf("address_cache_size must be positive, got %d", c.AddressCacheSize)
	}
	if c.SyncFile != "" {
		if c.SyncCheckIntervalS <= 0 {
			return fmt.Errorf("sync_check_interval_s must be positive, got %v", c.SyncCheckIntervalS)
		}
		if c.SyncCheckEveryN < 1 {
			return fmt.Errorf("sync_check_every_n must be >= 1, got %d", c.SyncCheckEveryN)
		}
		if c.SyncTimeoutS < 0 {
			return fmt.Errorf("sync_timeout_s must not be negative, got %v", c.SyncTimeoutS)
		}
	}
	return nil
}

// SyncEnabled reports whether benchmark synchronization is active.
func (c Config) SyncEnabled() bool {
	return c.SyncFile != ""
}

// #endregion
