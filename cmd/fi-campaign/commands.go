package main

// #region imports
import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fatori-v/fi-controller/internal/config"
)

// #endregion

// #region flags
var (
	flagConfig     string
	flagDevice     string
	flagBoard      string
	flagDict       string
	flagAddrDir    string
	flagDebug      bool
	flagGlobalSeed int64

	flagTimeProfile string
	flagTimeArgs    string
	flagAreaProfile string
	flagAreaArgs    string
	flagPoolFile    string
	flagSyncFile    string
	flagResultsDB   string

	flagPoolOut string

	flagStatsLimit    int
	flagStatsCampaign string
)

// #endregion

// #region commands
var (
	rootCmd = &cobra.Command{
		Use:          "fi-campaign",
		Short:        "FPGA fault-injection campaign engine",
		SilenceUsage: true,
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Build a target pool and run one injection campaign",
		RunE:  runCampaign,
	}

	poolCmd = &cobra.Command{
		Use:   "pool",
		Short: "Build a target pool and export it to a YAML file without injecting",
		RunE:  runPoolExport,
	}

	profilesCmd = &cobra.Command{
		Use:   "profiles",
		Short: "List the available area and time profiles",
		Run:   runProfiles,
	}

	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Show recorded campaigns from the results database",
		RunE:  runStats,
	}
)

// #endregion

// #region wiring
func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagConfig, "config", "c", "", "YAML config file (overlays defaults)")
	pf.StringVar(&flagDevice, "device", "", "serial device for the SEM monitor")
	pf.StringVar(&flagBoard, "board", "", "board name (overrides dictionary resolution)")
	pf.StringVar(&flagDict, "dict", "", "system dictionary path")
	pf.StringVar(&flagAddrDir, "addr-dir", "", "directory of pre-decoded region address lists")
	pf.BoolVar(&flagDebug, "debug", false, "run without hardware (no-op backends)")
	pf.Int64Var(&flagGlobalSeed, "seed", 0, "global seed (area/time seeds derive from it)")

	for _, cmd := range []*cobra.Command{runCmd, poolCmd} {
		f := cmd.Flags()
		f.StringVar(&flagAreaProfile, "area", "", "area profile name")
		f.StringVar(&flagAreaArgs, "area-args", "", "area profile arguments, k=v;k=v")
		f.StringVar(&flagPoolFile, "pool-file", "", "pre-built YAML pool (skips area selection)")
	}

	rf := runCmd.Flags()
	rf.StringVar(&flagTimeProfile, "time", "", "time profile name")
	rf.StringVar(&flagTimeArgs, "time-args", "", "time profile arguments, k=v;k=v")
	rf.StringVar(&flagSyncFile, "sync-file", "", "benchmark sync signal file")
	rf.StringVar(&flagResultsDB, "results-db", "", "results database path")

	poolCmd.Flags().StringVarP(&flagPoolOut, "out", "o", "", "output pool file path")

	sf := statsCmd.Flags()
	sf.IntVar(&flagStatsLimit, "limit", 20, "number of campaigns to list")
	sf.StringVar(&flagStatsCampaign, "campaign", "", "show per-module outcomes for one campaign")

	rootCmd.AddCommand(runCmd, poolCmd, profilesCmd, statsCmd)
}

// #endregion

// #region config-resolution

// loadConfig builds the effective configuration: defaults, optional .env
// for device settings, optional YAML file, then explicit flags on top.
func loadConfig() (config.Config, error) {
	_ = godotenv.Load()

	cfg := config.DefaultConfig()
	if v := os.Getenv("FI_DEVICE"); v != "" {
		cfg.Device = v
	}
	if v := os.Getenv("FI_SYSTEM_DICT"); v != "" {
		cfg.SystemDictPath = v
	}

	if flagConfig != "" {
		loaded, err := config.LoadFile(flagConfig, cfg)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if flagDevice != "" {
		cfg.Device = flagDevice
	}
	if flagBoard != "" {
		cfg.BoardName = flagBoard
	}
	if flagDict != "" {
		cfg.SystemDictPath = flagDict
	}
	if flagAddrDir != "" {
		cfg.AddressListDir = flagAddrDir
	}
	if flagDebug {
		cfg.Debug = true
	}
	if rootCmd.PersistentFlags().Changed("seed") {
		seed := flagGlobalSeed
		cfg.GlobalSeed = &seed
	}
	if flagAreaProfile != "" {
		cfg.AreaProfile = flagAreaProfile
	}
	if flagAreaArgs != "" {
		cfg.AreaArgs = flagAreaArgs
	}
	if flagPoolFile != "" {
		cfg.PoolFilePath = flagPoolFile
	}
	if flagTimeProfile != "" {
		cfg.TimeProfile = flagTimeProfile
	}
	if flagTimeArgs != "" {
		cfg.TimeArgs = flagTimeArgs
	}
	if flagSyncFile != "" {
		cfg.SyncFile = flagSyncFile
	}
	if flagResultsDB != "" {
		cfg.ResultsDBPath = flagResultsDB
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// #endregion
