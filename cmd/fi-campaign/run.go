package main

// #region imports
import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fatori-v/fi-controller/internal/area"
	"github.com/fatori-v/fi-controller/internal/backend"
	"github.com/fatori-v/fi-controller/internal/campaign"
	"github.com/fatori-v/fi-controller/internal/config"
	"github.com/fatori-v/fi-controller/internal/profile"
	"github.com/fatori-v/fi-controller/internal/store"
	"github.com/fatori-v/fi-controller/internal/sysdict"
	"github.com/fatori-v/fi-controller/internal/target"
)

// #endregion

// #region pool-build

// buildPool runs area selection (or loads an explicit pool file) and returns
// the pool together with the resolved board and area profile names.
func buildPool(cfg config.Config, areaSeed int64) (*target.Pool, string, string, error) {
	areaName, areaArgs := cfg.AreaProfile, cfg.AreaArgs
	if cfg.PoolFilePath != "" {
		areaName = "target_list"
		areaArgs = "pool_file=" + cfg.PoolFilePath
	}

	builder, err := area.New(areaName, areaArgs, areaSeed)
	if err != nil {
		return nil, "", "", err
	}

	env := area.Env{
		RatioStrict:     cfg.RatioStrict,
		BreakRepeatOnly: cfg.PoolSizeBreakRepeatOnly,
		AbsoluteCap:     cfg.PoolAbsoluteCap,
	}
	boardName := cfg.BoardName
	if areaName != "target_list" {
		dict, err := sysdict.Load(cfg.SystemDictPath)
		if err != nil {
			return nil, "", "", err
		}
		boardName, err = sysdict.ResolveBoardName(cfg.BoardName, cfg.DefaultBoardName, dict)
		if err != nil {
			return nil, "", "", err
		}
		addrs, err := sysdict.NewCachedAddressSource(
			sysdict.NewFileAddressSource(cfg.AddressListDir), cfg.AddressCacheSize)
		if err != nil {
			return nil, "", "", err
		}
		env.Dict = dict
		env.BoardName = boardName
		env.Addresses = addrs
	}
	if boardName == "" {
		boardName = cfg.DefaultBoardName
	}

	pool, err := builder.BuildPool(env)
	if err != nil {
		return nil, "", "", err
	}
	logPoolStats(pool)
	return pool, boardName, areaName, nil
}

func logPoolStats(pool *target.Pool) {
	stats := pool.Stats()
	log.Printf("[POOL] %d targets (%d CONFIG, %d REG) across %d modules",
		stats.Total, stats.ByKind[target.KindConfig], stats.ByKind[target.KindReg],
		len(stats.ByModule))
}

// #endregion

// #region run

func runCampaign(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	seeds := cfg.ResolveSeeds()
	log.Printf("[CAMPAIGN] seeds: %s", seeds.Describe())

	pool, boardName, areaName, err := buildPool(cfg, seeds.Area)
	if err != nil {
		return err
	}

	st, err := store.NewStore(cfg.ResultsDBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	campaignID, err := st.StartCampaign(boardName, areaName, cfg.TimeProfile, seeds.Global, pool.Len())
	if err != nil {
		return err
	}
	log.Printf("[CAMPAIGN] campaign %s on board %s (area=%s time=%s)",
		campaignID, boardName, areaName, cfg.TimeProfile)

	if cfg.PoolAutoSave && areaName != "target_list" {
		if err := savePool(cfg.PoolOutputDir, campaignID, pool); err != nil {
			return err
		}
	}

	// Construct the profile before touching hardware so argument errors
	// abort with the port still closed.
	prof, err := profile.New(cfg.TimeProfile, cfg.TimeArgs, seeds.Time)
	if err != nil {
		return err
	}

	var serial io.Writer
	if !cfg.Debug {
		f, err := os.OpenFile(cfg.Device, os.O_RDWR, 0)
		if err != nil {
			return fmt.Errorf("open serial device (use --debug for a dry run): %w", err)
		}
		defer f.Close()
		serial = f
	}
	configBackend, regBackend, err := backend.ForRequirements(pool.BackendRequirements(), cfg, serial)
	if err != nil {
		return err
	}

	var bsync *campaign.BenchmarkSync
	if cfg.SyncEnabled() {
		bsync, err = campaign.NewBenchmarkSync(cfg.SyncFile,
			time.Duration(cfg.SyncCheckIntervalS*float64(time.Second)), cfg.SyncCheckEveryN)
		if err != nil {
			return err
		}
		if !bsync.WaitForReady(time.Duration(cfg.SyncTimeoutS * float64(time.Second))) {
			return fmt.Errorf("benchmark never signalled ready at %s", cfg.SyncFile)
		}
	}

	ctrl := campaign.NewController(pool, configBackend, regBackend, st, bsync)

	// SIGINT/SIGTERM stop the loop cooperatively; the handler closes over
	// the controller instead of touching shared globals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		s := <-sigs
		log.Printf("[CAMPAIGN] received %v, stopping after current injection", s)
		ctrl.SetTerminationReason(campaign.ReasonUserInterrupt)
		ctrl.RequestStop()
	}()

	started := time.Now()
	prof.Run(ctrl)

	stats := ctrl.Stats()
	log.Printf("[CAMPAIGN] finished in %v: %s", time.Since(started).Round(time.Millisecond), stats)
	if err := st.FinishCampaign(stats.Total, stats.Successes, stats.Failures, stats.TerminationReason); err != nil {
		return err
	}
	return nil
}

// savePool exports the built pool next to the results so the exact campaign
// can be replayed with --pool-file.
func savePool(dir, campaignID string, pool *target.Pool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("pool output dir: %w", err)
	}
	path := filepath.Join(dir, "pool-"+campaignID+".yaml")
	if err := target.SavePoolFile(path, pool); err != nil {
		return err
	}
	log.Printf("[POOL] saved pool to %s", path)
	return nil
}

// #endregion
