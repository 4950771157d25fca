package main

// #region imports
import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fatori-v/fi-controller/internal/target"
)

// #endregion

// #region pool-export

func runPoolExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	seeds := cfg.ResolveSeeds()
	log.Printf("[POOL] seeds: %s", seeds.Describe())

	pool, boardName, areaName, err := buildPool(cfg, seeds.Area)
	if err != nil {
		return err
	}

	out := flagPoolOut
	if out == "" {
		out = filepath.Join(cfg.PoolOutputDir, fmt.Sprintf("%s-%s.yaml", boardName, areaName))
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("pool output dir: %w", err)
	}
	if err := target.SavePoolFile(out, pool); err != nil {
		return err
	}
	log.Printf("[POOL] exported %d targets to %s", pool.Len(), out)
	return nil
}

// #endregion
