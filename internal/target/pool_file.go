package target

// #region imports
import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// #endregion

// #region file-format

// poolFile is the on-disk YAML layout for explicit pools.
//
//	targets:
//	  - kind: CONFIG
//	    module_name: alu
//	    config_address: "00001234"
//	    pblock_name: alu_pb
//	  - kind: REG
//	    module_name: decoder
//	    reg_id: 5
//	    reg_name: dec_rec_q
type poolFile struct {
	Targets []Target `yaml:"targets"`
}

// #endregion

// #region load

// LoadPoolFile reads a pre-built pool from a YAML file, preserving file
// order. Every entry is validated; a single invalid target fails the load
// rather than being silently skipped.
func LoadPoolFile(path string) (*Pool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pool file: %w", err)
	}

	var pf poolFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return nil, fmt.Errorf("parse pool file %s: %w", path, err)
	}
	if len(pf.Targets) == 0 {
		return nil, fmt.Errorf("pool file %s has no targets", path)
	}

	pool := NewPool()
	for i, t := range pf.Targets {
		if t.Source == "" {
			t.Source = "pool:file"
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("pool file %s entry %d: %w", path, i, err)
		}
		pool.Add(t)
	}
	return pool, nil
}

// #endregion

// #region save

// SavePoolFile writes a pool to a YAML file in injection order, so a built
// pool can be replayed later with --pool-file.
func SavePoolFile(path string, pool *Pool) error {
	pf := poolFile{Targets: make([]Target, 0, pool.Len())}

	// Snapshot without disturbing the cursor.
	pos := pool.position
	pool.Reset()
	for t := pool.PopNext(); t != nil; t = pool.PopNext() {
		pf.Targets = append(pf.Targets, *t)
	}
	pool.position = pos

	raw, err := yaml.Marshal(&pf)
	if err != nil {
		return fmt.Errorf("marshal pool: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write pool file: %w", err)
	}
	return nil
}

// #endregion
