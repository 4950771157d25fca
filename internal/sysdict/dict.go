// Package sysdict loads the system dictionary: the per-board hardware
// description (modules, registers, pblock regions) that area selection
// resolves targets against.
package sysdict

// #region imports
import (
	"fmt"
	"log"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// #endregion

// #region types

// PblockInfo names a physical region of the fabric that one module occupies.
type PblockInfo struct {
	Name   string `yaml:"name"`
	Region string `yaml:"region"` // clock region coordinates, opaque here
}

// ModuleInfo describes one logical hardware block: its registers by ID and
// its physical placement.
type ModuleInfo struct {
	Description string     `yaml:"description"`
	Registers   []int      `yaml:"registers"`
	Pblock      PblockInfo `yaml:"pblock"`
}

// RegisterInfo is one design register.
type RegisterInfo struct {
	RegID int    `yaml:"reg_id"`
	Name  string `yaml:"name"`
}

// BoardDict is the complete hardware description for one FPGA board.
type BoardDict struct {
	FullDeviceRegion string                `yaml:"full_device_region"`
	Registers        []RegisterInfo        `yaml:"registers"`
	Modules          map[string]ModuleInfo `yaml:"modules"`
}

// SystemDict maps board names to their descriptions. A dictionary file may
// describe several boards; board resolution picks one per campaign.
type SystemDict struct {
	Boards     map[string]BoardDict
	SourcePath string
}

// #endregion

// #region load

// Load reads and validates a system dictionary YAML file.
//
// Top-level keys are board names; each board needs full_device_region and
// well-formed register and module entries. A single malformed entry fails
// the whole load.
func Load(path string) (*SystemDict, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read system dictionary: %w", err)
	}

	boards := map[string]BoardDict{}
	if err := yaml.Unmarshal(raw, &boards); err != nil {
		return nil, fmt.Errorf("parse system dictionary %s: %w", path, err)
	}
	if len(boards) == 0 {
		return nil, fmt.Errorf("system dictionary %s contains no boards", path)
	}

	totalModules := 0
	for name, board := range boards {
		if err := validateBoard(name, board); err != nil {
			return nil, fmt.Errorf("system dictionary %s: %w", path, err)
		}
		totalModules += len(board.Modules)
	}

	sd := &SystemDict{Boards: boards, SourcePath: path}
	log.Printf("[DICT] loaded %s: %d boards, %d modules", path, len(boards), totalModules)
	return sd, nil
}

func validateBoard(name string, board BoardDict) error {
	if board.FullDeviceRegion == "" {
		return fmt.Errorf("board %q missing full_device_region", name)
	}
	known := make(map[int]bool, len(board.Registers))
	for i, reg := range board.Registers {
		if reg.RegID < 1 {
			return fmt.Errorf("board %q register entry %d: reg_id must be >= 1, got %d",
				name, i, reg.RegID)
		}
		if known[reg.RegID] {
			return fmt.Errorf("board %q: duplicate reg_id %d", name, reg.RegID)
		}
		known[reg.RegID] = true
	}
	for moduleName, module := range board.Modules {
		if module.Pblock.Name == "" || module.Pblock.Region == "" {
			return fmt.Errorf("board %q module %q: pblock needs name and region",
				name, moduleName)
		}
		for _, regID := range module.Registers {
			if !known[regID] {
				return fmt.Errorf("board %q module %q references unknown reg_id %d",
					name, moduleName, regID)
			}
		}
	}
	return nil
}

// #endregion

// #region lookup

// BoardNames lists the boards the dictionary describes.
func (sd *SystemDict) BoardNames() []string {
	names := make([]string, 0, len(sd.Boards))
	for name := range sd.Boards {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Board returns one board's description.
func (sd *SystemDict) Board(name string) (BoardDict, error) {
	board, ok := sd.Boards[name]
	if !ok {
		return BoardDict{}, fmt.Errorf("board %q not found, available: %v",
			name, sd.BoardNames())
	}
	return board, nil
}

// RegisterName resolves a reg_id to its design name, or "" if unknown.
func (bd BoardDict) RegisterName(regID int) string {
	for _, reg := range bd.Registers {
		if reg.RegID == regID {
			return reg.Name
		}
	}
	return ""
}

// #endregion
