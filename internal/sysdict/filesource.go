package sysdict

// #region imports
import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// #endregion

// #region file-source

// FileAddressSource resolves regions against pre-decoded address-list files:
// one file per region under a directory, one hex address per line, blank
// lines and '#' comments skipped. Bitstream decoding happens offline; this
// source only reads its output.
//
// Region names become file names with every non-alphanumeric rune replaced
// by '_' (clock region coordinates contain ':'), plus an ".addr" suffix.
type FileAddressSource struct {
	dir string
}

// NewFileAddressSource points the source at an address-list directory.
func NewFileAddressSource(dir string) *FileAddressSource {
	return &FileAddressSource{dir: dir}
}

// RegionFileName maps a region string to its address-list file name.
func RegionFileName(region string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, region)
	return sanitized + ".addr"
}

// Addresses reads the region's address list in file order.
func (f *FileAddressSource) Addresses(region string) ([]string, error) {
	path := filepath.Join(f.dir, RegionFileName(region))
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("address list for region %q: %w", region, err)
	}
	defer file.Close()

	var addrs []string
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.ContainsFunc(line, func(r rune) bool {
			return !isHexDigit(r)
		}) {
			return nil, fmt.Errorf("address list %s line %d: %q is not a hex address",
				path, lineNo, line)
		}
		addrs = append(addrs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read address list %s: %w", path, err)
	}
	return addrs, nil
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// #endregion
