package sysdict

// #region imports
import (
	"fmt"
	"log"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
)

// #endregion

// #region address-source

// AddressSource yields the ordered configuration-bit addresses for a fabric
// region. The decoding itself (bitstream geometry, frame layout) lives
// behind this boundary; from here an address is an opaque hex string. An
// empty result is valid: some regions hold no essential bits.
type AddressSource interface {
	Addresses(region string) ([]string, error)
}

// #endregion

// #region cached-source

// CachedAddressSource memoizes region expansions behind an LRU. Expanding a
// clock region walks bitstream geometry and is the slowest step of pool
// building; campaigns that target the same pblocks repeatedly hit the cache.
type CachedAddressSource struct {
	inner AddressSource
	cache *lru.Cache[string, []string]
}

// NewCachedAddressSource wraps inner with an LRU of the given capacity.
func NewCachedAddressSource(inner AddressSource, capacity int) (*CachedAddressSource, error) {
	cache, err := lru.New[string, []string](capacity)
	if err != nil {
		return nil, fmt.Errorf("address cache: %w", err)
	}
	return &CachedAddressSource{inner: inner, cache: cache}, nil
}

// Addresses returns the cached expansion for region, expanding on miss.
// Cached slices are shared; callers must not mutate the result.
func (c *CachedAddressSource) Addresses(region string) ([]string, error) {
	if addrs, ok := c.cache.Get(region); ok {
		return addrs, nil
	}
	addrs, err := c.inner.Addresses(region)
	if err != nil {
		return nil, err
	}
	c.cache.Add(region, addrs)
	log.Printf("[DICT] expanded region %s: %d addresses", region, len(addrs))
	return addrs, nil
}

// #endregion

// #region register-index

// RegisterRef is one register of one module, resolved against the board's
// register table.
type RegisterRef struct {
	ModuleName string
	RegID      int
	RegName    string
}

// RegisterIndex lists the registers of the named modules in dictionary
// order, resolving each reg_id to its design name. An empty modules slice
// selects every module on the board.
func (bd BoardDict) RegisterIndex(modules []string) ([]RegisterRef, error) {
	if len(modules) == 0 {
		modules = make([]string, 0, len(bd.Modules))
		for name := range bd.Modules {
			modules = append(modules, name)
		}
		// Map order is randomized; campaigns must be reproducible.
		sort.Strings(modules)
	}

	var refs []RegisterRef
	for _, moduleName := range modules {
		module, ok := bd.Modules[moduleName]
		if !ok {
			return nil, fmt.Errorf("module %q not in board dictionary", moduleName)
		}
		for _, regID := range module.Registers {
			refs = append(refs, RegisterRef{
				ModuleName: moduleName,
				RegID:      regID,
				RegName:    bd.RegisterName(regID),
			})
		}
	}
	return refs, nil
}

// #endregion
