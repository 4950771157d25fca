package target

// #region imports
import (
	"errors"
	"fmt"
)

// #endregion

// #region kind

// Kind classifies an injection target.
//
// Every target in the system is either a configuration bit (logic, LUTs,
// routing) injected through the SEM monitor, or a design register injected
// through the board interface.
type Kind string

const (
	KindConfig Kind = "CONFIG" // configuration bit, addressed by LFA string
	KindReg    Kind = "REG"    // register, addressed by integer ID
)

// Kinds lists every target kind in stable order.
var Kinds = []Kind{KindConfig, KindReg}

// #endregion

// #region errors

// ErrInvalidTarget is returned when a target's fields do not match its kind.
var ErrInvalidTarget = errors.New("invalid target")

// #endregion

// #region target

// Target is a single injectable unit, immutable after construction.
//
// Exactly one of ConfigAddress/RegID is populated, consistent with Kind.
// Use NewConfigTarget or NewRegisterTarget; zero-value Targets are not valid.
type Target struct {
	Kind       Kind   `yaml:"kind"`
	ModuleName string `yaml:"module_name"`

	// CONFIG kind
	ConfigAddress string `yaml:"config_address,omitempty"` // opaque hex LFA
	PblockName    string `yaml:"pblock_name,omitempty"`    // informational

	// REG kind
	RegID   int    `yaml:"reg_id,omitempty"`
	RegName string `yaml:"reg_name,omitempty"` // informational

	// Provenance tag, e.g. "profile:modules" or "pool:file".
	Source string `yaml:"source,omitempty"`
}

// #endregion

// #region constructors

// NewConfigTarget builds a CONFIG target and validates its fields.
func NewConfigTarget(moduleName, configAddress, pblockName, source string) (Target, error) {
	t := Target{
		Kind:          KindConfig,
		ModuleName:    moduleName,
		ConfigAddress: configAddress,
		PblockName:    pblockName,
		Source:        source,
	}
	if err := t.Validate(); err != nil {
		return Target{}, err
	}
	return t, nil
}

// NewRegisterTarget builds a REG target and validates its fields.
// RegID 0 is reserved as the idle ID on the wire, so valid IDs start at 1.
func NewRegisterTarget(moduleName string, regID int, regName, source string) (Target, error) {
	t := Target{
		Kind:       KindReg,
		ModuleName: moduleName,
		RegID:      regID,
		RegName:    regName,
		Source:     source,
	}
	if err := t.Validate(); err != nil {
		return Target{}, err
	}
	return t, nil
}

// #endregion

// #region validate

// Validate checks the kind/field invariant. Callers building Targets by hand
// (e.g. the pool file loader) must call this before use.
func (t Target) Validate() error {
	switch t.Kind {
	case KindConfig:
		if t.ConfigAddress == "" {
			return fmt.Errorf("%w: CONFIG target must have config_address (module=%s)",
				ErrInvalidTarget, t.ModuleName)
		}
		if t.RegID != 0 {
			return fmt.Errorf("%w: CONFIG target must not carry reg_id (module=%s)",
				ErrInvalidTarget, t.ModuleName)
		}
	case KindReg:
		if t.RegID < 1 {
			return fmt.Errorf("%w: REG target must have reg_id >= 1 (module=%s)",
				ErrInvalidTarget, t.ModuleName)
		}
		if t.ConfigAddress != "" {
			return fmt.Errorf("%w: REG target must not carry config_address (module=%s)",
				ErrInvalidTarget, t.ModuleName)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q (module=%s)",
			ErrInvalidTarget, t.Kind, t.ModuleName)
	}
	return nil
}

// #endregion

// #region describe

// Describe returns a short human-readable identifier for log lines.
func (t Target) Describe() string {
	if t.Kind == KindConfig {
		return fmt.Sprintf("%s/CONFIG@%s", t.ModuleName, t.ConfigAddress)
	}
	return fmt.Sprintf("%s/REG#%d", t.ModuleName, t.RegID)
}

// #endregion
