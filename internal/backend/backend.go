// Package backend holds the injection backends: the thin write-side
// adapters between the campaign controller and the hardware link.
//
// Both backends are fire-and-forget. Time profiles depend on precise
// dispatch timing, so an inject call sends its command and returns without
// waiting for any hardware acknowledgment; a nil error means the command
// was sent, not that the fault landed.
package backend

// #region interfaces

// ConfigBackend injects one configuration bit by its LFA address.
type ConfigBackend interface {
	InjectConfig(address string) error
}

// RegisterBackend injects one design register by ID. bitIndex selects a bit
// within the register; pass NoBitIndex for register-level injection.
type RegisterBackend interface {
	InjectRegister(regID, bitIndex int) error
}

// NoBitIndex marks an injection that targets the whole register.
const NoBitIndex = -1

// #endregion
