package backend

// #region imports
import "log"

// #endregion

// #region noop

// NoOpConfigBackend logs injection requests without touching hardware.
// Used in debug runs and whenever the pool carries no CONFIG targets.
type NoOpConfigBackend struct{}

func (NoOpConfigBackend) InjectConfig(address string) error {
	log.Printf("[SEM] noop: would inject lfa=%s", address)
	return nil
}

// NoOpRegisterBackend logs injection requests without touching hardware.
type NoOpRegisterBackend struct{}

func (NoOpRegisterBackend) InjectRegister(regID, bitIndex int) error {
	if bitIndex == NoBitIndex {
		log.Printf("[BOARD] noop: would inject reg_id=%d", regID)
	} else {
		log.Printf("[BOARD] noop: would inject reg_id=%d bit=%d", regID, bitIndex)
	}
	return nil
}

// #endregion
