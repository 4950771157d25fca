package backend

// #region imports
import (
	"io"
	"log"

	"github.com/fatori-v/fi-controller/internal/config"
	"github.com/fatori-v/fi-controller/internal/target"
)

// #endregion

// #region factory

// ForRequirements opens only the backends the pool actually exercises; the
// unused kind gets a no-op so the controller never branches on nil. Debug
// mode replaces both with no-ops regardless of requirements.
func ForRequirements(req target.BackendRequirements, cfg config.Config, serial io.Writer) (ConfigBackend, RegisterBackend, error) {
	if cfg.Debug {
		log.Printf("[BACKEND] debug mode, all injections are no-ops")
		return NoOpConfigBackend{}, NoOpRegisterBackend{}, nil
	}

	var configBackend ConfigBackend = NoOpConfigBackend{}
	var regBackend RegisterBackend = NoOpRegisterBackend{}

	if req.Config {
		configBackend = NewSEMBackend(serial)
	}
	if req.Reg {
		board, err := NewBoardBackend(serial, cfg.WireIdleID, cfg.WireRegIDWidth)
		if err != nil {
			return nil, nil, err
		}
		regBackend = board
	}
	return configBackend, regBackend, nil
}

// #endregion
