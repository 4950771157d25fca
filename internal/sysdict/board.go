package sysdict

// #region imports
import (
	"fmt"
	"log"
)

// #endregion

// #region resolution

// ResolveBoardName picks the board a campaign runs against.
//
// Priority: explicit CLI value, then auto-detect when the dictionary has a
// single board, then the configured default. Anything else is an error; a
// campaign must never guess between boards.
func ResolveBoardName(cliBoard, defaultBoard string, sd *SystemDict) (string, error) {
	if cliBoard != "" {
		if _, ok := sd.Boards[cliBoard]; !ok {
			return "", fmt.Errorf("board %q not found in system dictionary, available: %v",
				cliBoard, sd.BoardNames())
		}
		return cliBoard, nil
	}

	if len(sd.Boards) == 1 {
		for name := range sd.Boards {
			log.Printf("[DICT] single board %q, auto-selected", name)
			return name, nil
		}
	}

	if _, ok := sd.Boards[defaultBoard]; ok {
		log.Printf("[DICT] multiple boards, falling back to default %q", defaultBoard)
		return defaultBoard, nil
	}

	return "", fmt.Errorf("cannot resolve board: dictionary has %d boards, none selected "+
		"and default %q is absent, available: %v",
		len(sd.Boards), defaultBoard, sd.BoardNames())
}

// #endregion
