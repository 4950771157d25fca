package area

// #region imports
import (
	"fmt"
	"log"

	"github.com/fatori-v/fi-controller/internal/profile"
	"github.com/fatori-v/fi-controller/internal/target"
)

// #endregion

// #region target-list

// TargetList loads a pre-built pool from a YAML file. No expansion, no
// selection: the file order is the injection order, which makes campaigns
// exactly replayable from an exported pool.
type TargetList struct {
	path string
}

func newTargetList(args profile.Params, areaSeed int64) (Builder, error) {
	_ = areaSeed

	path := args.String("pool_file", "")
	if path == "" {
		return nil, fmt.Errorf("requires pool_file=<path>")
	}
	return &TargetList{path: path}, nil
}

// BuildPool reads the pool file; the environment is unused.
func (tl *TargetList) BuildPool(env Env) (*target.Pool, error) {
	_ = env

	pool, err := target.LoadPoolFile(tl.path)
	if err != nil {
		return nil, err
	}
	log.Printf("[POOL] loaded %d targets from %s", pool.Len(), tl.path)
	return pool, nil
}

// #endregion
