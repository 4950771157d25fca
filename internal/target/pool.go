package target

// #region stats

// KindCounts maps a kind to how many targets of that kind a pool holds.
type KindCounts map[Kind]int

// PoolStats is a snapshot of pool composition and consumption state.
type PoolStats struct {
	Total     int
	ByKind    KindCounts
	ByModule  map[string]KindCounts
	Position  int
	Remaining int
}

// BackendRequirements reports which injection backends a pool needs.
// Campaign setup opens only the backends the pool actually exercises.
type BackendRequirements struct {
	Config bool // pool contains CONFIG targets (SEM backend)
	Reg    bool // pool contains REG targets (board backend)
}

// #endregion

// #region pool

// Pool is a flat list of Targets in injection order, plus a read cursor.
//
// The pool is deliberately passive: area selection builds it, one time
// profile consumes it through the controller, and it is discarded at
// campaign end. It never reorders or drops entries; the cursor only moves
// forward (until Reset).
type Pool struct {
	targets  []Target
	position int
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// #endregion

// #region append

// Add appends a single target. Targets are appended in the order they will
// be injected; ordering decisions belong to the selection stage.
func (p *Pool) Add(t Target) {
	p.targets = append(p.targets, t)
}

// AddMany appends a batch of targets.
func (p *Pool) AddMany(ts []Target) {
	p.targets = append(p.targets, ts...)
}

// #endregion

// #region iteration

// PopNext returns the next target in sequence and advances the cursor,
// or nil when the pool is exhausted.
func (p *Pool) PopNext() *Target {
	if p.position >= len(p.targets) {
		return nil
	}
	t := &p.targets[p.position]
	p.position++
	return t
}

// Reset rewinds the cursor without altering contents, so a drained pool
// replays the exact original sequence.
func (p *Pool) Reset() {
	p.position = 0
}

// Len returns the total number of targets (not the remaining count).
func (p *Pool) Len() int {
	return len(p.targets)
}

// Remaining returns how many targets the cursor has not yet passed.
func (p *Pool) Remaining() int {
	return len(p.targets) - p.position
}

// #endregion

// #region counting

// CountByKind counts targets per kind. Both kinds are always present in the
// result, even at zero.
func (p *Pool) CountByKind() KindCounts {
	counts := KindCounts{}
	for _, k := range Kinds {
		counts[k] = 0
	}
	for i := range p.targets {
		counts[p.targets[i].Kind]++
	}
	return counts
}

// CountByModule counts targets per module and kind.
func (p *Pool) CountByModule() map[string]KindCounts {
	counts := map[string]KindCounts{}
	for i := range p.targets {
		t := &p.targets[i]
		mc, ok := counts[t.ModuleName]
		if !ok {
			mc = KindCounts{KindConfig: 0, KindReg: 0}
			counts[t.ModuleName] = mc
		}
		mc[t.Kind]++
	}
	return counts
}

// Stats returns a full composition/consumption snapshot.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		Total:     p.Len(),
		ByKind:    p.CountByKind(),
		ByModule:  p.CountByModule(),
		Position:  p.position,
		Remaining: p.Remaining(),
	}
}

// BackendRequirements reports which backend kinds are present.
func (p *Pool) BackendRequirements() BackendRequirements {
	byKind := p.CountByKind()
	return BackendRequirements{
		Config: byKind[KindConfig] > 0,
		Reg:    byKind[KindReg] > 0,
	}
}

// #endregion
