// Package store persists campaign results in SQLite: one row per campaign
// run, one row per injection. It doubles as the controller's sink.
package store

// #region imports
import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/fatori-v/fi-controller/internal/target"
)

// #endregion

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS campaigns (
	campaign_id   TEXT PRIMARY KEY,
	board_name    TEXT NOT NULL,
	area_profile  TEXT NOT NULL,
	time_profile  TEXT NOT NULL,
	global_seed   INTEGER NOT NULL,
	pool_size     INTEGER NOT NULL,
	started_at    TEXT NOT NULL,
	finished_at   TEXT,
	total         INTEGER NOT NULL DEFAULT 0,
	successes     INTEGER NOT NULL DEFAULT 0,
	failures      INTEGER NOT NULL DEFAULT 0,
	termination   TEXT NOT NULL DEFAULT 'unknown'
);

CREATE TABLE IF NOT EXISTS injections (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	campaign_id    TEXT NOT NULL,
	kind           TEXT NOT NULL,
	module_name    TEXT NOT NULL,
	config_address TEXT,
	reg_id         INTEGER,
	success        INTEGER NOT NULL,
	injected_at    TEXT NOT NULL,
	FOREIGN KEY (campaign_id) REFERENCES campaigns(campaign_id)
);

CREATE INDEX IF NOT EXISTS idx_injections_campaign
	ON injections(campaign_id);
`

// #endregion schema

// #region store-struct

// Store records campaigns and their injections.
type Store struct {
	db *sql.DB

	// Active campaign; RecordInjection attributes rows to it.
	campaignID string
}

// #endregion store-struct

// #region constructor

// NewStore opens the results database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion constructor

// #region campaign-lifecycle

// CampaignRecord mirrors one campaigns row.
type CampaignRecord struct {
	CampaignID  string
	BoardName   string
	AreaProfile string
	TimeProfile string
	GlobalSeed  int64
	PoolSize    int
	StartedAt   time.Time
	FinishedAt  time.Time
	Total       int
	Successes   int
	Failures    int
	Termination string
}

// StartCampaign opens a new campaign row and makes it the active one.
func (s *Store) StartCampaign(boardName, areaProfile, timeProfile string, globalSeed int64, poolSize int) (string, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.Exec(
		`INSERT INTO campaigns (campaign_id, board_name, area_profile, time_profile,
		 global_seed, pool_size, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, boardName, areaProfile, timeProfile, globalSeed, poolSize,
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert campaign: %w", err)
	}
	s.campaignID = id
	return id, nil
}

// FinishCampaign closes the active campaign row with its final outcome.
func (s *Store) FinishCampaign(total, successes, failures int, termination string) error {
	if s.campaignID == "" {
		return fmt.Errorf("no active campaign")
	}
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`UPDATE campaigns
		 SET finished_at = ?, total = ?, successes = ?, failures = ?, termination = ?
		 WHERE campaign_id = ?`,
		now.Format(time.RFC3339Nano), total, successes, failures, termination, s.campaignID,
	)
	if err != nil {
		return fmt.Errorf("finish campaign: %w", err)
	}
	return nil
}

// #endregion campaign-lifecycle

// #region sink

// RecordInjection appends one injection row for the active campaign.
// Implements the controller's sink contract.
func (s *Store) RecordInjection(t target.Target, success bool, at time.Time) error {
	if s.campaignID == "" {
		return fmt.Errorf("no active campaign")
	}

	var configAddress any
	var regID any
	if t.Kind == target.KindConfig {
		configAddress = t.ConfigAddress
	} else {
		regID = t.RegID
	}

	_, err := s.db.Exec(
		`INSERT INTO injections (campaign_id, kind, module_name, config_address, reg_id,
		 success, injected_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.campaignID, string(t.Kind), t.ModuleName, configAddress, regID,
		boolToInt(success), at.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert injection: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion sink

// #region queries

// ListCampaigns returns campaigns newest-first.
func (s *Store) ListCampaigns(limit int) ([]CampaignRecord, error) {
	if limit < 1 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT campaign_id, board_name, area_profile, time_profile, global_seed,
		 pool_size, started_at, COALESCE(finished_at, ''), total, successes, failures, termination
		 FROM campaigns ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var out []CampaignRecord
	for rows.Next() {
		var rec CampaignRecord
		var started, finished string
		if err := rows.Scan(&rec.CampaignID, &rec.BoardName, &rec.AreaProfile,
			&rec.TimeProfile, &rec.GlobalSeed, &rec.PoolSize, &started, &finished,
			&rec.Total, &rec.Successes, &rec.Failures, &rec.Termination); err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		rec.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		if finished != "" {
			rec.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ModuleOutcome aggregates injections by module and kind for one campaign.
type ModuleOutcome struct {
	ModuleName string
	Kind       target.Kind
	Total      int
	Successes  int
}

// CampaignOutcomes breaks one campaign's injections down by module×kind.
func (s *Store) CampaignOutcomes(campaignID string) ([]ModuleOutcome, error) {
	rows, err := s.db.Query(
		`SELECT module_name, kind, COUNT(*), SUM(success)
		 FROM injections WHERE campaign_id = ?
		 GROUP BY module_name, kind ORDER BY module_name, kind`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("campaign outcomes: %w", err)
	}
	defer rows.Close()

	var out []ModuleOutcome
	for rows.Next() {
		var mo ModuleOutcome
		var kind string
		if err := rows.Scan(&mo.ModuleName, &kind, &mo.Total, &mo.Successes); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		mo.Kind = target.Kind(kind)
		out = append(out, mo)
	}
	return out, rows.Err()
}

// #endregion queries
