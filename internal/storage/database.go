package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/desglosa/internal/schedule"
	"github.com/desglosa/internal/tracker"
)

// Database is a snapshot store for the tracker state. It carries no
// computation of its own: every command loads the full state, applies the
// pure mutations, and writes the state back.
type Database struct {
	db *sql.DB
}

func New(path string) (*Database, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	database := &Database{db: db}
	if err := database.createTables(); err != nil {
		return nil, err
	}
	return database, nil
}

func (d *Database) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			position TEXT,
			shift_start TEXT,
			shift_end TEXT,
			work_start TEXT,
			work_end TEXT,
			total_hours REAL DEFAULT 0,
			extra_hours REAL DEFAULT 0,
			night_hours REAL DEFAULT 0,
			holiday_hours REAL DEFAULT 0,
			custom TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS positions (
			name TEXT PRIMARY KEY,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			standard_hours REAL DEFAULT 0,
			breakdowns TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS breakdowns (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			color TEXT,
			position_id TEXT,
			time_start TEXT,
			time_end TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS holidays (
			date TEXT PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS period (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			start_date TEXT,
			end_date TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_date ON entries(date)`,
	}

	for _, query := range queries {
		if _, err := d.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

// LoadState reads the whole snapshot. A store without positions is treated
// as fresh and comes back seeded with the default catalogs.
func (d *Database) LoadState() (*tracker.State, error) {
	state := &tracker.State{
		Positions:  map[string]schedule.Position{},
		Breakdowns: map[string]schedule.Breakdown{},
		Holidays:   schedule.HolidaySet{},
	}

	rows, err := d.db.Query(`SELECT name, start_time, end_time, standard_hours, breakdowns FROM positions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var p schedule.Position
		var breakdowns sql.NullString
		if err := rows.Scan(&name, &p.Start, &p.End, &p.StandardHours, &breakdowns); err != nil {
			return nil, err
		}
		if breakdowns.Valid && breakdowns.String != "" {
			if err := json.Unmarshal([]byte(breakdowns.String), &p.Breakdowns); err != nil {
				return nil, fmt.Errorf("corrupt breakdown list for position %s: %w", name, err)
			}
		}
		state.Positions[name] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(state.Positions) == 0 {
		return tracker.NewState(), nil
	}

	if err := d.loadBreakdowns(state); err != nil {
		return nil, err
	}
	if err := d.loadHolidays(state); err != nil {
		return nil, err
	}
	if err := d.loadPeriod(state); err != nil {
		return nil, err
	}
	if err := d.loadEntries(state); err != nil {
		return nil, err
	}
	return state, nil
}

func (d *Database) loadBreakdowns(state *tracker.State) error {
	rows, err := d.db.Query(`SELECT id, name, color, position_id, time_start, time_end FROM breakdowns`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var b schedule.Breakdown
		if err := rows.Scan(&id, &b.Name, &b.Color, &b.PositionID, &b.TimeStart, &b.TimeEnd); err != nil {
			return err
		}
		state.Breakdowns[id] = b
	}
	return rows.Err()
}

func (d *Database) loadHolidays(state *tracker.State) error {
	rows, err := d.db.Query(`SELECT date FROM holidays`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return err
		}
		state.Holidays[date] = true
	}
	return rows.Err()
}

func (d *Database) loadPeriod(state *tracker.State) error {
	var start, end sql.NullString
	err := d.db.QueryRow(`SELECT start_date, end_date FROM period WHERE id = 1`).Scan(&start, &end)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	if start.Valid && start.String != "" {
		if state.PeriodStart, err = parseDate(start.String); err != nil {
			return err
		}
	}
	if end.Valid && end.String != "" {
		if state.PeriodEnd, err = parseDate(end.String); err != nil {
			return err
		}
	}
	return nil
}

func (d *Database) loadEntries(state *tracker.State) error {
	rows, err := d.db.Query(
		`SELECT id, date, position, shift_start, shift_end, work_start, work_end,
		        total_hours, extra_hours, night_hours, holiday_hours, custom
		 FROM entries ORDER BY date`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var e schedule.Entry
		var date string
		var custom sql.NullString
		if err := rows.Scan(&e.ID, &date, &e.Position, &e.ShiftStart, &e.ShiftEnd,
			&e.WorkStart, &e.WorkEnd, &e.TotalHours, &e.ExtraHours,
			&e.NightHours, &e.HolidayHours, &custom); err != nil {
			return err
		}
		if e.Date, err = parseDate(date); err != nil {
			return err
		}
		e.Custom = map[string]schedule.BreakdownValue{}
		if custom.Valid && custom.String != "" {
			if err := json.Unmarshal([]byte(custom.String), &e.Custom); err != nil {
				return fmt.Errorf("corrupt custom hours for entry %s: %w", e.ID, err)
			}
		}
		state.Entries = append(state.Entries, e)
	}
	return rows.Err()
}

// SaveState writes the whole snapshot in one transaction, replacing the
// previous one.
func (d *Database) SaveState(state *tracker.State) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"entries", "positions", "breakdowns", "holidays", "period"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for name, p := range state.Positions {
		breakdowns, err := json.Marshal(p.Breakdowns)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(
			`INSERT INTO positions (name, start_time, end_time, standard_hours, breakdowns) VALUES (?, ?, ?, ?, ?)`,
			name, p.Start, p.End, p.StandardHours, string(breakdowns),
		); err != nil {
			return err
		}
	}

	for id, b := range state.Breakdowns {
		if _, err := tx.Exec(
			`INSERT INTO breakdowns (id, name, color, position_id, time_start, time_end) VALUES (?, ?, ?, ?, ?, ?)`,
			id, b.Name, b.Color, b.PositionID, b.TimeStart, b.TimeEnd,
		); err != nil {
			return err
		}
	}

	for date := range state.Holidays {
		if _, err := tx.Exec(`INSERT INTO holidays (date) VALUES (?)`, date); err != nil {
			return err
		}
	}

	if state.HasPeriod() {
		if _, err := tx.Exec(
			`INSERT INTO period (id, start_date, end_date) VALUES (1, ?, ?)`,
			state.PeriodStart.Format(schedule.DateLayout),
			state.PeriodEnd.Format(schedule.DateLayout),
		); err != nil {
			return err
		}
	}

	for _, e := range state.Entries {
		custom, err := json.Marshal(e.Custom)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(
			`INSERT INTO entries (id, date, position, shift_start, shift_end, work_start, work_end,
			                      total_hours, extra_hours, night_hours, holiday_hours, custom)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Date.Format(schedule.DateLayout), e.Position,
			e.ShiftStart, e.ShiftEnd, e.WorkStart, e.WorkEnd,
			e.TotalHours, e.ExtraHours, e.NightHours, e.HolidayHours,
			string(custom),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(schedule.DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt stored date %q: %w", s, err)
	}
	return t, nil
}
