// Package storage persists rileva's state as JSON files under one data
// directory. Every write is atomic and corrupt files are set aside rather
// than overwritten.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/Tiliavir/rileva/internal/model"
)

// DefaultHistoryLimit bounds the export history.
const DefaultHistoryLimit = 50

// Kind identifies what a Change touched.
type Kind string

const (
	KindMonthlyData   Kind = "monthlyData"
	KindExtracts      Kind = "extracts"
	KindProfile       Kind = "profile"
	KindCurrentMonth  Kind = "currentMonth"
	KindExportHistory Kind = "exportHistory"
	KindHolidays      Kind = "holidays"
)

// Change is delivered to subscribers after a successful write. Month is set
// for monthly data only.
type Change struct {
	Kind  Kind
	Month model.MonthKey
}

// BaseDir returns the default data directory (~/.rileva).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".rileva"), nil
}

type monthFile struct {
	Month   model.MonthKey   `json:"month"`
	Entries []model.DayEntry `json:"entries"`
}

type profileFile struct {
	EmployeeName string         `json:"employeeName,omitempty"`
	AdminEmail   string         `json:"adminEmail,omitempty"`
	CurrentMonth model.MonthKey `json:"currentMonth,omitempty"`
}

// Store is the file-backed gateway. It is safe for concurrent use within one
// process; it assumes it is the only writer of its directory.
type Store struct {
	base         string
	historyLimit int

	mu sync.Mutex

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(Change)
}

// Open returns a store rooted at base. historyLimit <= 0 selects
// DefaultHistoryLimit.
func Open(base string, historyLimit int) (*Store, error) {
	if base == "" {
		return nil, fmt.Errorf("storage error: empty data directory")
	}
	if err := os.MkdirAll(base, 0o700); err != nil {
		return nil, fmt.Errorf("storage error creating %s: %w", base, err)
	}
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Store{base: base, historyLimit: historyLimit, subs: map[int]func(Change){}}, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.base }

// Subscribe registers fn for every subsequent change and returns a function
// that removes it. fn runs on the writing goroutine after the write.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) notify(c Change) {
	s.subMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Change), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

func (s *Store) monthPath(m model.MonthKey) string {
	return filepath.Join(s.base, "months", string(m)+".json")
}

func (s *Store) path(name string) string {
	return filepath.Join(s.base, name)
}

// MonthlyData returns the stored entries of m, or nil if none were saved.
func (s *Store) MonthlyData(m model.MonthKey) ([]model.DayEntry, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("storage error: invalid month %q", m)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.monthlyDataLocked(m)
}

func (s *Store) monthlyDataLocked(m model.MonthKey) ([]model.DayEntry, error) {
	var mf monthFile
	found, err := readJSON(s.monthPath(m), &mf)
	if err != nil || !found {
		return nil, err
	}
	return mf.Entries, nil
}

// SaveMonthlyData stores entries for m. When they equal what is already
// stored nothing is written, no change is published and changed is false.
func (s *Store) SaveMonthlyData(m model.MonthKey, entries []model.DayEntry) (bool, error) {
	if !m.Valid() {
		return false, fmt.Errorf("storage error: invalid month %q", m)
	}
	s.mu.Lock()
	current, err := s.monthlyDataLocked(m)
	if err != nil {
		s.mu.Unlock()
		return false, err
	}
	if current != nil && model.EntriesEqual(current, entries) {
		s.mu.Unlock()
		return false, nil
	}
	if entries == nil {
		entries = []model.DayEntry{}
	}
	err = writeJSON(s.monthPath(m), monthFile{Month: m, Entries: entries})
	s.mu.Unlock()
	if err != nil {
		return false, err
	}
	s.notify(Change{Kind: KindMonthlyData, Month: m})
	return true, nil
}

// ClearMonthlyData removes the stored entries of m.
func (s *Store) ClearMonthlyData(m model.MonthKey) error {
	if !m.Valid() {
		return fmt.Errorf("storage error: invalid month %q", m)
	}
	s.mu.Lock()
	err := os.Remove(s.monthPath(m))
	s.mu.Unlock()
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("storage error removing %s: %w", s.monthPath(m), err)
	}
	s.notify(Change{Kind: KindMonthlyData, Month: m})
	return nil
}

// StoredMonths lists the months that have saved entries, ascending.
func (s *Store) StoredMonths() ([]model.MonthKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matches, err := filepath.Glob(filepath.Join(s.base, "months", "*.json"))
	if err != nil {
		return nil, fmt.Errorf("storage error listing months: %w", err)
	}
	var months []model.MonthKey
	for _, p := range matches {
		base := filepath.Base(p)
		k := model.MonthKey(base[:len(base)-len(".json")])
		if k.Valid() {
			months = append(months, k)
		}
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })
	return months, nil
}

// Extracts returns the saved extract catalog, or nil if it was never saved.
func (s *Store) Extracts() ([]model.Extract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []model.Extract
	if _, err := readJSON(s.path("extracts.json"), &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SaveExtracts replaces the extract catalog.
func (s *Store) SaveExtracts(list []model.Extract) error {
	if list == nil {
		list = []model.Extract{}
	}
	s.mu.Lock()
	err := writeJSON(s.path("extracts.json"), list)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(Change{Kind: KindExtracts})
	return nil
}

func (s *Store) profileLocked() (profileFile, error) {
	var p profileFile
	_, err := readJSON(s.path("profile.json"), &p)
	return p, err
}

func (s *Store) updateProfile(kind Kind, update func(*profileFile)) error {
	s.mu.Lock()
	p, err := s.profileLocked()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	update(&p)
	err = writeJSON(s.path("profile.json"), p)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(Change{Kind: kind})
	return nil
}

// EmployeeName returns the saved employee name.
func (s *Store) EmployeeName() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.profileLocked()
	return p.EmployeeName, err
}

func (s *Store) SaveEmployeeName(name string) error {
	return s.updateProfile(KindProfile, func(p *profileFile) { p.EmployeeName = name })
}

// AdminEmail returns the saved administrative contact.
func (s *Store) AdminEmail() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.profileLocked()
	return p.AdminEmail, err
}

func (s *Store) SaveAdminEmail(email string) error {
	return s.updateProfile(KindProfile, func(p *profileFile) { p.AdminEmail = email })
}

// CurrentMonthKey returns the month last selected, or "" if none.
func (s *Store) CurrentMonthKey() (model.MonthKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.profileLocked()
	return p.CurrentMonth, err
}

// SaveCurrentMonthKey records the selected month. An empty key resets it.
func (s *Store) SaveCurrentMonthKey(m model.MonthKey) error {
	if m != "" && !m.Valid() {
		return fmt.Errorf("storage error: invalid month %q", m)
	}
	return s.updateProfile(KindCurrentMonth, func(p *profileFile) { p.CurrentMonth = m })
}

// ExportHistory returns the saved exports, newest first.
func (s *Store) ExportHistory() ([]model.ExportRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historyLocked()
}

func (s *Store) historyLocked() ([]model.ExportRecord, error) {
	var list []model.ExportRecord
	if _, err := readJSON(s.path("history.json"), &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SaveExportHistory prepends rec and drops the oldest records beyond the limit.
func (s *Store) SaveExportHistory(rec model.ExportRecord) error {
	s.mu.Lock()
	list, err := s.historyLocked()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	list = append([]model.ExportRecord{rec}, list...)
	if len(list) > s.historyLimit {
		list = list[:s.historyLimit]
	}
	err = writeJSON(s.path("history.json"), list)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(Change{Kind: KindExportHistory})
	return nil
}

// LoadHolidays returns the persisted holiday set keyed by month.
func (s *Store) LoadHolidays() (map[model.MonthKey][]model.Holiday, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := map[model.MonthKey][]model.Holiday{}
	if _, err := readJSON(s.path("holidays.json"), &state); err != nil {
		return nil, err
	}
	return state, nil
}

// SaveHolidays replaces the persisted holiday set.
func (s *Store) SaveHolidays(state map[model.MonthKey][]model.Holiday) error {
	s.mu.Lock()
	err := writeJSON(s.path("holidays.json"), state)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(Change{Kind: KindHolidays})
	return nil
}

// readJSON decodes path into v. A missing file is not an error and reports
// found=false. A file that does not decode is renamed to path+".corrupt".
func readJSON(path string, v any) (found bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage error reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		// Back up corrupt file and abort.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return false, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	return true, nil
}

// writeJSON atomically replaces path with the indented JSON of v.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}
