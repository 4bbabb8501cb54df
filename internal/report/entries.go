package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Tiliavir/rileva/internal/model"
	"github.com/Tiliavir/rileva/internal/timecalc"
)

// Entry fields accepted by UpdateEntry.
const (
	FieldDate     = "date"
	FieldCode     = "code"
	FieldActivity = "activity"
	FieldHours    = "hours"
	FieldNotes    = "notes"
	FieldExtract  = "extract"
	FieldClient   = "client"
)

// AddEntry inserts e into month m, keeping entries in date order. An entry
// without tasks gets one built from its top-level fields.
func (s *Service) AddEntry(m model.MonthKey, e model.DayEntry) ([]model.DayEntry, error) {
	if !m.Contains(e.Date) {
		return nil, fmt.Errorf("%w: %s is not in %s", ErrDateOutsideMonth, e.Key(), m)
	}
	entries, err := s.Load(m)
	if err != nil {
		return nil, err
	}
	e.Date = timecalc.StartOfDay(e.Date)
	if len(e.Tasks) == 0 {
		e = model.Normalize([]model.DayEntry{e})[0]
	} else {
		e.SetTasks(e.Tasks)
	}
	entries = append(entries, e)
	sortByDate(entries)
	if _, err := s.store.SaveMonthlyData(m, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// RemoveEntry deletes the entry at index.
func (s *Service) RemoveEntry(m model.MonthKey, index int) ([]model.DayEntry, error) {
	entries, err := s.Load(m)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(entries) {
		return nil, fmt.Errorf("%w: %d (month has %d entries)", ErrIndexOutOfRange, index, len(entries))
	}
	entries = append(entries[:index], entries[index+1:]...)
	if _, err := s.store.SaveMonthlyData(m, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SetTasks replaces the tasks of the entry at index. Editing an entry
// confirms it, so Prefilled is cleared.
func (s *Service) SetTasks(m model.MonthKey, index int, tasks []model.Task) ([]model.DayEntry, error) {
	return s.edit(m, index, func(e *model.DayEntry) error {
		e.SetTasks(tasks)
		if len(tasks) == 0 {
			e.Code, e.Activity, e.Extract, e.Client, e.Hours = "", "", "", "", 0
		}
		return nil
	})
}

// UpdateEntry sets one field of the entry at index from its text form.
// Task-level fields can only be edited on single-task entries.
func (s *Service) UpdateEntry(m model.MonthKey, index int, field, value string) ([]model.DayEntry, error) {
	return s.edit(m, index, func(e *model.DayEntry) error {
		switch field {
		case FieldDate:
			d, err := timecalc.ParseDay(value)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidValue, err)
			}
			if !m.Contains(d) {
				return fmt.Errorf("%w: %s is not in %s", ErrDateOutsideMonth, timecalc.ISODate(d), m)
			}
			e.Date = d
			return nil
		case FieldNotes:
			e.Notes = value
			if len(e.Tasks) == 1 {
				e.Tasks[0].Notes = value
			}
			return nil
		case FieldCode, FieldActivity, FieldHours, FieldExtract, FieldClient:
		default:
			return fmt.Errorf("%w %q", ErrUnknownField, field)
		}

		if len(e.Tasks) > 1 {
			return fmt.Errorf("%w (%d): edit them with tasks", ErrMultiTask, len(e.Tasks))
		}
		task := model.Task{}
		if len(e.Tasks) == 1 {
			task = e.Tasks[0]
		}
		switch field {
		case FieldCode:
			task.Code = strings.TrimSpace(value)
		case FieldActivity:
			task.Activity = value
		case FieldExtract:
			task.Extract = strings.TrimSpace(value)
		case FieldClient:
			task.Client = value
		case FieldHours:
			h, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(value), ",", "."), 64)
			if err != nil {
				return fmt.Errorf("%w: hours %q", ErrInvalidValue, value)
			}
			task.Hours = h
		}
		e.SetTasks([]model.Task{task})
		return nil
	})
}

func (s *Service) edit(m model.MonthKey, index int, fn func(*model.DayEntry) error) ([]model.DayEntry, error) {
	entries, err := s.Load(m)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(entries) {
		return nil, fmt.Errorf("%w: %d (month has %d entries)", ErrIndexOutOfRange, index, len(entries))
	}
	e := entries[index]
	if err := fn(&e); err != nil {
		return nil, err
	}
	e.Prefilled = false
	entries[index] = e
	sortByDate(entries)
	if _, err := s.store.SaveMonthlyData(m, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// AddExtract inserts or replaces the extract with the same id.
func (s *Service) AddExtract(ex model.Extract) ([]model.Extract, error) {
	ex.ID = strings.TrimSpace(ex.ID)
	ex.Code = strings.TrimSpace(ex.Code)
	ex.Description = strings.TrimSpace(ex.Description)
	ex.Client = strings.TrimSpace(ex.Client)
	if ex.ID == "" || ex.Code == "" {
		return nil, ErrInvalidExtract
	}
	list, err := s.Extracts()
	if err != nil {
		return nil, err
	}
	replaced := false
	for i := range list {
		if list[i].ID == ex.ID {
			list[i] = ex
			replaced = true
			break
		}
	}
	if !replaced {
		list = append(list, ex)
	}
	if err := s.store.SaveExtracts(list); err != nil {
		return nil, err
	}
	return list, nil
}

// RemoveExtract deletes the extract with id and reports whether it existed.
func (s *Service) RemoveExtract(id string) (bool, error) {
	id = strings.TrimSpace(id)
	list, err := s.Extracts()
	if err != nil {
		return false, err
	}
	next := make([]model.Extract, 0, len(list))
	for _, ex := range list {
		if ex.ID != id {
			next = append(next, ex)
		}
	}
	if len(next) == len(list) {
		return false, nil
	}
	return true, s.store.SaveExtracts(next)
}

// Profile is the employee identity written into reports.
type Profile struct {
	Name       string
	AdminEmail string
}

// Profile returns the saved identity, falling back to the configured one.
func (s *Service) Profile() (Profile, error) {
	name, err := s.store.EmployeeName()
	if err != nil {
		return Profile{}, err
	}
	admin, err := s.store.AdminEmail()
	if err != nil {
		return Profile{}, err
	}
	if name == "" {
		name = s.defaultName
	}
	if admin == "" {
		admin = s.defaultAdmin
	}
	return Profile{Name: name, AdminEmail: admin}, nil
}

// SaveProfile stores the non-nil fields.
func (s *Service) SaveProfile(name, admin *string) error {
	if name != nil {
		if err := s.store.SaveEmployeeName(strings.TrimSpace(*name)); err != nil {
			return err
		}
	}
	if admin != nil {
		if err := s.store.SaveAdminEmail(strings.TrimSpace(*admin)); err != nil {
			return err
		}
	}
	return nil
}
