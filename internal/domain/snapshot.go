package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Snapshot is the whole household collection as exchanged with the store.
type Snapshot struct {
	Tasks    []Task          `json:"tasks"`
	Groups   []TaskGroup     `json:"groups"`
	Profiles []UserProfile   `json:"profiles"`
	History  []HistoryRecord `json:"history"`
}

// TaskIssue names a stored task that fails validation.
type TaskIssue struct {
	TaskID string
	Err    error
}

// Issues reports every task that fails validation or repeats an earlier ID.
func (s *Snapshot) Issues() []TaskIssue {
	var issues []TaskIssue
	seen := make(map[string]struct{}, len(s.Tasks))
	for i := range s.Tasks {
		t := &s.Tasks[i]
		if err := t.Validate(); err != nil {
			issues = append(issues, TaskIssue{TaskID: t.ID, Err: err})
			continue
		}
		if _, dup := seen[t.ID]; dup {
			issues = append(issues, TaskIssue{TaskID: t.ID, Err: fmt.Errorf("duplicate task ID %s", t.ID)})
		}
		seen[t.ID] = struct{}{}
	}
	return issues
}

// Validate checks every task and reports all failures together.
func (s *Snapshot) Validate() error {
	issues := s.Issues()
	if len(issues) == 0 {
		return nil
	}
	errs := make([]error, 0, len(issues))
	for _, issue := range issues {
		errs = append(errs, issue.Err)
	}
	return fmt.Errorf("%w: %w", ErrValidation, errors.Join(errs...))
}

// Task returns a pointer into the snapshot for the task with the given ID.
func (s *Snapshot) Task(id string) (*Task, error) {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return &s.Tasks[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
}

// Group returns the group with the given ID, or nil.
func (s *Snapshot) Group(id string) *TaskGroup {
	for i := range s.Groups {
		if s.Groups[i].ID == id {
			return &s.Groups[i]
		}
	}
	return nil
}

// Profile returns the profile with the given ID, or nil.
func (s *Snapshot) Profile(id string) *UserProfile {
	for i := range s.Profiles {
		if s.Profiles[i].ID == id {
			return &s.Profiles[i]
		}
	}
	return nil
}

// HistoryRecord returns the history record with the given ID.
func (s *Snapshot) HistoryRecord(id uuid.UUID) (*HistoryRecord, error) {
	for i := range s.History {
		if s.History[i].ID == id {
			return &s.History[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrHistoryNotFound, id)
}

// AppendHistory adds records and keeps only the newest limit entries.
// A limit of zero or less keeps everything.
func (s *Snapshot) AppendHistory(limit int, records ...HistoryRecord) {
	s.History = append(s.History, records...)
	if limit > 0 && len(s.History) > limit {
		s.History = append([]HistoryRecord(nil), s.History[len(s.History)-limit:]...)
	}
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return &Snapshot{}
	}
	c := &Snapshot{
		Tasks:    make([]Task, len(s.Tasks)),
		Groups:   append([]TaskGroup(nil), s.Groups...),
		Profiles: make([]UserProfile, len(s.Profiles)),
		History:  make([]HistoryRecord, len(s.History)),
	}
	for i, t := range s.Tasks {
		c.Tasks[i] = t.Clone()
	}
	for i, p := range s.Profiles {
		cp := p
		if p.MealTimes != nil {
			cp.MealTimes = make(map[Meal]string, len(p.MealTimes))
			for k, v := range p.MealTimes {
				cp.MealTimes[k] = v
			}
		}
		c.Profiles[i] = cp
	}
	for i, h := range s.History {
		ch := h
		ch.Prior.CompletedAt = cloneTime(h.Prior.CompletedAt)
		c.History[i] = ch
	}
	return c
}
