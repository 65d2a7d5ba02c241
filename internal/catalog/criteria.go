package catalog

import "github.com/verte-zerg/pyqs/internal/model"

// ActionKind identifies a criteria change.
type ActionKind int

const (
	ActionSelectSubject ActionKind = iota
	ActionToggleClass
	ActionToggleUnit
	ActionToggleStatus
	ActionToggleWeakOnly
	ActionToggleNotStartedOnly
	ActionToggleSort
	ActionClearFilters
)

// Action is a single user interaction applied by Reduce.
type Action struct {
	Kind    ActionKind
	Subject model.Subject
	Value   string
}

// SelectSubject activates a subject tab.
func SelectSubject(s model.Subject) Action {
	return Action{Kind: ActionSelectSubject, Subject: s}
}

// ToggleClass adds or removes a class from the selection.
func ToggleClass(v string) Action { return Action{Kind: ActionToggleClass, Value: v} }

// ToggleUnit adds or removes a unit from the selection.
func ToggleUnit(v string) Action { return Action{Kind: ActionToggleUnit, Value: v} }

// ToggleStatus adds or removes a status from the selection.
func ToggleStatus(v string) Action { return Action{Kind: ActionToggleStatus, Value: v} }

// ToggleWeakOnly flips the weak chapters toggle.
func ToggleWeakOnly() Action { return Action{Kind: ActionToggleWeakOnly} }

// ToggleNotStartedOnly flips the not started toggle.
func ToggleNotStartedOnly() Action { return Action{Kind: ActionToggleNotStartedOnly} }

// ToggleSort switches between ascending and descending order.
func ToggleSort() Action { return Action{Kind: ActionToggleSort} }

// ClearFilters resets every filter but keeps the subject and sort order.
func ClearFilters() Action { return Action{Kind: ActionClearFilters} }

// DefaultCriteria is the state on start: first subject, no filters, ascending.
func DefaultCriteria() model.Criteria {
	return model.Criteria{
		Subject: model.Subjects[0],
		Sort:    model.SortAsc,
	}
}

// Reduce returns the criteria after applying a. The input is left untouched.
func Reduce(c model.Criteria, a Action) model.Criteria {
	next := cloneCriteria(c)
	switch a.Kind {
	case ActionSelectSubject:
		if next.Subject != a.Subject {
			// Class and unit options depend on the subject; statuses are global.
			next.Classes = nil
			next.Units = nil
		}
		next.Subject = a.Subject
	case ActionToggleClass:
		next.Classes = toggle(next.Classes, a.Value)
	case ActionToggleUnit:
		next.Units = toggle(next.Units, a.Value)
	case ActionToggleStatus:
		next.Statuses = toggle(next.Statuses, a.Value)
	case ActionToggleWeakOnly:
		next.WeakOnly = !next.WeakOnly
	case ActionToggleNotStartedOnly:
		next.NotStartedOnly = !next.NotStartedOnly
	case ActionToggleSort:
		if next.Sort == model.SortDesc {
			next.Sort = model.SortAsc
		} else {
			next.Sort = model.SortDesc
		}
	case ActionClearFilters:
		next.Classes = nil
		next.Units = nil
		next.Statuses = nil
		next.WeakOnly = false
		next.NotStartedOnly = false
	}
	return next
}

// IsFiltered reports whether any filter restricts the subject scope.
func IsFiltered(c model.Criteria) bool {
	return len(c.Classes) > 0 || len(c.Units) > 0 || len(c.Statuses) > 0 || c.WeakOnly || c.NotStartedOnly
}

func cloneCriteria(c model.Criteria) model.Criteria {
	c.Classes = cloneStrings(c.Classes)
	c.Units = cloneStrings(c.Units)
	c.Statuses = cloneStrings(c.Statuses)
	return c
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func toggle(set []string, value string) []string {
	out := make([]string, 0, len(set)+1)
	found := false
	for _, v := range set {
		if v == value {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, value)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
