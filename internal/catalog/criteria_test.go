package catalog

import (
	"testing"

	"github.com/verte-zerg/pyqs/internal/model"
)

func TestDefaultCriteria(t *testing.T) {
	c := DefaultCriteria()
	if c.Subject != model.Physics {
		t.Fatalf("expected first subject, got %s", c.Subject)
	}
	if c.Sort != model.SortAsc {
		t.Fatalf("expected ascending sort, got %s", c.Sort)
	}
	if IsFiltered(c) {
		t.Fatalf("expected no filters by default")
	}
}

func TestReduceTogglesSelections(t *testing.T) {
	c := DefaultCriteria()
	c = Reduce(c, ToggleClass("Class 11"))
	c = Reduce(c, ToggleClass("Class 12"))
	if !equalStrings(c.Classes, []string{"Class 11", "Class 12"}) {
		t.Fatalf("unexpected classes: %v", c.Classes)
	}
	c = Reduce(c, ToggleClass("Class 11"))
	if !equalStrings(c.Classes, []string{"Class 12"}) {
		t.Fatalf("unexpected classes after removal: %v", c.Classes)
	}
	c = Reduce(c, ToggleClass("Class 12"))
	if c.Classes != nil {
		t.Fatalf("expected cleared selection, got %v", c.Classes)
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	before := Reduce(DefaultCriteria(), ToggleUnit("Optics"))
	after := Reduce(before, ToggleUnit("Waves"))
	if !equalStrings(before.Units, []string{"Optics"}) {
		t.Fatalf("input was mutated: %v", before.Units)
	}
	if !equalStrings(after.Units, []string{"Optics", "Waves"}) {
		t.Fatalf("unexpected units: %v", after.Units)
	}
}

func TestReduceSelectSubjectClearsScopedSelections(t *testing.T) {
	c := DefaultCriteria()
	c = Reduce(c, ToggleClass("Class 11"))
	c = Reduce(c, ToggleUnit("Optics"))
	c = Reduce(c, ToggleStatus(model.StatusCompleted))
	c = Reduce(c, SelectSubject(model.Chemistry))
	if c.Subject != model.Chemistry {
		t.Fatalf("expected chemistry, got %s", c.Subject)
	}
	if c.Classes != nil || c.Units != nil {
		t.Fatalf("expected class and unit selections to reset, got %v %v", c.Classes, c.Units)
	}
	if !equalStrings(c.Statuses, []string{model.StatusCompleted}) {
		t.Fatalf("expected status selection to survive, got %v", c.Statuses)
	}

	same := Reduce(Reduce(c, ToggleClass("Class 12")), SelectSubject(model.Chemistry))
	if !equalStrings(same.Classes, []string{"Class 12"}) {
		t.Fatalf("reselecting the active subject should keep selections, got %v", same.Classes)
	}
}

func TestReduceToggles(t *testing.T) {
	c := Reduce(DefaultCriteria(), ToggleWeakOnly())
	c = Reduce(c, ToggleNotStartedOnly())
	c = Reduce(c, ToggleSort())
	if !c.WeakOnly || !c.NotStartedOnly || c.Sort != model.SortDesc {
		t.Fatalf("unexpected toggles: %+v", c)
	}
	c = Reduce(c, ToggleSort())
	if c.Sort != model.SortAsc {
		t.Fatalf("expected ascending after second toggle, got %s", c.Sort)
	}
}

func TestReduceClearFilters(t *testing.T) {
	c := DefaultCriteria()
	c = Reduce(c, SelectSubject(model.Mathematics))
	c = Reduce(c, ToggleSort())
	c = Reduce(c, ToggleClass("Class 11"))
	c = Reduce(c, ToggleStatus(model.StatusInProgress))
	c = Reduce(c, ToggleWeakOnly())
	c = Reduce(c, ClearFilters())
	if IsFiltered(c) {
		t.Fatalf("expected filters cleared, got %+v", c)
	}
	if c.Subject != model.Mathematics || c.Sort != model.SortDesc {
		t.Fatalf("clear should keep subject and sort, got %+v", c)
	}
}
