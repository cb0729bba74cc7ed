package engine

import "testing"

func tmpl(id, dependsOn string) TaskTemplate {
	return TaskTemplate{ID: id, Name: id, IsActive: true, DependsOn: dependsOn}
}

func indexOf(ts []TaskTemplate, id string) int {
	for i, t := range ts {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func TestOrderByDependencyChain(t *testing.T) {
	t.Parallel()
	in := []TaskTemplate{tmpl("c", "b"), tmpl("a", ""), tmpl("b", "a")}
	got, cyclic := orderByDependency(in)
	if cyclic != nil {
		t.Fatalf("unexpected cycle report: %v", cyclic)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d", len(got))
	}
	if !(indexOf(got, "a") < indexOf(got, "b") && indexOf(got, "b") < indexOf(got, "c")) {
		t.Fatalf("order does not respect chain: %v", ids(got))
	}
}

func TestOrderByDependencyMissingPrerequisite(t *testing.T) {
	t.Parallel()
	// Dependency on an id outside the list constrains nothing.
	in := []TaskTemplate{tmpl("x", "ghost"), tmpl("y", "")}
	got, cyclic := orderByDependency(in)
	if cyclic != nil || len(got) != 2 {
		t.Fatalf("got %v cyclic %v", ids(got), cyclic)
	}
}

func TestOrderByDependencyCycle(t *testing.T) {
	t.Parallel()
	in := []TaskTemplate{tmpl("a", "b"), tmpl("b", "a"), tmpl("c", "")}
	got, cyclic := orderByDependency(in)

	// Falls back to the original order, reporting the unresolved subset.
	if len(got) != 3 {
		t.Fatalf("len = %d", len(got))
	}
	for i := range in {
		if got[i].ID != in[i].ID {
			t.Fatalf("cycle fallback should keep input order, got %v", ids(got))
		}
	}
	if len(cyclic) != 2 || cyclic[0] != "a" || cyclic[1] != "b" {
		t.Fatalf("cyclic = %v, want [a b]", cyclic)
	}
}

func TestOrderByDependencySelf(t *testing.T) {
	t.Parallel()
	in := []TaskTemplate{tmpl("a", "a"), tmpl("b", "")}
	got, cyclic := orderByDependency(in)

	// A self-dependency is a 1-cycle: input order kept, id reported.
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("self-cycle fallback should keep input order, got %v", ids(got))
	}
	if len(cyclic) != 1 || cyclic[0] != "a" {
		t.Fatalf("cyclic = %v, want [a]", cyclic)
	}
}

func TestOrderByDependencyEmpty(t *testing.T) {
	t.Parallel()
	got, cyclic := orderByDependency(nil)
	if len(got) != 0 || cyclic != nil {
		t.Fatalf("got %v cyclic %v", got, cyclic)
	}
}

func ids(ts []TaskTemplate) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}
