package engine

// orderByDependency reorders templates so every prerequisite precedes its
// dependent, provided the prerequisite is present in the list (Kahn's
// algorithm over the single-parent DependsOn relation).
//
// Cycle policy: if a cycle (or a chain broken by it) prevents full
// resolution, the original input order is returned unchanged and the ids of
// the unresolved templates are reported, so the orchestrator can surface a
// structured advisory instead of failing. The dependency constraint is simply
// not honored for that subset; the tasks stay schedulable.
func orderByDependency(templates []TaskTemplate) (ordered []TaskTemplate, cyclic []string) {
	index := make(map[string]int, len(templates))
	for i, t := range templates {
		index[t.ID] = i
	}

	indegree := make([]int, len(templates))
	dependents := make(map[int][]int, len(templates))
	for i, t := range templates {
		if t.DependsOn == "" {
			continue
		}
		p, ok := index[t.DependsOn]
		if !ok {
			continue // prerequisite outside the list constrains nothing
		}
		// A self-dependency is a 1-cycle and goes through the same edge
		// machinery, so it is reported like any other cycle.
		indegree[i] = 1
		dependents[p] = append(dependents[p], i)
	}

	// Seed the queue in input order so the result is deterministic.
	var queue []int
	for i := range templates {
		if indegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	ordered = make([]TaskTemplate, 0, len(templates))
	placed := make([]bool, len(templates))
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		ordered = append(ordered, templates[i])
		placed[i] = true
		for _, j := range dependents[i] {
			indegree[j]--
			if indegree[j] == 0 {
				queue = append(queue, j)
			}
		}
	}

	if len(ordered) == len(templates) {
		return ordered, nil
	}

	for i, t := range templates {
		if !placed[i] {
			cyclic = append(cyclic, t.ID)
		}
	}
	return append([]TaskTemplate(nil), templates...), cyclic
}
