package ast

// ModulesAt returns every module node whose qualified path equals path.
// A namespace declared more than once, in one file or across files,
// yields one entry per declaration.
func (t *Tree) ModulesAt(path []string) []*Module {
	if len(path) == 0 {
		return nil
	}
	var found []*Module
	var search func(candidates []NodeID, depth int)
	search = func(candidates []NodeID, depth int) {
		for _, id := range candidates {
			m := t.Module(id)
			if m == nil || m.Name != path[depth] {
				continue
			}
			if depth == len(path)-1 {
				found = append(found, m)
				continue
			}
			search(m.Members, depth+1)
		}
	}
	search(t.Roots, 0)
	return found
}

// ScopeMembers returns the declarations visible directly inside a scope.
// For a module this is the union of the members of every reopening of
// the same namespace; structs and enums only expose their own members.
func (t *Tree) ScopeMembers(id NodeID) []NodeID {
	switch n := t.Node(id).(type) {
	case *Module:
		modules := t.ModulesAt(t.Path(id))
		if len(modules) <= 1 {
			return n.Members
		}
		var members []NodeID
		for _, m := range modules {
			members = append(members, m.Members...)
		}
		return members
	case *Struct:
		return n.Members
	case *Enum:
		return n.Members
	default:
		return nil
	}
}

// Lookup resolves a dotted path against a stack of enclosing scopes
// (outermost first). The innermost scope is tried first; with upward set
// the enclosing scopes and finally the roots are tried in turn. It
// returns NoNode when nothing matches.
func (t *Tree) Lookup(scopes []NodeID, path []string, upward bool) NodeID {
	if len(path) == 0 {
		return NoNode
	}
	for i := len(scopes); i >= 0; i-- {
		var candidates []NodeID
		if i == 0 {
			candidates = t.Roots
		} else {
			candidates = t.ScopeMembers(scopes[i-1])
		}
		if id := t.match(candidates, path); id != NoNode {
			return id
		}
		if !upward {
			break
		}
	}
	return NoNode
}

// Visible lists the names that Lookup could resolve as a single segment
// from the given scopes with upward search.
func (t *Tree) Visible(scopes []NodeID) []string {
	seen := make(map[string]bool)
	var names []string
	add := func(ids []NodeID) {
		for _, id := range ids {
			name := t.Name(id)
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	for i := len(scopes) - 1; i >= 0; i-- {
		add(t.ScopeMembers(scopes[i]))
	}
	add(t.Roots)
	return names
}

func (t *Tree) match(candidates []NodeID, path []string) NodeID {
	for _, id := range candidates {
		if t.Name(id) != path[0] {
			continue
		}
		if len(path) == 1 {
			return id
		}
		// A reopened module may hold several declarations with this
		// name; only one of them needs to contain the rest of the path.
		if found := t.match(t.ScopeMembers(id), path[1:]); found != NoNode {
			return found
		}
	}
	return NoNode
}
