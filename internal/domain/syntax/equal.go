package syntax

// Equivalent reports whether the subtree a/x and the subtree b/y have the same
// shape once whitespace and comments are ignored. Leaves compare by text.
func Equivalent(a *Tree, x NodeID, b *Tree, y NodeID) bool {
	nx, err := a.lookup(x)
	if err != nil {
		return false
	}

	ny, err := b.lookup(y)
	if err != nil {
		return false
	}

	if (nx.Kind == KindComposite) != (ny.Kind == KindComposite) {
		return false
	}

	if nx.Kind != KindComposite {
		return nx.Type == ny.Type && nx.Text == ny.Text
	}

	if nx.Type != ny.Type {
		return false
	}

	cx := a.SignificantChildren(x)
	cy := b.SignificantChildren(y)

	if len(cx) != len(cy) {
		return false
	}

	for i := range cx {
		if !Equivalent(a, cx[i], b, cy[i]) {
			return false
		}
	}

	return true
}

// Fingerprint renders the significant leaves of id separated by single spaces.
// Equivalent subtrees have equal fingerprints, which makes it a cheap
// grouping key.
func (t *Tree) Fingerprint(id NodeID) string {
	var out []byte

	t.Walk(id, func(n NodeID) bool {
		node := &t.slots[n.index].node
		if node.Kind == KindToken {
			if len(out) > 0 {
				out = append(out, ' ')
			}

			out = append(out, node.Text...)
		}

		return true
	})

	return string(out)
}
