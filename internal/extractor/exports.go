package extractor

import sitter "github.com/smacker/go-tree-sitter"

type nameSet struct {
	seen map[string]bool
	list []string
}

func newNameSet() *nameSet {
	return &nameSet{seen: make(map[string]bool)}
}

func (s *nameSet) add(name string) {
	if name == "" || s.seen[name] {
		return
	}
	s.seen[name] = true
	s.list = append(s.list, name)
}

// exportNames records the names an export_statement makes visible.
// `export * from` contributes nothing: the names live in the other file.
func exportNames(stmt *sitter.Node, source []byte, names *nameSet) {
	for i := 0; i < int(stmt.ChildCount()); i++ {
		if stmt.Child(i).Type() == "default" {
			names.add("default")
			return
		}
	}

	if decl := stmt.ChildByFieldName("declaration"); decl != nil {
		declarationNames(decl, source, names)
		return
	}

	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		child := stmt.NamedChild(i)
		switch child.Type() {
		case "export_clause":
			clauseNames(child, source, names)
		case "namespace_export":
			if child.NamedChildCount() > 0 {
				names.add(child.NamedChild(int(child.NamedChildCount()) - 1).Content(source))
			}
		}
	}
}

func declarationNames(decl *sitter.Node, source []byte, names *nameSet) {
	switch decl.Type() {
	case "lexical_declaration", "variable_declaration":
		for i := 0; i < int(decl.NamedChildCount()); i++ {
			d := decl.NamedChild(i)
			if d.Type() != "variable_declarator" {
				continue
			}
			if name := d.ChildByFieldName("name"); name != nil {
				patternNames(name, source, names)
			}
		}
	case "ambient_declaration":
		for i := 0; i < int(decl.NamedChildCount()); i++ {
			declarationNames(decl.NamedChild(i), source, names)
		}
	default:
		if name := decl.ChildByFieldName("name"); name != nil {
			names.add(name.Content(source))
		}
	}
}

// patternNames handles `export const { a, b: c } = obj` and array patterns.
func patternNames(n *sitter.Node, source []byte, names *nameSet) {
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		names.add(n.Content(source))
	case "pair_pattern":
		if v := n.ChildByFieldName("value"); v != nil {
			patternNames(v, source, names)
		}
	case "assignment_pattern", "object_assignment_pattern":
		if l := n.ChildByFieldName("left"); l != nil {
			patternNames(l, source, names)
		}
	default:
		for i := 0; i < int(n.NamedChildCount()); i++ {
			patternNames(n.NamedChild(i), source, names)
		}
	}
}

func clauseNames(clause *sitter.Node, source []byte, names *nameSet) {
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		spec := clause.NamedChild(i)
		if spec.Type() != "export_specifier" {
			continue
		}
		if alias := spec.ChildByFieldName("alias"); alias != nil {
			names.add(alias.Content(source))
			continue
		}
		if name := spec.ChildByFieldName("name"); name != nil {
			names.add(name.Content(source))
		}
	}
}
