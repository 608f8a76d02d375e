package model

// Reference is one TypeReference found while walking an element.
type Reference struct {
	// Element is the name of the top-level element containing the reference.
	Element string
	// Name is the referenced type name.
	Name string
	// Scope holds the generic parameter names visible at the reference.
	Scope []string
}

// References returns every TypeReference inside el in depth-first source order.
func References(el Element) []Reference {
	w := &refWalker{element: el.ElementName()}
	switch e := el.(type) {
	case Variable:
		w.annotation(e.TypeAnnotation)
	case Function:
		w.push(e.Generics)
		w.parameters(e.Parameters)
		w.annotation(e.ReturnType)
	case Class:
		w.push(e.Generics)
		for _, member := range e.Members {
			switch m := member.(type) {
			case Property:
				w.annotation(m.TypeAnnotation)
			case Method:
				n := len(w.scope)
				w.push(m.Generics)
				w.parameters(m.Parameters)
				w.annotation(m.TypeAnnotation)
				w.scope = w.scope[:n]
			case Constructor:
				w.parameters(m.Parameters)
			}
		}
	case TypeAlias:
		w.push(e.Generics)
		w.annotation(e.TypeAnnotation)
	}
	return w.refs
}

type refWalker struct {
	element string
	scope   []string
	refs    []Reference
}

func (w *refWalker) push(generics []GenericDeclaration) {
	for _, g := range generics {
		w.scope = append(w.scope, g.Name)
	}
}

func (w *refWalker) parameters(params []Parameter) {
	for _, p := range params {
		w.annotation(p.TypeAnnotation)
	}
}

func (w *refWalker) annotation(t TypeAnnotation) {
	switch a := t.(type) {
	case TypeReference:
		w.refs = append(w.refs, Reference{
			Element: w.element,
			Name:    a.Name,
			Scope:   append([]string(nil), w.scope...),
		})
		for _, p := range a.Parameters {
			w.annotation(p)
		}
	case TypeLiteral:
		n := len(w.scope)
		w.push(a.Generics)
		for _, m := range a.Members {
			w.annotation(m.TypeAnnotation)
		}
		w.scope = w.scope[:n]
	case UnionType:
		for _, m := range a.Types {
			w.annotation(m)
		}
	case IntersectionType:
		for _, m := range a.Types {
			w.annotation(m)
		}
	case TupleType:
		for _, m := range a.Elements {
			w.annotation(m)
		}
	case FunctionType:
		n := len(w.scope)
		w.push(a.Generics)
		w.parameters(a.Parameters)
		w.annotation(a.ReturnType)
		w.scope = w.scope[:n]
	}
}
