package domain

// Position is a 1-based line/column position within a document.
type Position struct {
	Line   int
	Column int
}

// Location is one physical navigable position in the workspace.
type Location struct {
	Path string
	Pos  Position
}

// SymbolKind classifies a symbol definition.
type SymbolKind string

const (
	KindFunc   SymbolKind = "func"
	KindMethod SymbolKind = "method"
	KindType   SymbolKind = "type"
	KindVar    SymbolKind = "var"
	KindConst  SymbolKind = "const"
	KindField  SymbolKind = "field"
)

// Symbol identifies a logical symbol in the workspace. A symbol may have
// several physical declaration sites (e.g. per-platform variants of the
// same function), which is why result items carry a list of locations
// rather than a single one.
type Symbol struct {
	Name      string
	Package   string
	Container string // containing type for methods and fields, empty otherwise
	Kind      SymbolKind
}

// QualifiedName returns the package-qualified display name for the symbol.
func (s Symbol) QualifiedName() string {
	name := s.Name
	if s.Container != "" {
		name = s.Container + "." + name
	}
	if s.Package != "" {
		name = s.Package + "." + name
	}
	return name
}

// SearchTitle is the display title of a result session for the given
// query. The UI matches completion events against it to tell results of
// the active session from those of a superseded one.
func SearchTitle(query string) string {
	return "usages of " + query
}
