package index

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"symgrip/internal/domain"
)

// symbolDef is one declaration site extracted from a file.
type symbolDef struct {
	Name      string
	Container string
	Kind      domain.SymbolKind
	Pos       domain.Position
}

// identUse is one identifier occurrence outside a declaration.
type identUse struct {
	Name string
	Pos  domain.Position
}

// fileSymbols is the extraction result for a single file.
type fileSymbols struct {
	Package string
	Defs    []symbolDef
	Idents  []identUse
}

// cacheEntry pairs extracted symbols with the mtime they were extracted at.
type cacheEntry struct {
	modTime time.Time
	symbols *fileSymbols
}

// parseCache memoizes per-file extraction, invalidated on mtime change.
type parseCache struct {
	entries *lru.Cache[string, cacheEntry]
}

func newParseCache(size int) *parseCache {
	entries, _ := lru.New[string, cacheEntry](size) // only fails for size <= 0
	return &parseCache{entries: entries}
}

func (c *parseCache) load(path string) (*fileSymbols, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if entry, ok := c.entries.Get(path); ok && entry.modTime.Equal(info.ModTime()) {
		return entry.symbols, nil
	}

	symbols, err := extractFile(path)
	if err != nil {
		return nil, err
	}
	c.entries.Add(path, cacheEntry{modTime: info.ModTime(), symbols: symbols})
	return symbols, nil
}

// extractFile parses a Go source file and pulls out its declarations and
// identifier uses.
func extractFile(path string) (*fileSymbols, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, 0)
	if err != nil {
		return nil, err
	}

	fs := &fileSymbols{Package: file.Name.Name}
	defPos := make(map[token.Pos]struct{})

	addDef := func(ident *ast.Ident, container string, kind domain.SymbolKind) {
		if ident == nil || ident.Name == "_" {
			return
		}
		pos := fset.Position(ident.Pos())
		fs.Defs = append(fs.Defs, symbolDef{
			Name:      ident.Name,
			Container: container,
			Kind:      kind,
			Pos:       domain.Position{Line: pos.Line, Column: pos.Column},
		})
		defPos[ident.Pos()] = struct{}{}
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv != nil && len(d.Recv.List) > 0 {
				addDef(d.Name, receiverTypeName(d.Recv.List[0].Type), domain.KindMethod)
			} else {
				addDef(d.Name, "", domain.KindFunc)
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					addDef(s.Name, "", domain.KindType)
					if st, ok := s.Type.(*ast.StructType); ok {
						for _, field := range st.Fields.List {
							for _, name := range field.Names {
								addDef(name, s.Name.Name, domain.KindField)
							}
						}
					}
				case *ast.ValueSpec:
					kind := domain.KindVar
					if d.Tok == token.CONST {
						kind = domain.KindConst
					}
					for _, name := range s.Names {
						addDef(name, "", kind)
					}
				}
			}
		}
	}

	// Every remaining identifier occurrence is a candidate reference
	ast.Inspect(file, func(n ast.Node) bool {
		ident, ok := n.(*ast.Ident)
		if !ok || ident.Name == "_" {
			return true
		}
		if _, isDef := defPos[ident.Pos()]; isDef {
			return true
		}
		pos := fset.Position(ident.Pos())
		fs.Idents = append(fs.Idents, identUse{
			Name: ident.Name,
			Pos:  domain.Position{Line: pos.Line, Column: pos.Column},
		})
		return true
	})

	return fs, nil
}

func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.IndexExpr: // generic receiver
		return receiverTypeName(t.X)
	case *ast.IndexListExpr:
		return receiverTypeName(t.X)
	}
	return ""
}
