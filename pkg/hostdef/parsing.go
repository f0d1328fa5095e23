package hostdef

import (
	"io"
	"os"

	"github.com/pkg/errors"
	pc "github.com/prataprc/goparsec"

	"kestrel.dev/armjit/pkg/expr"
)

// ----------------------------------------------------------------------------
// Parser Combinator(s)

// This section defines the Parser Combinator for every line kind of the
// host symbol definition format.
//
// Each parser combinator either manages a declaration (value, func) or some
// piece of it: identifiers, signed integers, comments. Comments may only
// appear at the start of a line, introduced by '#'.

// Top level object, will generate the traversable AST based on the input plus the PCs below.
var ast = pc.NewAST("hostdef", 0)

var (
	// Parser combinator for an entire host definition file (a sequence of
	// comments and declarations).
	pFile = ast.ManyUntil("file", nil, ast.OrdChoice("line", nil, pComment, pDecl), pc.End())

	// Parser combinator for a comment line.
	pComment = ast.And("comment", nil, pc.Atom("#", "#"), pc.Token(`(?m).*$`, "COMMENT"))

	// Parser combinator for a generic declaration (value or function).
	pDecl = ast.OrdChoice("decl", nil, pValueDecl, pFuncDecl)

	// value NAME = SIGNED-INT
	pValueDecl = ast.And("value_decl", nil,
		pc.Atom("value", "VALUE"), pIdent, pc.Atom("=", "="), pSignedInt,
	)

	// func NAME(ARG, ARG, ...) = native:BUILTIN
	pFuncDecl = ast.And("func_decl", nil,
		pc.Atom("func", "FUNC"), pIdent,
		pc.Atom("(", "("), pArgList, pc.Atom(")", ")"),
		pc.Atom("=", "="), pc.Atom("native", "NATIVE"), pc.Atom(":", ":"), pIdent,
	)

	// Argument name list, compliant with "IDENT (',' IDENT)*".
	pArgList = ast.Kleene("arg_list", nil, pIdent, pc.Atom(",", ","))
)

var (
	// Generic identifier parser (for symbol, argument and builtin names).
	pIdent = pc.Token(`[A-Za-z_][0-9A-Za-z_]*`, "IDENT")

	// Signed integer literal, compliant with "'-'? [0-9]+".
	pSignedInt = ast.And("signed_int", nil, ast.Maybe("neg", nil, pc.Atom("-", "-")), pc.Int())
)

// ----------------------------------------------------------------------------
// Host Definition Parser

// Parser parses the host symbol definition format described in SPEC_FULL.md
// §2.1 into an expr.SymbolTable and the mock Host it resolves against.
//
// Like the teacher's asm/vm parsers, it reads a handful of env-var feature
// flags for debugging the underlying goparsec grammar:
// - PARSEC_DEBUG: verbose logging of which combinator matched
// - PRINT_AST:    pretty-prints the parsed AST to stdout
type Parser struct{ reader io.Reader }

// NewParser returns a Parser reading the host definition file from r.
func NewParser(r io.Reader) Parser { return Parser{reader: r} }

// Parse runs the two-phase pipeline: text -> AST (via goparsec combinators),
// then AST -> (expr.SymbolTable, *Host) by a DFS walk of the parsed tree.
func (p *Parser) Parse() (expr.SymbolTable, *Host, error) {
	content, err := io.ReadAll(p.reader)
	if err != nil {
		return nil, nil, errors.Wrap(err, "hostdef: cannot read input")
	}

	root, ok := p.fromSource(content)
	if !ok {
		return nil, nil, errors.New("hostdef: failed to parse AST from input content")
	}

	return p.fromAST(root)
}

func (p *Parser) fromSource(source []byte) (pc.Queryable, bool) {
	if os.Getenv("PARSEC_DEBUG") != "" {
		ast.SetDebug()
	}

	root, _ := ast.Parsewith(pFile, pc.NewScanner(source))

	if os.Getenv("PRINT_AST") != "" {
		ast.Prettyprint()
	}

	return root, root != nil
}

func (p *Parser) fromAST(root pc.Queryable) (expr.SymbolTable, *Host, error) {
	if root.GetName() != "file" {
		return nil, nil, errors.Errorf("hostdef: expected node 'file', found %s", root.GetName())
	}

	var (
		syms      expr.SymbolTable
		host      = NewHost()
		nextValue = uintptr(valueBase)
		nextFunc  = uintptr(funcBase)
	)

	for _, child := range root.GetChildren() {
		switch child.GetName() {
		case "value_decl":
			name, value, err := p.handleValueDecl(child)
			if err != nil {
				return nil, nil, err
			}
			addr := nextValue
			nextValue++
			host.Memory[addr] = value
			syms = append(syms, expr.Symbol{Name: name, Addr: addr})

		case "func_decl":
			name, builtin, err := p.handleFuncDecl(child)
			if err != nil {
				return nil, nil, err
			}
			fn, ok := Natives[builtin]
			if !ok {
				return nil, nil, errors.Errorf("hostdef: unknown native function %q", builtin)
			}
			addr := nextFunc
			nextFunc++
			host.Functions[addr] = fn
			syms = append(syms, expr.Symbol{Name: name, Addr: addr})

		case "comment":
			continue

		default:
			return nil, nil, errors.Errorf("hostdef: unrecognized node '%s'", child.GetName())
		}
	}

	return syms, host, nil
}

func (p *Parser) handleValueDecl(decl pc.Queryable) (string, int32, error) {
	children := decl.GetChildren()
	if len(children) != 4 {
		return "", 0, errors.Errorf("hostdef: malformed value declaration")
	}
	name := children[1].GetValue()
	value, err := p.handleSignedInt(children[3])
	if err != nil {
		return "", 0, err
	}
	return name, value, nil
}

func (p *Parser) handleSignedInt(node pc.Queryable) (int32, error) {
	children := node.GetChildren()
	if len(children) != 2 {
		return 0, errors.Errorf("hostdef: malformed integer literal")
	}
	neg := len(children[0].GetChildren()) == 1
	magnitude, err := p.parseUint(children[1].GetValue())
	if err != nil {
		return 0, err
	}
	if neg {
		return -magnitude, nil
	}
	return magnitude, nil
}

func (p *Parser) parseUint(s string) (int32, error) {
	var v int32
	if s == "" {
		return 0, errors.Errorf("hostdef: empty integer literal")
	}
	for _, d := range s {
		if d < '0' || d > '9' {
			return 0, errors.Errorf("hostdef: invalid integer literal %q", s)
		}
		v = v*10 + int32(d-'0')
	}
	return v, nil
}

func (p *Parser) handleFuncDecl(decl pc.Queryable) (name string, builtin string, err error) {
	children := decl.GetChildren()
	if len(children) != 9 {
		return "", "", errors.Errorf("hostdef: malformed function declaration")
	}
	name = children[1].GetValue()
	builtin = children[8].GetValue()
	return name, builtin, nil
}

// Parse is a package-level convenience wrapping NewParser(r).Parse().
func Parse(r io.Reader) (expr.SymbolTable, *Host, error) {
	parser := NewParser(r)
	return parser.Parse()
}
