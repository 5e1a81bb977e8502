package expr

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Precedence, loosest first: + -, * /, unary -, ^ (right-associative).

type sumGrammar struct {
	Left  *productGrammar `@@`
	Right []*sumTail      `@@*`
}

type sumTail struct {
	Op   string          `@("+" | "-")`
	Term *productGrammar `@@`
}

type productGrammar struct {
	Left  *unaryGrammar  `@@`
	Right []*productTail `@@*`
}

type productTail struct {
	Op     string        `@("*" | "/")`
	Factor *unaryGrammar `@@`
}

type unaryGrammar struct {
	Negate *unaryGrammar `  "-" @@`
	Power  *powerGrammar `| @@`
}

type powerGrammar struct {
	Base     *primaryGrammar `@@`
	Exponent *unaryGrammar   `( "^" @@ )?`
}

type primaryGrammar struct {
	Number *float64     `  @Number`
	Call   *callGrammar `| @@`
	Ident  *string      `| @Ident`
	Group  *sumGrammar  `| "(" @@ ")"`
}

type callGrammar struct {
	Func string      `@Ident "("`
	Arg  *sumGrammar `@@ ")"`
}

var exprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[-+*/^()]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var exprParser = participle.MustBuild[sumGrammar](
	participle.Lexer(exprLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)
