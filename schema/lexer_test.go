package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	toks := Tokenize(`$table->string('it\'s', 10); // trailing`)

	kinds := make([]TokenKind, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}

	assert.Equal(t, []TokenKind{
		TokenVariable, TokenArrow, TokenIdent, TokenPunct,
		TokenString, TokenPunct, TokenNumber, TokenPunct, TokenPunct,
	}, kinds)
	assert.Equal(t, "table", toks[0].Text)
	assert.Equal(t, "it's", toks[4].Text)
	assert.Equal(t, "10", toks[6].Text)
}

func TestTokenizeSkipsComments(t *testing.T) {
	toks := Tokenize("# one\n/* two\n three */ $x // four\n")
	require.Len(t, toks, 1)
	assert.Equal(t, TokenVariable, toks[0].Kind)
}

func TestTokenizeDoubleQuotedEscapes(t *testing.T) {
	toks := Tokenize(`"a\"b\n"`)
	require.Len(t, toks, 1)
	assert.Equal(t, "a\"b\n", toks[0].Text)
}

func TestTokenizeUnterminatedString(t *testing.T) {
	toks := Tokenize(`'open`)
	require.Len(t, toks, 1)
	assert.Equal(t, "open", toks[0].Text)
	assert.Equal(t, 5, toks[0].End)
}

func TestParseChains(t *testing.T) {
	src := `$table->string('title', length: 120)->default(fn() => strtoupper('x'))->nullable();`
	chains := parseChains(src, Tokenize(src), map[string]bool{"table": true})
	require.Len(t, chains, 1)

	chain := chains[0]
	assert.Equal(t, "string", chain.Head().Method)
	require.Len(t, chain.Head().Args, 2)
	assert.Equal(t, "length", chain.Head().Args[1].Name)
	assert.Equal(t, "120", chain.Head().Args[1].Raw)

	def, ok := chain.Modifier("default")
	require.True(t, ok)
	require.Len(t, def.Args, 1)
	assert.Equal(t, "fn() => strtoupper('x')", def.Args[0].Raw)
	assert.True(t, chain.Has("nullable"))
}

func TestParseChainsSkipsMalformedStatements(t *testing.T) {
	src := "$table->string('broken';\n$table->string('ok');"
	chains := parseChains(src, Tokenize(src), map[string]bool{"table": true})
	require.Len(t, chains, 1)
	lit, ok := chains[0].Head().Args[0].Literal()
	require.True(t, ok)
	assert.Equal(t, "ok", lit)
}

func TestBuilderVars(t *testing.T) {
	vars := builderVars(Tokenize(`function (Blueprint $t) {}`))
	assert.Equal(t, map[string]bool{"t": true}, vars)

	vars = builderVars(Tokenize(`function ($x) {}`))
	assert.Equal(t, map[string]bool{"table": true}, vars)
}
