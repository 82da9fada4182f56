package coin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		want string
	}{
		{"btc", KindBTC, "BTC"},
		{"ton", KindTON, "TON"},
		{"usdt", KindUSDT, "USDT"},
		{"unknown", KindUnknown, "UNKNOWN"},
		{"out_of_range", Kind(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}

func TestKindByName(t *testing.T) {
	kind, ok := KindByName("USDT")
	assert.True(t, ok)
	assert.Equal(t, KindUSDT, kind)

	_, ok = KindByName("UNKNOWN")
	assert.False(t, ok)

	_, ok = KindByName("DOGE")
	assert.False(t, ok)
}

func TestCoin_Unknown(t *testing.T) {
	c := Unknown("DOGE")

	assert.False(t, c.IsKnown())
	assert.Equal(t, KindUnknown, c.Kind())
	assert.Equal(t, "DOGE", c.Code())
	assert.Equal(t, "DOGE", c.String())
	assert.NotEqual(t, Unknown("BTC"), BTC)
}

func TestTable_RoundTripKnown(t *testing.T) {
	for _, table := range []*Table{V2, V3} {
		for _, kind := range Kinds() {
			code := table.Wire(Known(kind))
			parsed := table.Parse(code)

			assert.Equal(t, Known(kind), parsed, "table v%s kind %s", table.Version(), kind)
			assert.Equal(t, code, table.Wire(parsed))
		}
	}
}

func TestTable_RoundTripUnknown(t *testing.T) {
	for _, code := range []string{"DOGE", "XYZ123", "usdt", ""} {
		parsed := V3.Parse(code)
		assert.False(t, parsed.IsKnown())
		assert.Equal(t, code, V3.Wire(parsed))
	}
}

func TestTable_VersionedSpelling(t *testing.T) {
	assert.Equal(t, "USDT20", V2.Wire(USDT))
	assert.Equal(t, "USDT", V3.Wire(USDT))

	assert.Equal(t, USDT, V2.Parse("USDT20"))
	assert.Equal(t, USDT, V3.Parse("USDT"))

	// USDT is not a v2 wire code, so it stays opaque there.
	assert.Equal(t, Unknown("USDT"), V2.Parse("USDT"))
	assert.Equal(t, "USDT", V2.Wire(V2.Parse("USDT")))
}

func TestTableFor(t *testing.T) {
	table, err := TableFor("2")
	require.NoError(t, err)
	assert.Same(t, V2, table)

	table, err = TableFor("3")
	require.NoError(t, err)
	assert.Same(t, V3, table)

	_, err = TableFor("1")
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestNewTable_DuplicateCode(t *testing.T) {
	_, err := NewTable("x", map[Kind]string{KindUSDT: "USDC"})
	assert.ErrorIs(t, err, ErrDuplicateCode)
}

func TestParseTable(t *testing.T) {
	table, err := ParseTable([]byte("version: \"4\"\ncoins:\n  USDT: USDTE\n  TON: TONCOIN\n"))
	require.NoError(t, err)

	assert.Equal(t, "4", table.Version())
	assert.Equal(t, "USDTE", table.Wire(USDT))
	assert.Equal(t, "TONCOIN", table.Wire(TON))
	assert.Equal(t, "BTC", table.Wire(BTC))
	assert.Equal(t, TON, table.Parse("TONCOIN"))
}

func TestParseTable_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing_version", "coins:\n  USDT: USDT20\n"},
		{"unknown_coin", "version: \"2\"\ncoins:\n  DOGE: DOGE\n"},
		{"not_yaml", "version: [\n"},
		{"duplicate", "version: \"2\"\ncoins:\n  USDT: BTC\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTable([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coins.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"2\"\ncoins:\n  USDT: USDT20\n"), 0o600))

	table, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, "USDT20", table.Wire(USDT))

	_, err = LoadTable(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSymbol_Composition(t *testing.T) {
	s := NewSymbol(BTC, USDT)

	assert.Equal(t, V3.Wire(BTC)+V3.Wire(USDT), V3.SymbolCode(s))
	assert.Equal(t, "BTCUSDT", V3.SymbolCode(s))
	assert.Equal(t, "BTCUSDT20", V2.SymbolCode(s))
	assert.Equal(t, "BTC/USDT", s.String())
}

func TestSymbol_Reversed(t *testing.T) {
	s := NewSymbol(TON, BTC)
	r := s.Reversed()

	assert.Equal(t, "BTCTON", V3.SymbolCode(r))
	assert.Equal(t, V3.Wire(BTC)+V3.Wire(TON), V3.SymbolCode(r))
	assert.Equal(t, "TONBTC", V3.SymbolCode(s), "source symbol must not change")
	assert.NotEqual(t, V3.SymbolCode(s), V3.SymbolCode(r))
}

func TestTable_SymbolCodes(t *testing.T) {
	codes := V3.SymbolCodes([]Symbol{NewSymbol(TON, USDT), NewSymbol(BTC, USDT), NewSymbol(Unknown("DOGE"), BTC)})
	assert.Equal(t, []string{"TONUSDT", "BTCUSDT", "DOGEBTC"}, codes)
}
