package coin

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Table versions shipped with the package.
const (
	VersionV2 = "2"
	VersionV3 = "3"
)

var (
	// ErrDuplicateCode is returned when two kinds map to the same wire code.
	ErrDuplicateCode = errors.New("duplicate wire code")
	// ErrUnknownTable is returned for a table version that is not registered.
	ErrUnknownTable = errors.New("unknown coin table version")
)

// Table maps known coins to the wire codes of one API generation.
// A Table is immutable once built and safe for concurrent use.
type Table struct {
	version  string
	toWire   map[Kind]string
	fromWire map[string]Kind
}

// TableFile is the YAML layout accepted by LoadTable.
//
//	version: "2"
//	coins:
//	  BTC: BTC
//	  USDT: USDT20
type TableFile struct {
	Version string            `yaml:"version"`
	Coins   map[string]string `yaml:"coins"`
}

// NewTable builds a table from kind to wire code. Kinds missing from codes
// fall back to their canonical name.
func NewTable(version string, codes map[Kind]string) (*Table, error) {
	t := &Table{
		version:  version,
		toWire:   make(map[Kind]string, len(kindNames)),
		fromWire: make(map[string]Kind, len(kindNames)),
	}

	for _, k := range Kinds() {
		code, ok := codes[k]
		if !ok || code == "" {
			code = k.String()
		}
		if other, exists := t.fromWire[code]; exists {
			return nil, fmt.Errorf("%w: %q used by %s and %s", ErrDuplicateCode, code, other, k)
		}
		t.toWire[k] = code
		t.fromWire[code] = k
	}

	return t, nil
}

func mustTable(version string, codes map[Kind]string) *Table {
	t, err := NewTable(version, codes)
	if err != nil {
		panic(err)
	}
	return t
}

// V2 spells tether as USDT20, V3 as USDT.
var (
	V2 = mustTable(VersionV2, map[Kind]string{KindUSDT: "USDT20"})
	V3 = mustTable(VersionV3, map[Kind]string{})
)

// TableFor returns a built-in table by version.
func TableFor(version string) (*Table, error) {
	switch version {
	case VersionV2:
		return V2, nil
	case VersionV3:
		return V3, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, version)
	}
}

// LoadTable reads a YAML table file. Coin names must be canonical kind names.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read coin table: %w", err)
	}
	return ParseTable(data)
}

// ParseTable decodes a YAML table document.
func ParseTable(data []byte) (*Table, error) {
	var file TableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse coin table: %w", err)
	}
	if file.Version == "" {
		return nil, fmt.Errorf("parse coin table: version is required")
	}

	codes := make(map[Kind]string, len(file.Coins))
	for name, code := range file.Coins {
		kind, ok := KindByName(name)
		if !ok {
			return nil, fmt.Errorf("parse coin table: unknown coin %q", name)
		}
		codes[kind] = code
	}

	return NewTable(file.Version, codes)
}

// Version returns the API generation this table describes.
func (t *Table) Version() string {
	return t.version
}

// Wire returns the wire code for c. Unknown coins return their code unchanged.
func (t *Table) Wire(c Coin) string {
	if c.kind == KindUnknown {
		return c.code
	}
	if code, ok := t.toWire[c.kind]; ok {
		return code
	}
	return c.kind.String()
}

// Parse resolves a wire code. Codes not in the table become Unknown coins.
func (t *Table) Parse(code string) Coin {
	if kind, ok := t.fromWire[code]; ok {
		return Known(kind)
	}
	return Unknown(code)
}

// SymbolCode returns the wire identifier of a trading pair.
func (t *Table) SymbolCode(s Symbol) string {
	return t.Wire(s.Left) + t.Wire(s.Right)
}

// SymbolCodes maps symbols to wire identifiers, preserving order.
func (t *Table) SymbolCodes(symbols []Symbol) []string {
	codes := make([]string, len(symbols))
	for i, s := range symbols {
		codes[i] = t.SymbolCode(s)
	}
	return codes
}
