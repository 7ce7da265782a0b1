package memimage

import (
	"fmt"
	"sort"
	"strings"
)

// SymbolTable maps signal names to addresses. Each signal gets exactly one
// declaration; names differing only by letter case are rejected so that a
// misspelt reference can never silently become a second signal.
type SymbolTable struct {
	byName map[string]Addr
	folded map[string]string
}

// NewSymbolTable creates an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		byName: make(map[string]Addr),
		folded: make(map[string]string),
	}
}

// Declare binds name to a.
func (t *SymbolTable) Declare(name string, a Addr) error {
	key := strings.ToLower(name)
	if existing, ok := t.folded[key]; ok {
		if existing == name {
			return fmt.Errorf("%w: %s declared twice", ErrNameCollision, name)
		}

		return fmt.Errorf("%w: %s conflicts with %s", ErrNameCollision, name, existing)
	}

	t.byName[name] = a
	t.folded[key] = name

	return nil
}

// DeclareText parses text as an address and binds name to it.
func (t *SymbolTable) DeclareText(name, text string) error {
	a, err := ParseAddr(text)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	return t.Declare(name, a)
}

// Lookup finds a name exactly as declared.
func (t *SymbolTable) Lookup(name string) (Addr, bool) {
	a, ok := t.byName[name]
	return a, ok
}

// MustLookup panics when name is not declared.
func (t *SymbolTable) MustLookup(name string) Addr {
	a, ok := t.byName[name]
	if !ok {
		panic(fmt.Sprintf("symbol %s is not declared", name))
	}

	return a
}

// Names lists the declared names in sorted order.
func (t *SymbolTable) Names() []string {
	names := make([]string, 0, len(t.byName))
	for n := range t.byName {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}
