// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package crocopat

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// SymTab is the symbol table shared by the relations of an environment. It
// maps attributes to blocks of BitNr consecutive BDD variables, and the
// values of the universe to the numbers 0 to UniverseSize()-1.
//
// The universe is shared by all the attributes and cannot change once it is
// initialized, since the bit width is baked into every relation already
// built. Attributes can be added and removed at any time; removing an
// attribute does not change existing relations.
type SymTab struct {
	bitnr      int
	attributes map[string]int // attribute -> attribute number
	positions  map[int]string // attribute number -> attribute
	values     []string       // sorted universe
	numbers    map[string]int // value -> number
	quoted     map[string]bool
}

// NewSymTab returns an empty symbol table.
func NewSymTab() *SymTab {
	return &SymTab{
		attributes: make(map[string]int),
		positions:  make(map[int]string),
		numbers:    make(map[string]int),
		quoted:     make(map[string]bool),
	}
}

// InitValueUniverse sets the universe of values. Values are sorted and
// duplicates are removed, so the number of a value is its rank in the
// lexicographic order. It can only be called once.
func (s *SymTab) InitValueUniverse(values []string) error {
	if s.bitnr != 0 {
		return ErrUniverseFrozen
	}
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	s.values = sorted[:0]
	for k, v := range sorted {
		if k > 0 && v == sorted[k-1] {
			continue
		}
		s.numbers[v] = len(s.values)
		s.values = append(s.values, v)
	}
	// we need at least one bit, even for a universe with a single value
	s.bitnr = 1
	for max := len(s.values) - 1; max > 1; max >>= 1 {
		s.bitnr++
	}
	return nil
}

// BitNr returns the number of BDD variables used to encode an attribute, or 0
// if the universe is not initialized.
func (s *SymTab) BitNr() int {
	return s.bitnr
}

// UniverseSize returns the number of distinct values in the universe.
func (s *SymTab) UniverseSize() int {
	return len(s.values)
}

// AddAttribute adds an attribute to the table, if new. The attribute takes
// the first free attribute number, starting from the number of attributes.
func (s *SymTab) AddAttribute(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrUnknownAttribute)
	}
	if _, ok := s.attributes[name]; ok {
		return nil
	}
	num := len(s.attributes)
	for {
		if _, ok := s.positions[num]; !ok {
			break
		}
		num++
	}
	s.attributes[name] = num
	s.positions[num] = name
	return nil
}

// RemoveAttribute removes an attribute from the table.
func (s *SymTab) RemoveAttribute(name string) error {
	num, ok := s.attributes[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
	}
	delete(s.positions, num)
	delete(s.attributes, name)
	return nil
}

// RemoveAttributesNotMatchingPrefix removes every attribute whose name does
// not start with prefix.
func (s *SymTab) RemoveAttributesNotMatchingPrefix(prefix string) {
	for name, num := range s.attributes {
		if !strings.HasPrefix(name, prefix) {
			delete(s.positions, num)
			delete(s.attributes, name)
		}
	}
}

// HasAttribute reports whether name is an attribute of the table.
func (s *SymTab) HasAttribute(name string) bool {
	_, ok := s.attributes[name]
	return ok
}

// AttributePos returns the first BDD variable of the block encoding
// attribute name.
func (s *SymTab) AttributePos(name string) (int, error) {
	num, ok := s.attributes[name]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
	}
	if s.bitnr == 0 {
		return -1, ErrUniverseNotSet
	}
	return num * s.bitnr, nil
}

// attributeAt returns the attribute encoded by the block containing variable
// v, if any.
func (s *SymTab) attributeAt(v int) (string, bool) {
	if s.bitnr == 0 {
		return "", false
	}
	name, ok := s.positions[v/s.bitnr]
	return name, ok
}

// ValueNum returns the number of a value of the universe.
func (s *SymTab) ValueNum(value string) (int, error) {
	num, ok := s.numbers[value]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrUnknownValue, value)
	}
	return num, nil
}

// Value returns the value with number num.
func (s *SymTab) Value(num int) (string, error) {
	if num < 0 || num >= len(s.values) {
		return "", fmt.Errorf("%w: no value with number %d", ErrUnknownValue, num)
	}
	return s.values[num], nil
}

// IsValue reports whether value is in the universe.
func (s *SymTab) IsValue(value string) bool {
	_, ok := s.numbers[value]
	return ok
}

// SetQuoted records that value was quoted in the input, so that it is quoted
// again on output.
func (s *SymTab) SetQuoted(value string) {
	s.quoted[value] = true
}

// IsQuoted reports whether value was quoted in the input.
func (s *SymTab) IsQuoted(value string) bool {
	return s.quoted[value]
}

// VariableOrder returns the attributes in attrs sorted by position.
func (s *SymTab) VariableOrder(attrs []string) ([]string, error) {
	res := make([]string, 0, len(attrs))
	seen := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		if _, ok := s.attributes[a]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAttribute, a)
		}
		if !seen[a] {
			seen[a] = true
			res = append(res, a)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		return s.attributes[res[i]] < s.attributes[res[j]]
	})
	return res, nil
}

// Attributes returns all the attributes of the table, sorted by position.
func (s *SymTab) Attributes() []string {
	res := make([]string, 0, len(s.attributes))
	for name := range s.attributes {
		res = append(res, name)
	}
	sort.Slice(res, func(i, j int) bool {
		return s.attributes[res[i]] < s.attributes[res[j]]
	})
	return res
}

// WriteValueNames writes the universe, one value per line, preceded by its
// number.
func (s *SymTab) WriteValueNames(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for k, v := range s.values {
		fmt.Fprintf(bw, "%d\t%s\n", k, v)
	}
	return bw.Flush()
}
