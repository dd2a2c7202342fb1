package sim

import (
	"fmt"
	"strconv"
	"strings"
)

// A Name is a dot separated component name, such as "Sys.Core[1].L1".
type Name struct {
	Tokens []NameToken
}

// NameToken is one element of a name. Elements of a series carry their
// indices.
type NameToken struct {
	ElemName string
	Index    []int
}

// ParseName splits a name into its tokens. It panics on unmatched brackets
// or non-integer indices.
func ParseName(s string) Name {
	parts := strings.Split(s, ".")
	name := Name{Tokens: make([]NameToken, 0, len(parts))}

	for _, p := range parts {
		token, err := parseNameToken(p)
		if err != nil {
			panic(err.Error())
		}

		name.Tokens = append(name.Tokens, token)
	}

	return name
}

func parseNameToken(s string) (NameToken, error) {
	open := strings.IndexByte(s, '[')
	if open < 0 {
		if strings.ContainsRune(s, ']') {
			return NameToken{}, fmt.Errorf("unmatched ] in %q", s)
		}

		return NameToken{ElemName: s}, nil
	}

	token := NameToken{ElemName: s[:open]}
	rest := s[open:]

	for rest != "" {
		if rest[0] != '[' {
			return NameToken{}, fmt.Errorf("unexpected %q after index", rest)
		}

		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return NameToken{}, fmt.Errorf("unmatched [ in %q", s)
		}

		index, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return NameToken{}, fmt.Errorf("index of %q is not an integer", s)
		}

		token.Index = append(token.Index, index)
		rest = rest[end+1:]
	}

	return token, nil
}

// NameMustBeValid panics if a component name is malformed. Every element
// starts with a capital letter and contains no quotes, dashes or
// underscores.
func NameMustBeValid(name string) {
	defer func() {
		if r := recover(); r != nil {
			panic(fmt.Sprintf("name %q is not valid: %v", name, r))
		}
	}()

	for _, token := range ParseName(name).Tokens {
		elemMustBeValid(token.ElemName)
	}
}

func elemMustBeValid(elem string) {
	if elem == "" {
		panic("empty element")
	}

	if i := strings.IndexAny(elem, "_\"'-"); i >= 0 {
		panic("element contains " + string(elem[i]))
	}

	if elem[0] < 'A' || elem[0] > 'Z' {
		panic("element must start with a capital letter")
	}
}

// BuildName joins a parent name and an element name.
func BuildName(parentName, elementName string) string {
	if parentName == "" {
		return elementName
	}

	return parentName + "." + elementName
}

// BuildNameWithIndex joins a parent name and the i-th element of a series.
func BuildNameWithIndex(parentName, elementName string, index int) string {
	return BuildName(parentName, fmt.Sprintf("%s[%d]", elementName, index))
}
