package codegen

import (
	"fmt"
	"sort"
	"strings"
)

// language describes one supported output language.
type language struct {
	name    string
	aliases []string
	indent  string
	create  func() Backend
}

var languages = []language{
	{name: "go", aliases: []string{"golang"}, indent: "\t", create: func() Backend { return &goBackend{} }},
	{name: "typescript", aliases: []string{"ts", "js", "javascript"}, indent: "    ", create: func() Backend { return &tsBackend{} }},
	{name: "yaml", aliases: []string{"yml"}, indent: "  ", create: func() Backend { return newYAMLBackend() }},
}

// Languages returns the canonical names of the supported languages.
func Languages() []string {
	names := make([]string, 0, len(languages))
	for _, l := range languages {
		names = append(names, l.name)
	}
	sort.Strings(names)
	return names
}

// Aliases returns the accepted spellings of a canonical language name.
func Aliases(name string) []string {
	for _, l := range languages {
		if l.name == name {
			return append([]string(nil), l.aliases...)
		}
	}
	return nil
}

// Normalize maps any accepted spelling of a language to its canonical
// name. Surrounding whitespace and case are ignored.
func Normalize(lang string) (string, bool) {
	l, ok := find(lang)
	if !ok {
		return "", false
	}
	return l.name, true
}

func find(lang string) (language, bool) {
	key := strings.ToLower(strings.TrimSpace(lang))
	for _, l := range languages {
		if l.name == key {
			return l, true
		}
		for _, alias := range l.aliases {
			if alias == key {
				return l, true
			}
		}
	}
	return language{}, false
}

func lookup(lang string) (string, Backend, error) {
	l, ok := find(lang)
	if !ok {
		return "", nil, fmt.Errorf("unsupported language: %q (supported: %s)", lang, strings.Join(Languages(), ", "))
	}
	return l.name, l.create(), nil
}

func indentUnit(name string) string {
	if l, ok := find(name); ok {
		return l.indent
	}
	return "\t"
}
