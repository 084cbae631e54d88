package contract

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/contractkit/internal/errors"
)

// ErrEmptyDocument is returned for input without a top-level value.
var ErrEmptyDocument = errors.New("document is empty")

// ParseFile reads and parses a contract, schema, glossary or catalog
// document. Files ending in .yaml or .yml are read as YAML, everything else
// as JSON. The result is a document node.
func ParseFile(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	node, err := ParseBytes(path, data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", filepath.Base(path))
	}
	return node, nil
}

// ParseBytes parses data, choosing the syntax from name's extension.
func ParseBytes(name string, data []byte) (*yaml.Node, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return parseYAML(data)
	default:
		return parseJSON(data)
	}
}

func parseYAML(data []byte) (*yaml.Node, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, err
	}
	return &node, nil
}

// parseJSON tokenises JSON into a yaml.Node tree so both syntaxes share one
// ordered, line-aware representation. Scalars carry the YAML core tags and
// numbers keep their source text.
func parseJSON(data []byte) (*yaml.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	b := &jsonBuilder{dec: dec, lines: lineStarts(data)}

	root, err := b.value()
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.Newf("line %d: unexpected data after top-level value", b.line())
	}
	return &yaml.Node{Kind: yaml.DocumentNode, Line: 1, Column: 1, Content: []*yaml.Node{root}}, nil
}

type jsonBuilder struct {
	dec   *json.Decoder
	lines []int
}

// line is the line of the last byte consumed by the decoder.
func (b *jsonBuilder) line() int {
	off := int(b.dec.InputOffset()) - 1
	if off < 0 {
		off = 0
	}
	return sort.Search(len(b.lines), func(i int) bool { return b.lines[i] > off })
}

func (b *jsonBuilder) value() (*yaml.Node, error) {
	tok, err := b.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, errors.Wrapf(err, "line %d", b.line())
	}
	line := b.line()

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return b.object(line)
		case '[':
			return b.array(line)
		}
		return nil, errors.Newf("line %d: unexpected %q", line, t.String())
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: t, Style: yaml.DoubleQuotedStyle, Line: line}, nil
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(t.String(), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: t.String(), Line: line}, nil
	case bool:
		v := "false"
		if t {
			v = "true"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: v, Line: line}, nil
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null", Line: line}, nil
	default:
		return nil, errors.Newf("line %d: unsupported token %v", line, tok)
	}
}

func (b *jsonBuilder) object(line int) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Line: line}
	for b.dec.More() {
		tok, err := b.dec.Token()
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", b.line())
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.Newf("line %d: object key must be a string", b.line())
		}
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key, Style: yaml.DoubleQuotedStyle, Line: b.line()}
		val, err := b.value()
		if err != nil {
			if errors.Is(err, ErrEmptyDocument) {
				return nil, errors.Newf("line %d: unterminated object", line)
			}
			return nil, err
		}
		n.Content = append(n.Content, keyNode, val)
	}
	if _, err := b.dec.Token(); err != nil {
		return nil, errors.Newf("line %d: unterminated object", line)
	}
	return n, nil
}

func (b *jsonBuilder) array(line int) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Line: line}
	for b.dec.More() {
		val, err := b.value()
		if err != nil {
			if errors.Is(err, ErrEmptyDocument) {
				return nil, errors.Newf("line %d: unterminated array", line)
			}
			return nil, err
		}
		n.Content = append(n.Content, val)
	}
	if _, err := b.dec.Token(); err != nil {
		return nil, errors.Newf("line %d: unterminated array", line)
	}
	return n, nil
}

// lineStarts returns the byte offset at which each line begins.
func lineStarts(data []byte) []int {
	starts := []int{0}
	for i, c := range data {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}
