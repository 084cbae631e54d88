package contract

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// Canonical serialises n as compact JSON with object keys sorted by code
// point. Strings are escaped without HTML escaping, numbers keep their
// source decimal form and repeated keys keep their first value. The output
// does not depend on source formatting or key order.
func Canonical(n *yaml.Node) []byte {
	var buf bytes.Buffer
	writeCanonical(&buf, Resolve(n))
	return buf.Bytes()
}

// Hash returns the hex SHA-256 of the canonical serialisation of n.
func Hash(n *yaml.Node) string {
	sum := sha256.Sum256(Canonical(n))
	return hex.EncodeToString(sum[:])
}

func writeCanonical(buf *bytes.Buffer, n *yaml.Node) {
	n = Resolve(n)
	if n == nil {
		buf.WriteString("null")
		return
	}
	switch n.Kind {
	case yaml.MappingNode:
		pairs := Pairs(n)
		sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Key.Value < pairs[j].Key.Value })
		buf.WriteByte('{')
		for i, p := range pairs {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(buf, p.Key.Value)
			buf.WriteByte(':')
			writeCanonical(buf, p.Value)
		}
		buf.WriteByte('}')
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonical(buf, c)
		}
		buf.WriteByte(']')
	default:
		writeScalar(buf, n)
	}
}

func writeScalar(buf *bytes.Buffer, n *yaml.Node) {
	switch n.ShortTag() {
	case "!!null":
		buf.WriteString("null")
	case "!!bool":
		if b, err := strconv.ParseBool(strings.ToLower(n.Value)); err == nil {
			buf.WriteString(strconv.FormatBool(b))
			return
		}
		writeString(buf, n.Value)
	case "!!int", "!!float":
		if num, ok := normalizeNumber(n); ok {
			buf.WriteString(num)
			return
		}
		writeString(buf, n.Value)
	default:
		writeString(buf, n.Value)
	}
}

// normalizeNumber rewrites YAML-only number forms (hex, octal, underscores,
// leading plus) to decimal. Infinities and NaN have no JSON form.
func normalizeNumber(n *yaml.Node) (string, bool) {
	v := n.Value
	if jsonNumber.MatchString(v) {
		return v, true
	}
	clean := strings.TrimPrefix(strings.ReplaceAll(v, "_", ""), "+")
	if n.ShortTag() == "!!int" {
		if i, err := strconv.ParseInt(clean, 0, 64); err == nil {
			return strconv.FormatInt(i, 10), true
		}
	}
	if jsonNumber.MatchString(clean) {
		return clean, true
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	return strconv.FormatFloat(f, 'g', -1, 64), true
}

func writeString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	// Encode appends a newline.
	buf.Truncate(buf.Len() - 1)
}
