package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"

	"github.com/san-kum/gridview/internal/frames"
	"gopkg.in/yaml.v3"
)

// Manifest is the ordered list of test names.
type Manifest struct {
	Names []string `json:"names" yaml:"names"`
}

// decodeManifest accepts either a bare list of names or {names: [...]}.
func decodeManifest(name string, data []byte) (*Manifest, error) {
	var names []string
	switch path.Ext(name) {
	case ".yaml", ".yml":
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, err
		}
		if len(node.Content) == 0 {
			return &Manifest{}, nil
		}
		root := node.Content[0]
		if root.Kind == yaml.SequenceNode {
			if err := root.Decode(&names); err != nil {
				return nil, err
			}
		} else {
			var m Manifest
			if err := root.Decode(&m); err != nil {
				return nil, err
			}
			names = m.Names
		}
	case ".js":
		data = stripAssignment(data)
		fallthrough
	default:
		data = bytes.TrimSpace(data)
		if len(data) > 0 && data[0] == '[' {
			if err := json.Unmarshal(data, &names); err != nil {
				return nil, err
			}
		} else {
			var m Manifest
			if err := json.Unmarshal(data, &m); err != nil {
				return nil, err
			}
			names = m.Names
		}
	}
	return &Manifest{Names: dedupe(names)}, nil
}

// decodeSequence parses a JSON array of frames. Legacy script assets of the
// form `ident = [...];` are accepted.
func decodeSequence(name string, data []byte) (frames.Sequence, error) {
	if path.Ext(name) == ".js" {
		data = stripAssignment(data)
	}
	var seq frames.Sequence
	if err := json.Unmarshal(bytes.TrimSpace(data), &seq); err != nil {
		return nil, err
	}
	if err := seq.Validate(); err != nil {
		return nil, err
	}
	return seq, nil
}

// stripAssignment removes a leading `ident =` (optionally `var ident =`) and
// a trailing semicolon.
func stripAssignment(data []byte) []byte {
	data = bytes.TrimSpace(data)
	if i := bytes.IndexByte(data, '='); i >= 0 {
		head := bytes.TrimSpace(data[:i])
		if isIdentifier(head) {
			data = bytes.TrimSpace(data[i+1:])
		}
	}
	return bytes.TrimRight(data, "; \t\r\n")
}

func isIdentifier(b []byte) bool {
	for _, prefix := range [][]byte{[]byte("var "), []byte("let "), []byte("const "), []byte("window.")} {
		if bytes.HasPrefix(b, prefix) {
			b = bytes.TrimSpace(b[len(prefix):])
			break
		}
	}
	if len(b) == 0 {
		return false
	}
	for i, c := range b {
		switch {
		case c == '_' || c == '$' || c == '.':
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func encodeSequence(seq frames.Sequence) ([]byte, error) {
	if seq == nil {
		seq = frames.Sequence{}
	}
	data, err := json.Marshal(seq)
	if err != nil {
		return nil, fmt.Errorf("encode sequence: %w", err)
	}
	return append(data, '\n'), nil
}
