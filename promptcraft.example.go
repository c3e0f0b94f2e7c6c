package promptcraft

import (
	"io"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Example is a few-shot demonstration: named fields such as "query" and "answer".
type Example map[string]string

// Clone returns an independent copy of the example.
func (e Example) Clone() Example {
	if e == nil {
		return nil
	}
	return maps.Clone(e)
}

// Keys returns the field names in sorted order.
func (e Example) Keys() []string {
	return slices.Sorted(maps.Keys(e))
}

// cloneExamples deep-copies a pool so callers cannot reach selector state.
func cloneExamples(examples []Example) []Example {
	if examples == nil {
		return nil
	}
	out := make([]Example, len(examples))
	for i, ex := range examples {
		out[i] = ex.Clone()
	}
	return out
}

const nullTag = "!!null"

// exampleFile is the on-disk shape of an example pool.
type exampleFile struct {
	Examples []Example `yaml:"examples" json:"examples"`
}

// DecodeExamples reads an example pool from YAML. JSON is accepted as a YAML subset.
// The document is either a list of mappings or a mapping whose only key is
// "examples". An empty document is an error; "[]" is an empty pool.
func DecodeExamples(r io.Reader) ([]Example, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || isNullNode(doc.Content[0]) {
		return nil, NewExamplesShapeError(ErrMsgExamplesEmpty, "")
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		return decodeExampleList(root)
	case yaml.MappingNode:
		var list *yaml.Node
		for i := 0; i+1 < len(root.Content); i += 2 {
			key := root.Content[i].Value
			if key != ExamplesKey {
				return nil, NewExamplesShapeError(ErrMsgExamplesUnknownKey, key)
			}
			list = root.Content[i+1]
		}
		if list == nil {
			return nil, NewExamplesShapeError(ErrMsgExamplesNoList, ExamplesKey)
		}
		if list.Kind != yaml.SequenceNode {
			return nil, NewExamplesShapeError(ErrMsgExamplesNotList, ExamplesKey)
		}
		return decodeExampleList(list)
	default:
		return nil, NewExamplesShapeError(ErrMsgExamplesNotList, "")
	}
}

func isNullNode(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == nullTag
}

func decodeExampleList(node *yaml.Node) ([]Example, error) {
	list := []Example{}
	if err := node.Decode(&list); err != nil {
		return nil, err
	}
	return list, nil
}

// LoadExamples reads an example pool from a YAML or JSON file.
func LoadExamples(path string) ([]Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewExamplesLoadError(path, err)
	}
	defer f.Close()

	examples, err := DecodeExamples(f)
	if err != nil {
		return nil, NewExamplesLoadError(path, err)
	}
	return examples, nil
}

// EncodeExamples writes a pool as YAML.
func EncodeExamples(w io.Writer, examples []Example) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(exampleFile{Examples: examples}); err != nil {
		return err
	}
	return enc.Close()
}
