package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// decodeYAML decodes the first YAML document of data into a JSON-like value.
// yaml.v3 already rejects duplicate mapping keys.
func decodeYAML(data []byte) (any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var node any
	if err := dec.Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, errors.New("multiple YAML documents; expected exactly one")
	}
	return yamlNormalizeValue(node), nil
}

// yamlNormalizeValue converts YAML-decoded values (which may contain
// map[any]any or timestamps) into JSON-like values recursively.
func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				ks = fmt.Sprint(k)
			}
			out[ks] = yamlNormalizeValue(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	case time.Time:
		return t.Format(time.RFC3339Nano)
	default:
		return v
	}
}
