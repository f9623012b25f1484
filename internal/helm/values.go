package helm

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Values represents helm chart values as a nested map.
type Values = map[string]any

// MergeValues combines value maps with later maps taking precedence.
// Nested maps are merged recursively; any other value is replaced.
func MergeValues(valueMaps ...Values) Values {
	result := make(Values)
	for _, m := range valueMaps {
		mergeInto(result, m)
	}
	return result
}

func mergeInto(dst, src Values) {
	for k, v := range src {
		srcMap, srcOK := v.(Values)
		dstMap, dstOK := dst[k].(Values)
		if srcOK && dstOK {
			mergeInto(dstMap, srcMap)
			continue
		}
		dst[k] = v
	}
}

// ValuesFromYAML parses YAML bytes into Values.
func ValuesFromYAML(data []byte) (Values, error) {
	var values Values
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse YAML values: %w", err)
	}
	return values, nil
}
