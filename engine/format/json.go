package format

import (
	"encoding/json"

	"github.com/tidwall/pretty"
)

type jsonAdapter struct{}

var prettyOptions = &pretty.Options{Indent: "    ", SortKeys: true}

func (jsonAdapter) Parse(data []byte) (map[string]any, error) {
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, newMalformedError(err, JSON)
	}
	return tree, nil
}

func (jsonAdapter) Render(tree map[string]any) ([]byte, error) {
	data, err := json.Marshal(tree)
	if err != nil {
		return nil, err
	}
	return pretty.PrettyOptions(data, prettyOptions), nil
}
