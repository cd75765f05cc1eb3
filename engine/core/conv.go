package core

import (
	"github.com/go-viper/mapstructure/v2"
)

// FromMapDefault decodes a plain map into T using the default mapstructure
// settings shared across the engine. Field names resolve through `json` tags
// so in-memory conversion matches the persisted key set.
func FromMapDefault[T any](data any) (T, error) {
	var config T
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Squash:           true,
		Result:           &config,
	})
	if err != nil {
		return config, err
	}
	return config, decoder.Decode(data)
}
