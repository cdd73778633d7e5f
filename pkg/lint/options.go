package lint

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// DecodeOptions decodes rule options into a typed struct using
// `mapstructure` tags. Values from YAML and JSON are weakly typed, so "3"
// decodes into an int field. Fields without a matching key keep their value,
// which lets callers pre-fill defaults.
func DecodeOptions(opts map[string]any, out any) error {
	if len(opts) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("failed to create options decoder: %w", err)
	}
	if err := dec.Decode(opts); err != nil {
		return fmt.Errorf("invalid rule options: %w", err)
	}
	return nil
}

// GetStringSliceOption extracts a string slice option.
func GetStringSliceOption(opts map[string]any, key string, defaultVal []string) []string {
	if opts == nil {
		return defaultVal
	}
	v, ok := opts[key]
	if !ok {
		return defaultVal
	}
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		result := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	default:
		return defaultVal
	}
}
