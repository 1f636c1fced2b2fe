package lint

import (
	"github.com/go-viper/mapstructure/v2"
)

// DecodeOptions decodes a rule's options into out, a pointer to a struct
// with mapstructure tags. Fields keep their current value when the key is
// absent, so callers preset defaults. Input is weakly typed because
// environment overrides arrive as strings: "true" decodes to a bool and
// "a,b" to a two-element slice.
func DecodeOptions(opts map[string]any, out any) error {
	if len(opts) == 0 {
		return nil
	}
	dec, err := newOptionsDecoder(out)
	if err != nil {
		return err
	}
	return dec.Decode(opts)
}

// GetOption extracts a single option, converted to T the same way
// DecodeOptions converts fields. Missing or unconvertible values yield
// defaultVal.
func GetOption[T any](opts map[string]any, key string, defaultVal T) T {
	v, ok := opts[key]
	if !ok || v == nil {
		return defaultVal
	}
	var out T
	dec, err := newOptionsDecoder(&out)
	if err != nil {
		return defaultVal
	}
	if err := dec.Decode(v); err != nil {
		return defaultVal
	}
	return out
}

func newOptionsDecoder(out any) (*mapstructure.Decoder, error) {
	return mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		WeaklyTypedInput: true,
		// Slices are replaced, never written into a preset default.
		ZeroFields: true,
		Result:     out,
	})
}
