package recordstore

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// TimestampExtractor reads an integer ordering key from a JSON payload
// path, typically "ts".
type TimestampExtractor struct {
	Field string
}

func (e TimestampExtractor) ExtractKey(data []byte) (RecordId, error) {
	result := gjson.GetBytes(data, e.Field)
	if !result.Exists() {
		return NullId, fmt.Errorf("%w: missing field '%s'", ErrMalformedPayload, e.Field)
	}
	if result.Type != gjson.Number {
		return NullId, fmt.Errorf("%w: field '%s' is not a number", ErrMalformedPayload, e.Field)
	}
	key := RecordId(result.Int())
	if key <= NullId {
		return NullId, fmt.Errorf("%w: field '%s' must be a positive integer", ErrMalformedPayload, e.Field)
	}
	return key, nil
}
