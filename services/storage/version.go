package storage

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// VersionWrapper tags an encoded value with the version of its layout.
type VersionWrapper struct {
	Version int              `json:"version"`
	Value   *json.RawMessage `json:"value"`
}

// VersionJSONEncode encodes o as JSON wrapped with its layout version.
func VersionJSONEncode(version int, o interface{}) ([]byte, error) {
	raw, err := json.Marshal(o)
	if err != nil {
		return nil, err
	}
	value := json.RawMessage(raw)
	return json.Marshal(VersionWrapper{
		Version: version,
		Value:   &value,
	})
}

// VersionJSONDecode hands the decoder of a value encoded by
// VersionJSONEncode to decF along with its version.
func VersionJSONDecode(data []byte, decF func(version int, dec *json.Decoder) error) error {
	var wrapper VersionWrapper
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return errors.Wrap(err, "decoding version wrapper")
	}
	if wrapper.Value == nil {
		return errors.New("empty value")
	}
	return decF(wrapper.Version, json.NewDecoder(bytes.NewReader(*wrapper.Value)))
}
