package api

import (
	"encoding/json"
	"fmt"
)

// CodecName is registered with Connect for application/json and
// application/connect+json.
const CodecName = "json"

// JSONCodec is a connect.Codec for the plain structs of this package.
type JSONCodec struct{}

func (JSONCodec) Name() string {
	return CodecName
}

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}
