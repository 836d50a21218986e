package commsutil

import "encoding/json"

// EncodePayload serializes a wire document (route request, ack, dispatch
// event) to JSON bytes.
func EncodePayload(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// DecodePayload deserializes JSON bytes into the given wire document.
func DecodePayload(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
