package response

import (
	"encoding/json"
)

type response struct {
	IsOk    bool        `json:"is_ok"`
	Payload interface{} `json:"payload,omitempty"`
}

// Build response to payload and error.
// A failed response without payload carries the error text.
func Build(payload interface{}, err error) ([]byte, error) {
	response := response{
		IsOk:    err == nil,
		Payload: payload,
	}

	if !response.IsOk && payload == nil {
		response.Payload = err.Error()
	}
	return json.Marshal(response)
}
