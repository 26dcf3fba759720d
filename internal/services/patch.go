package services

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// decodeWhitelisted fills dst from a JSON object body, rejecting the whole
// body with ErrInvalidUpdates if it names any key outside allowed.
func decodeWhitelisted(body []byte, dst any, allowed ...string) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	ok := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		ok[k] = true
	}
	for k := range raw {
		if !ok[k] {
			return ErrInvalidUpdates
		}
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return nil
}
