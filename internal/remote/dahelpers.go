package remote

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aquamarinepk/aqm"
)

// ErrNotConfigured is returned by data access wrappers built without a client.
var ErrNotConfigured = errors.New("store client not configured")

// DecodeSuccessResponse copies the dynamic response payload into dest.
func DecodeSuccessResponse(resp *aqm.SuccessResponse, dest interface{}) error {
	if resp == nil {
		return errors.New("nil success response")
	}

	raw, err := json.Marshal(resp.Data)
	if err != nil {
		return fmt.Errorf("cannot encode response payload: %w", err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("malformed response payload: %w", err)
	}

	return nil
}
