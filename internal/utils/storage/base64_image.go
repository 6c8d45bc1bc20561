package storage

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrInvalidBase64Image = errors.New("invalid base64 image")

// DecodeBase64Image accepts either a data URI ("data:image/png;base64,....")
// or a bare base64 payload and returns the decoded bytes.
func DecodeBase64Image(data string) ([]byte, error) {
	payload := strings.TrimSpace(data)
	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ";base64,")
		if idx < 0 {
			return nil, ErrInvalidBase64Image
		}
		payload = payload[idx+len(";base64,"):]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return nil, ErrInvalidBase64Image
		}
	}
	if len(raw) == 0 {
		return nil, ErrInvalidBase64Image
	}
	return raw, nil
}
