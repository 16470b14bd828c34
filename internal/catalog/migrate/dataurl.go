package migrate

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// isDataURL reports whether s carries inline base64 content ("data:...").
// External links (http, youtube embeds) are not data URLs and are kept as-is
// during migration.
func isDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// decodeDataURL decodes the payload of a base64 data URL
// ("data:<mime>;base64,<payload>"). The mime type is discarded: blob entries
// carry raw bytes only, content type is the document's concern.
func decodeDataURL(s string) ([]byte, error) {
	if !isDataURL(s) {
		return nil, fmt.Errorf("not a data url")
	}
	_, payload, found := strings.Cut(s, ",")
	if !found {
		return nil, fmt.Errorf("malformed data url: no payload separator")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("malformed data url: %w", err)
	}
	return data, nil
}
