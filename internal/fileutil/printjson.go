package fileutil

import (
	"encoding/json"
	"io"
)

// WriteJSON encodes value as two-space indented JSON followed by a newline.
func WriteJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
