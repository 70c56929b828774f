// Package export serializes animations and rigs into the runtime's .anim
// and .rig JSON documents, reads them back, and writes glTF 2.0 assets.
package export

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// Document errors.
var (
	ErrMalformed = errors.New("malformed document")
)

// Default indentation, in spaces, of the written documents. Zero writes
// compact JSON.
const (
	DefaultAnimIndent = 4
	DefaultRigIndent  = 0
)

func writeJSON(w io.Writer, v any, indent int) error {
	var (
		data []byte
		err  error
	)
	if indent > 0 {
		data, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
