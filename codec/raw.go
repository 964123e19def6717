package codec

import "github.com/unkn0wn-root/tojson"

// Text decodes the whole payload as a single text value. By convention this
// assumes UTF-8 and performs no validation.
type Text struct{}

func (Text) Decode(b []byte) (tojson.Value, error) { return tojson.Text(string(b)), nil }
