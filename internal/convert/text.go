package convert

import "github.com/born-ml/canon/internal/platform"

// EncodeText returns the bytes of s under encoding. An empty encoding means
// UTF-8.
func (c *Converter) EncodeText(s, encoding string) ([]byte, error) {
	return c.platform.Encode(s, textEncoding(encoding))
}

// DecodeText returns the text of b under encoding. An empty encoding means
// UTF-8.
func (c *Converter) DecodeText(b []byte, encoding string) (string, error) {
	return c.platform.Decode(b, textEncoding(encoding))
}

func textEncoding(name string) string {
	if name == "" {
		return platform.DefaultEncoding
	}
	return name
}
