package utils

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrInvalidDataURI = errors.New("invalid data URI payload")

// DecodeDataURI decodes an RFC 2397 style payload
// ("data:image/png;base64,iVBOR...") into raw bytes.
// The MIME type embedded in the URI is ignored; callers supply the
// content type separately.
func DecodeDataURI(dataURI string) ([]byte, error) {
	idx := strings.Index(dataURI, ",")
	if idx < 0 {
		return nil, ErrInvalidDataURI
	}

	data, err := base64.StdEncoding.DecodeString(dataURI[idx+1:])
	if err != nil {
		// บาง client ส่งแบบไม่มี padding
		data, err = base64.RawStdEncoding.DecodeString(dataURI[idx+1:])
		if err != nil {
			return nil, ErrInvalidDataURI
		}
	}

	return data, nil
}
