package gateway

import (
	"fmt"
	"strconv"

	"golang.org/x/text/encoding/simplifiedchinese"
)

// encodeOrderRef renders a local OrderRef as the decimal-ASCII string
// the broker wire protocol expects. No leading zeros, no whitespace —
// strconv.FormatInt already satisfies both.
func encodeOrderRef(ref int64) string {
	return strconv.FormatInt(ref, 10)
}

// decodeOrderRef parses a broker-supplied OrderRef string back to the
// local integer handle. Returns an error on anything that isn't a
// clean decimal integer, rather than silently truncating.
func decodeOrderRef(s string) (int64, error) {
	ref, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("gateway: malformed OrderRef %q: %w", s, err)
	}
	return ref, nil
}

// decodeGB2312 converts a broker payload string (ErrorMsg,
// InstrumentName, StatusMsg) from GB2312 to UTF-8. Many CTP-class
// fronts report success with a field of all-ASCII "" or "success" — in
// that case decoding is a no-op, but fields carrying Chinese text
// require this to be readable.
func decodeGB2312(raw string) string {
	out, err := simplifiedchinese.GB18030.NewDecoder().String(raw)
	if err != nil {
		return raw
	}
	return out
}
