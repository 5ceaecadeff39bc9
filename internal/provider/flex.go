package provider

import (
	"bytes"
	"strconv"

	"salonbook/internal/pricing"

	"github.com/goccy/go-json"
)

// FlexString accepts a JSON string or number and keeps its text form.
// null decodes to the empty string.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		// booleans and other scalars keep their literal text
		*f = FlexString(data)
		return nil
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// FlexNumber accepts a JSON number or numeric string. Anything that does not
// parse to a finite number is kept as invalid rather than failing the decode.
type FlexNumber struct {
	Value float64
	Valid bool
	Raw   string
}

func (f *FlexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*f = FlexNumber{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return nil
		}
		raw = unquoted
	}
	f.Raw = raw
	f.Value, f.Valid = pricing.ParseAmount(raw)
	return nil
}

func (f FlexNumber) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Or returns the value, or def when the input was missing or not numeric.
func (f FlexNumber) Or(def float64) float64 {
	if !f.Valid {
		return def
	}
	return f.Value
}
