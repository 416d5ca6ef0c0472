package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Flex holds a scalar the backend may send either as a JSON string or as a
// JSON number (form inputs are posted as strings, stored values come back
// as numbers). It is always marshalled as a string.
type Flex string

func (f *Flex) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = Flex(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = Flex(n.String())
	return nil
}

// Float returns the numeric value, or 0 when the value is empty or not a number.
func (f Flex) Float() float64 {
	v, err := strconv.ParseFloat(string(f), 64)
	if err != nil {
		return 0
	}
	return v
}

func (f Flex) String() string { return string(f) }
