package edbo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexString handles registry fields that arrive as either "123" or 123.
// The registry serializes most numbers as strings, but a few deployments
// hand back raw numbers for count fields.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}

	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("flexstring: invalid json value: %s", string(b))
	}

	if i, err := n.Int64(); err == nil {
		*s = FlexString(strconv.FormatInt(i, 10))
		return nil
	}

	*s = FlexString(n.String())
	return nil
}

// Int64 parses the value as an integer, returning 0 for empty strings.
func (s FlexString) Int64() (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(string(s), 10, 64)
}

// FlexInt64 handles registry fields that arrive as "123", 123, "" or null.
type FlexInt64 int64

func (v *FlexInt64) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte(`""`)) {
		*v = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*v = 0
			return nil
		}
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("flexint: invalid string %q", s)
		}
		*v = FlexInt64(i)
		return nil
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("flexint: invalid json value: %s", string(b))
	}
	i, err := n.Int64()
	if err != nil {
		return fmt.Errorf("flexint: not int64: %s", n.String())
	}
	*v = FlexInt64(i)
	return nil
}
