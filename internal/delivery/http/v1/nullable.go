package v1

import "encoding/json"

// nullableString tells an absent field apart from an explicit null.
type nullableString struct {
	set   bool
	value *string
}

func (s *nullableString) UnmarshalJSON(data []byte) error {
	s.set = true
	if string(data) == "null" {
		s.value = nil
		return nil
	}

	var v string
	err := json.Unmarshal(data, &v)
	if err != nil {
		return err
	}
	s.value = &v
	return nil
}

// patch returns nil for an absent field and "" for null, which clears the
// stored value.
func (s nullableString) patch() *string {
	if !s.set {
		return nil
	}
	if s.value == nil {
		empty := ""
		return &empty
	}
	return s.value
}
