package store

import "encoding/json"

// Filter restricts a scan to documents whose attribute satisfies a predicate.
// A nil Filter matches everything.
type Filter interface {
	Match(doc map[string]any) bool
}

// Equals matches documents whose attribute equals Value.
type Equals struct {
	Attribute string
	Value     string
}

func (f Equals) Match(doc map[string]any) bool {
	v, ok := doc[f.Attribute].(string)
	return ok && v == f.Value
}

// Between matches documents whose attribute lies in [Lower, Upper].
// Comparison is lexicographic, as in the stores that push it down.
type Between struct {
	Attribute string
	Lower     string
	Upper     string
}

func (f Between) Match(doc map[string]any) bool {
	v, ok := doc[f.Attribute].(string)
	return ok && v >= f.Lower && v <= f.Upper
}

func matches(filter Filter, doc []byte) (bool, error) {
	if filter == nil {
		return true, nil
	}
	fields := map[string]any{}
	if err := json.Unmarshal(doc, &fields); err != nil {
		return false, err
	}
	return filter.Match(fields), nil
}
