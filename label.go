package numbench

import (
	"fmt"
	"strings"
)

// Label identifies a report row. It formats as "name" or "name(key=value)",
// e.g. "max(axis=0)" or "tile(axes=1*1*1*5)".
type Label struct {
	Name  string
	Key   string
	Value string
}

func (l Label) String() string {
	if l.Key == "" {
		return l.Name
	}
	return l.Name + "(" + l.Key + "=" + l.Value + ")"
}

// ParseLabel is the inverse of Label.String.
func ParseLabel(s string) (Label, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Label{}, fmt.Errorf("empty label")
	}
	if strings.ContainsRune(s, ',') {
		return Label{}, fmt.Errorf("label %q contains the report delimiter", s)
	}
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return Label{Name: s}, nil
	}
	if !strings.HasSuffix(s, ")") {
		return Label{}, fmt.Errorf("label %q: missing closing parenthesis", s)
	}
	params := s[open+1 : len(s)-1]
	eq := strings.IndexByte(params, '=')
	if eq <= 0 {
		return Label{}, fmt.Errorf("label %q: parameter is not key=value", s)
	}
	return Label{
		Name:  s[:open],
		Key:   params[:eq],
		Value: params[eq+1:],
	}, nil
}

// JoinInts formats an axis or repeat tuple the way labels and size headers
// show it: 1*4*4*1.
func JoinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, "*")
}
