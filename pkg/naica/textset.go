package naica

import orderedmap "github.com/wk8/go-ordered-map/v2"

// textSet is an insertion-ordered set of strings.
type textSet struct {
	m *orderedmap.OrderedMap[string, struct{}]
}

func newTextSet(values ...string) *textSet {
	s := &textSet{m: orderedmap.New[string, struct{}]()}
	s.add(values...)
	return s
}

func (s *textSet) add(values ...string) {
	for _, v := range values {
		s.m.Set(v, struct{}{})
	}
}

func (s *textSet) contains(value string) bool {
	_, ok := s.m.Get(value)
	return ok
}

func (s *textSet) len() int {
	return s.m.Len()
}

// values returns a copy in insertion order.
func (s *textSet) values() []string {
	out := make([]string, 0, s.m.Len())
	for pair := s.m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}
