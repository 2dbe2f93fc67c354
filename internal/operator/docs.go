package operator

import "sort"

// Doc is the purely descriptive record for one operator type, consumed by
// external tooling such as prompt generation for graph authoring. Nothing
// here is validated against actual operator behavior.
type Doc struct {
	Type   string            `json:"type"`
	Desc   string            `json:"desc,omitempty"`
	Init   map[string]string `json:"init,omitempty"`
	Input  string            `json:"input,omitempty"`
	Output string            `json:"output,omitempty"`
}

// Doc returns the documentation record for an operator type, if any.
func (r *Registry) Doc(opType string) (Doc, bool) {
	d, ok := r.docs[opType]
	return d, ok
}

// Docs returns all documentation records sorted by type name.
func (r *Registry) Docs() []Doc {
	docs := make([]Doc, 0, len(r.docs))
	for _, d := range r.docs {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Type < docs[j].Type })
	return docs
}
