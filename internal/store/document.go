package store

type DocumentState struct {
	Documents []Document `json:"documents"`
}

func (s *DocumentState) reduce(action Action) bool {
	switch a := action.(type) {
	case AddDocument:
		s.Documents = append(s.Documents, a.Document)
	case DeleteDocument:
		kept := make([]Document, 0, len(s.Documents))
		for _, doc := range s.Documents {
			if doc.ID != a.ID {
				kept = append(kept, doc)
			}
		}
		s.Documents = kept
	default:
		return false
	}
	return true
}

func (s DocumentState) clone() DocumentState {
	return DocumentState{Documents: cloneSlice(s.Documents)}
}
