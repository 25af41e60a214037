package store

type ProductState struct {
	Products []Product `json:"products"`
	Selected *Product  `json:"selected_product"`
}

func (s *ProductState) reduce(action Action) bool {
	switch a := action.(type) {
	case AddProduct:
		s.Products = append(s.Products, a.Product)
	case SelectProduct:
		selected := a.Product
		s.Selected = &selected
	case ClearSelectedProduct:
		s.Selected = nil
	default:
		return false
	}
	return true
}

func (s ProductState) clone() ProductState {
	out := ProductState{Products: cloneSlice(s.Products)}
	if s.Selected != nil {
		selected := *s.Selected
		out.Selected = &selected
	}
	return out
}
