package store

import "strings"

type UserState struct {
	Users      []User `json:"users"`
	Filtered   []User `json:"filtered_users"`
	Selected   *User  `json:"selected_user"`
	SearchTerm string `json:"search_term"`
}

func (s *UserState) reduce(action Action) bool {
	switch a := action.(type) {
	case SetUsers:
		s.Users = cloneUsers(a.Users)
		s.resetFilter()
	case AddUser:
		s.Users = append(s.Users, a.User.clone())
		s.resetFilter()
	case UpdateUser:
		for i := range s.Users {
			if s.Users[i].ID == a.User.ID {
				s.Users[i] = a.User.clone()
				s.resetFilter()
				break
			}
		}
		if s.Selected != nil && s.Selected.ID == a.User.ID {
			selected := a.User.clone()
			s.Selected = &selected
		}
	case DeleteUser:
		kept := make([]User, 0, len(s.Users))
		for _, u := range s.Users {
			if u.ID != a.ID {
				kept = append(kept, u)
			}
		}
		s.Users = kept
		s.resetFilter()
		if s.Selected != nil && s.Selected.ID == a.ID {
			s.Selected = nil
		}
	case SetSelectedUser:
		if a.User == nil {
			s.Selected = nil
			break
		}
		selected := a.User.clone()
		s.Selected = &selected
	case FilterUsers:
		s.SearchTerm = a.Term
		s.Filtered = filterUsers(s.Users, a.Term)
	default:
		return false
	}
	return true
}

// resetFilter makes the filtered view a full copy again. Mutations clear the search.
func (s *UserState) resetFilter() {
	s.SearchTerm = ""
	s.Filtered = cloneUsers(s.Users)
}

// filterUsers keeps users whose name, email or employee code contains term, ignoring case.
func filterUsers(users []User, term string) []User {
	needle := strings.ToLower(term)
	out := make([]User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Name), needle) ||
			strings.Contains(strings.ToLower(u.Email), needle) ||
			strings.Contains(strings.ToLower(u.EmployeeCode), needle) {
			out = append(out, u.clone())
		}
	}
	return out
}

func (s UserState) clone() UserState {
	out := UserState{
		Users:      cloneUsers(s.Users),
		Filtered:   cloneUsers(s.Filtered),
		SearchTerm: s.SearchTerm,
	}
	if s.Selected != nil {
		selected := s.Selected.clone()
		out.Selected = &selected
	}
	return out
}

func (u User) clone() User {
	out := u
	if u.LastLogin != nil {
		last := *u.LastLogin
		out.LastLogin = &last
	}
	return out
}

func cloneUsers(users []User) []User {
	out := make([]User, len(users))
	for i := range users {
		out[i] = users[i].clone()
	}
	return out
}
