package user

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Backend user types. Platform operators authenticate against the panel,
// WhatsApp users are the customers the automation talks to.
const (
	TypePlatform = "humano"
	TypeWhatsApp = "usuario"
)

// Platform roles.
const (
	RoleAdmin    = "adm"
	RoleInternal = "interno"
	RoleUser     = "user"
)

// User is a row of the usuarios table.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"nome"`
	Phone     string     `json:"telefone"`
	Email     string     `json:"email"`
	Type      string     `json:"tipo"`
	Role      string     `json:"role"`
	Active    bool       `json:"ativo"`
	DeletedAt *time.Time `json:"data_exclusao"`
	AuthID    string     `json:"id_auth"`
	CreatedAt time.Time  `json:"criado_em"`
}

// Sortable columns for the user listing.
const (
	SortByName    = "nome"
	SortByPhone   = "telefone"
	SortByCreated = "criado_em"
	SortByActive  = "ativo"
)

// ParseSort validates a sort column. Empty defaults to creation time.
func ParseSort(raw string) (string, error) {
	if raw == "" {
		return SortByCreated, nil
	}
	switch raw {
	case SortByName, SortByPhone, SortByCreated, SortByActive:
		return raw, nil
	}
	return "", fmt.Errorf("unknown sort column %q", raw)
}

// Sort orders users by the given column. Empty values sort last regardless
// of direction; active sorts true-first when ascending. Name is the final
// tiebreak.
func Sort(users []User, column string, descending bool) {
	sort.SliceStable(users, func(i, j int) bool {
		a, b := users[i], users[j]

		aEmpty, bEmpty := empty(a, column), empty(b, column)
		if aEmpty != bEmpty {
			return bEmpty
		}

		less, equal := compare(a, b, column)
		if !equal {
			if descending {
				return !less
			}
			return less
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}

func empty(u User, column string) bool {
	switch column {
	case SortByName:
		return u.Name == ""
	case SortByPhone:
		return u.Phone == ""
	case SortByActive:
		return false
	default:
		return u.CreatedAt.IsZero()
	}
}

func compare(a, b User, column string) (less, equal bool) {
	switch column {
	case SortByName:
		return compareStrings(a.Name, b.Name)
	case SortByPhone:
		return compareStrings(a.Phone, b.Phone)
	case SortByActive:
		if a.Active == b.Active {
			return false, true
		}
		return a.Active, false
	default:
		if a.CreatedAt.Equal(b.CreatedAt) {
			return false, true
		}
		return a.CreatedAt.Before(b.CreatedAt), false
	}
}

func compareStrings(a, b string) (less, equal bool) {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return false, true
	}
	return a < b, false
}

// Filter returns the users whose name, phone or email contains term,
// case-insensitively. An empty term matches everything.
func Filter(users []User, term string) []User {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return users
	}
	out := make([]User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Name), term) ||
			strings.Contains(u.Phone, term) ||
			strings.Contains(strings.ToLower(u.Email), term) {
			out = append(out, u)
		}
	}
	return out
}
