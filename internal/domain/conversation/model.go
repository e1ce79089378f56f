package conversation

import (
	"fmt"
	"strings"
	"time"
)

// Status is a conversation's handling state, stored with the backend's
// Portuguese values.
type Status string

const (
	// StatusUnresolved is the initial state: the automated agent is handling.
	StatusUnresolved Status = "nao_resolvida"
	// StatusHumanRequested means the agent is paused and an operator owns the
	// conversation. Sending panel messages is only allowed in this state.
	StatusHumanRequested Status = "humano_solicitado"
	// StatusResolved marks the conversation closed. Re-openable.
	StatusResolved Status = "resolvida"
	// StatusUndefined covers absent or unrecognized backend values.
	StatusUndefined Status = "indefinida"
)

// ParseStatus maps a raw backend value onto the known states.
func ParseStatus(raw string) Status {
	switch Status(raw) {
	case StatusUnresolved, StatusHumanRequested, StatusResolved:
		return Status(raw)
	}
	return StatusUndefined
}

// Assignable reports whether s is a valid target for a status update.
func (s Status) Assignable() bool {
	switch s {
	case StatusUnresolved, StatusHumanRequested, StatusResolved:
		return true
	}
	return false
}

// Category is one of the four tab groupings of the conversation list.
type Category string

const (
	CategoryAll            Category = "all"
	CategoryUnresolved     Category = "unresolved"
	CategoryHumanRequested Category = "human_requested"
	CategoryResolved       Category = "resolved"
)

// ParseCategory validates a raw category value. Empty means all.
func ParseCategory(raw string) (Category, error) {
	if raw == "" {
		return CategoryAll, nil
	}
	switch Category(raw) {
	case CategoryAll, CategoryUnresolved, CategoryHumanRequested, CategoryResolved:
		return Category(raw), nil
	}
	return "", fmt.Errorf("unknown category %q", raw)
}

// StatusFilter returns the status a category filters on. The second return
// is false for CategoryAll, which applies no filter.
func (c Category) StatusFilter() (Status, bool) {
	switch c {
	case CategoryUnresolved:
		return StatusUnresolved, true
	case CategoryHumanRequested:
		return StatusHumanRequested, true
	case CategoryResolved:
		return StatusResolved, true
	}
	return "", false
}

// Display fallbacks applied once at fetch time.
const (
	DefaultCustomerName = "Cliente"
	DefaultChannel      = "whatsapp"
)

// Conversation is one cached chat thread, display fields already derived.
type Conversation struct {
	ID              string    `json:"id"`
	CustomerName    string    `json:"customer_name"`
	Status          Status    `json:"status"`
	Channel         string    `json:"channel"`
	LastInteraction time.Time `json:"last_interaction"`
	Preview         string    `json:"preview"`
	UnreadCount     int       `json:"unread_count"`
}

// Counts holds the per-category totals, always computed over the full set.
type Counts struct {
	All            int `json:"all"`
	Unresolved     int `json:"unresolved"`
	HumanRequested int `json:"human_requested"`
	Resolved       int `json:"resolved"`
}

// CountAll tallies every category over the unfiltered list.
func CountAll(list []Conversation) Counts {
	counts := Counts{All: len(list)}
	for _, c := range list {
		switch c.Status {
		case StatusUnresolved:
			counts.Unresolved++
		case StatusHumanRequested:
			counts.HumanRequested++
		case StatusResolved:
			counts.Resolved++
		}
	}
	return counts
}

// Filter returns the entries matching the category and search term, keeping
// the input order. Search is case-insensitive over customer name and ID;
// an empty term matches everything.
func Filter(list []Conversation, category Category, search string) []Conversation {
	status, filtered := category.StatusFilter()
	term := strings.ToLower(strings.TrimSpace(search))

	out := make([]Conversation, 0, len(list))
	for _, c := range list {
		if filtered && c.Status != status {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(c.CustomerName), term) &&
			!strings.Contains(strings.ToLower(c.ID), term) {
			continue
		}
		out = append(out, c)
	}
	return out
}
