package restya

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ID is an identifier the service sends either as a JSON number or a string.
type ID string

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	*id = ID(data)
	return nil
}

func (id ID) String() string { return string(id) }

// Number is a numeric field that may arrive quoted.
type Number float64

// UnmarshalJSON accepts numbers, numeric strings, empty strings and null.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*n = 0
			return nil
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Board is a top-level board. BoardsUsers is only populated by the single-board endpoint.
type Board struct {
	ID          ID          `json:"id"`
	Name        string      `json:"name"`
	BoardsUsers []BoardUser `json:"boards_users,omitempty"`
}

// BoardUser is a member of a board.
type BoardUser struct {
	ID       ID     `json:"id"`
	UserID   ID     `json:"user_id"`
	FullName string `json:"full_name"`
	Initials string `json:"initials"`
}

// List is a column on a board.
type List struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	BoardID ID     `json:"board_id"`
}

// Card is a card together with the sub-structures the preview renders.
type Card struct {
	ID          ID           `json:"id"`
	Name        string       `json:"name"`
	BoardID     ID           `json:"board_id"`
	ListID      ID           `json:"list_id"`
	Description string       `json:"description"`
	Position    Number       `json:"position"`
	DueDate     string       `json:"due_date"`
	BoardName   string       `json:"board_name"`
	ListName    string       `json:"list_name"`
	URL         string       `json:"url"`
	Members     []Member     `json:"cards_users"`
	Labels      []Label      `json:"cards_labels"`
	Checklists  []Checklist  `json:"cards_checklists"`
	Attachments []Attachment `json:"attachments"`
}

// Member is a user assigned to a card. ID is the assignment id used for removal.
type Member struct {
	ID       ID     `json:"id"`
	UserID   ID     `json:"user_id"`
	Initials string `json:"initials"`
	FullName string `json:"full_name"`
}

// Label is a card label.
type Label struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Checklist groups checklist items on a card.
type Checklist struct {
	ID    ID              `json:"id"`
	Name  string          `json:"name"`
	Items []ChecklistItem `json:"checklists_items"`
}

// ChecklistItem is one entry of a checklist.
type ChecklistItem struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	IsCompleted ID     `json:"is_completed"`
	Position    Number `json:"position"`
}

// Completed reports whether the item is ticked ("1", or a boolean true).
func (i ChecklistItem) Completed() bool {
	return i.IsCompleted == "1" || i.IsCompleted == "true"
}

// Attachment is a file attached to a card.
type Attachment struct {
	URL string `json:"url"`
}

// Comment is a comment activity on a card.
type Comment struct {
	ID        ID              `json:"id"`
	Comment   string          `json:"comment"`
	FullName  string          `json:"full_name"`
	Created   string          `json:"created"`
	Depth     Number          `json:"depth"`
	Revisions json.RawMessage `json:"revisions"`
}

// Edited reports whether the comment carries a revision history.
func (c Comment) Edited() bool {
	switch strings.TrimSpace(string(c.Revisions)) {
	case "", "null", `""`, "0", "false":
		return false
	}
	return true
}

// User is a user profile.
type User struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Initials string `json:"initials"`
}

// Me is the response of users/me.json.
type Me struct {
	ID   ID   `json:"id"`
	User User `json:"user"`
}

// UserID returns the current user's id, preferring the top-level field.
func (m Me) UserID() ID {
	if m.ID != "" {
		return m.ID
	}
	return m.User.ID
}

// CardActivity is the body the service returns for card mutations.
type CardActivity struct {
	Status   string `json:"status"`
	Activity struct {
		CardID      ID     `json:"card_id"`
		CardName    string `json:"card_name"`
		Description string `json:"description"`
	} `json:"activity"`
}

// NewCard is the body for creating a card.
type NewCard struct {
	ListID    ID     `json:"list_id"`
	BoardID   ID     `json:"board_id"`
	Name      string `json:"name"`
	IsOffline bool   `json:"is_offline"`
}

// CardUpdate is the body for PUT card; only set fields are sent.
type CardUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	ListID      ID      `json:"list_id,omitempty"`
	BoardID     ID      `json:"board_id,omitempty"`
	Position    *Number `json:"position,omitempty"`
	IsArchived  int     `json:"is_archived,omitempty"`
}

// NewComment is the body for posting a comment.
type NewComment struct {
	BoardID   ID     `json:"board_id"`
	ListID    ID     `json:"list_id"`
	CardID    ID     `json:"card_id"`
	UserID    ID     `json:"user_id"`
	Comment   string `json:"comment"`
	IsOffline bool   `json:"is_offline"`
}

// CardUserLink is the body for assigning a user to a card.
type CardUserLink struct {
	CardID ID `json:"card_id"`
	UserID ID `json:"user_id"`
}
