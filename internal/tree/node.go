// Package tree is the lazily populated board, list and card hierarchy behind
// the tree view. Children are fetched on first expansion and stay cached until
// a full refresh discards everything.
package tree

import (
	"git.home.luguber.info/inful/restyaboard/internal/restya"
)

// NodeType is the hierarchy level of a node.
type NodeType string

const (
	TypeBoard NodeType = "board"
	TypeList  NodeType = "list"
	TypeCard  NodeType = "card"
)

// CollapseState mirrors tree-item expandability.
type CollapseState int

const (
	CollapseNone CollapseState = iota
	CollapseCollapsed
	CollapseExpanded
)

// ShowCardCommand is the command a card node runs when selected.
const ShowCardCommand = "showCard"

// Command is the action attached to a selectable node.
type Command struct {
	Name  string
	Title string
	Card  restya.Card
}

// Node is one displayable tree item.
type Node struct {
	Label    string
	ID       restya.ID
	Type     NodeType
	BoardID  restya.ID
	ListID   restya.ID
	Tooltip  string
	Collapse CollapseState
	Command  *Command
}

// PrependToLabel returns label unchanged for an empty prefix, otherwise "{prefix}-{label}".
func PrependToLabel(label, prefix string) string {
	if prefix == "" {
		return label
	}
	return prefix + "-" + label
}

func boardNode(b restya.Board) Node {
	return Node{
		Label:    PrependToLabel(b.Name, ""),
		ID:       b.ID,
		Type:     TypeBoard,
		Tooltip:  "id: " + b.ID.String(),
		Collapse: CollapseCollapsed,
	}
}

func listNode(l restya.List, boardID restya.ID) Node {
	return Node{
		Label:    PrependToLabel(l.Name, ""),
		ID:       l.ID,
		Type:     TypeList,
		BoardID:  boardID,
		Tooltip:  "id: " + l.ID.String(),
		Collapse: CollapseCollapsed,
	}
}

func cardNode(c restya.Card, boardID, listID restya.ID) Node {
	return Node{
		Label:    PrependToLabel(c.Name, ""),
		ID:       c.ID,
		Type:     TypeCard,
		BoardID:  boardID,
		ListID:   listID,
		Tooltip:  "id: " + c.ID.String(),
		Collapse: CollapseNone,
		Command:  &Command{Name: ShowCardCommand, Title: "Show Restyaboard Card", Card: c},
	}
}
