// Package render turns a card and its comments into the markdown preview
// document, and that document into HTML.
package render

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/restyaboard/internal/restya"
)

const (
	dateLayout = "02 Jan 2006"
	timeLayout = "03:04 pm"
)

// createdLayouts are the timestamp shapes the service uses for activities.
// Timestamps without an offset are local time.
var createdLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000Z",
	"2006-01-02",
}

// coverFormat is the cover image appended after the last section.
const coverFormat = `<img src="%s" alt="Image not found" />`

var upper = cases.Upper(language.Und)

// Members joins member initials with ", ".
func Members(members []restya.Member) string {
	parts := make([]string, 0, len(members))
	for _, m := range members {
		initials := m.Initials
		if initials == "" {
			initials = InitialsFromName(m.FullName)
		}
		parts = append(parts, initials)
	}
	return strings.Join(parts, ", ")
}

// InitialsFromName builds upper-cased initials from the first letters of each word.
func InitialsFromName(fullName string) string {
	var b strings.Builder
	for _, word := range strings.Fields(fullName) {
		r := []rune(word)
		b.WriteRune(r[0])
	}
	return upper.String(b.String())
}

// Labels joins label names with ", ".
func Labels(labels []restya.Label) string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.Name)
	}
	return strings.Join(names, ", ")
}

// Checklists renders each checklist as a quoted name followed by its items in position order.
func Checklists(checklists []restya.Checklist) string {
	var b strings.Builder
	for _, cl := range checklists {
		fmt.Fprintf(&b, "\n> %s\n\n", cl.Name)

		items := append([]restya.ChecklistItem(nil), cl.Items...)
		sort.SliceStable(items, func(i, j int) bool { return items[i].Position < items[j].Position })
		for _, item := range items {
			if item.Completed() {
				fmt.Fprintf(&b, "✅ ~~%s~~  \n", item.Name)
			} else {
				fmt.Fprintf(&b, "🔳 %s  \n", item.Name)
			}
		}
	}
	return b.String()
}

// Comments renders comment activities, nesting replies by depth.
func Comments(comments []restya.Comment) string {
	var b strings.Builder
	for _, c := range comments {
		depth := int(c.Depth)
		if depth < 0 {
			depth = 0
		}
		edited := ""
		if c.Edited() {
			edited = " (edited)"
		}
		fmt.Fprintf(&b, "\n%s %s - %s%s \n", strings.Repeat(">", depth+1), c.FullName, formatCreated(c.Created), edited)
		fmt.Fprintf(&b, "\n\n%s\n\n", c.Comment)
	}
	return b.String()
}

func formatCreated(raw string) string {
	for _, layout := range createdLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			t = t.Local()
			return t.Format(dateLayout) + " at " + t.Format(timeLayout)
		}
	}
	return raw
}

// Decorated renders one document section. Empty content renders nothing.
func Decorated(header, content string) string {
	if content == "" {
		return ""
	}
	return fmt.Sprintf("## **`%s`** \n%s\n\n--- \n", header, content)
}

// CardURL is the web link to a card on siteURL.
func CardURL(siteURL string, boardID, cardID restya.ID) string {
	return fmt.Sprintf("%s/#/board/%s/card/%s", strings.TrimRight(siteURL, "/"), boardID, cardID)
}

type section struct {
	header  string
	content string
}

// Document assembles the preview markdown for card. siteURL is used to derive
// the card link when the service did not send one.
func Document(card restya.Card, comments []restya.Comment, siteURL string) string {
	url := card.URL
	if url == "" && siteURL != "" && card.ID != "" {
		url = CardURL(siteURL, card.BoardID, card.ID)
	}

	sections := []section{
		{"URL", url},
		{"Title", card.Name},
		{"Board Name", card.BoardName},
		{"List Name", card.ListName},
		{"Members", Members(card.Members)},
		{"Labels", Labels(card.Labels)},
		{"Description", card.Description},
		{"Checklists", Checklists(card.Checklists)},
		{"Comments", Comments(comments)},
	}
	if card.DueDate != "" {
		sections = append(sections, section{"Due Date", card.DueDate})
	}

	var b strings.Builder
	for _, s := range sections {
		b.WriteString(Decorated(s.header, s.content))
	}
	if len(card.Attachments) > 0 && card.Attachments[0].URL != "" {
		fmt.Fprintf(&b, coverFormat, card.Attachments[0].URL)
	}
	return b.String()
}
