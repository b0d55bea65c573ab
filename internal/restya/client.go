package restya

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Client exposes the board service endpoints used by the viewer.
type Client struct {
	*BaseClient
}

// NewClient creates a Client for the session's site.
func NewClient(session Session, reporter Reporter, opts ...Option) *Client {
	return &Client{BaseClient: NewBaseClient(session, reporter, opts...)}
}

// envelope is the wrapper list endpoints put around their payload.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

func (c *Client) tokenQuery() url.Values {
	return url.Values{"token": {c.session.Token()}}
}

// withToken embeds the token into the endpoint URL, which is how POST and PUT calls carry it.
func (c *Client) withToken(endpoint string) string {
	return endpoint + "?token=" + url.QueryEscape(c.session.Token())
}

// getData issues a GET and decodes the "data" member of the body into T.
func getData[T any](ctx context.Context, c *Client, route, endpoint string, query url.Values, isEmpty func(T) bool) Result[T] {
	var zero T
	req, err := c.NewRequest(ctx, http.MethodGet, endpoint, query, nil)
	if err != nil {
		c.report(err.Error())
		return failed[T](err)
	}
	var env envelope
	found, err := c.DoRequest(req, route, &env)
	if err != nil {
		return failed[T](err)
	}
	if !found || len(env.Data) == 0 || string(env.Data) == "null" {
		return empty(zero)
	}
	var value T
	if err := json.Unmarshal(env.Data, &value); err != nil {
		c.report(fmt.Sprintf("HTTP error: 200 - unexpected %s payload: %v", route, err))
		return failed[T](err)
	}
	if isEmpty != nil && isEmpty(value) {
		return empty(value)
	}
	return ok(value)
}

// getList is getData for array payloads; an empty outcome still carries a non-nil slice.
func getList[T any](ctx context.Context, c *Client, route, endpoint string, query url.Values) Result[[]T] {
	res := getData(ctx, c, route, endpoint, query, func(v []T) bool { return len(v) == 0 })
	if res.Outcome == OutcomeEmpty && res.Value == nil {
		res.Value = []T{}
	}
	return res
}

// send issues a request and decodes the whole body into T.
func send[T any](ctx context.Context, c *Client, method, route, endpoint string, query url.Values, body any) Result[T] {
	var value T
	req, err := c.NewRequest(ctx, method, endpoint, query, body)
	if err != nil {
		c.report(err.Error())
		return failed[T](err)
	}
	found, err := c.DoRequest(req, route, &value)
	if err != nil {
		return failed[T](err)
	}
	if !found {
		return empty(value)
	}
	return ok(value)
}

func cardPath(boardID, listID, cardID ID) string {
	return fmt.Sprintf("/api/v1/boards/%s/lists/%s/cards/%s", boardID, listID, cardID)
}

// Boards lists all boards, or only starred ones.
func (c *Client) Boards(ctx context.Context, starred bool) Result[[]Board] {
	filter := "all"
	if starred {
		filter = "starred"
	}
	q := c.tokenQuery()
	q.Set("filter", filter)
	q.Set("type", "simple")
	return getList[Board](ctx, c, "boards", "/api/v1/boards.json", q)
}

// Board fetches one board including its users.
func (c *Client) Board(ctx context.Context, boardID ID) Result[Board] {
	return send[Board](ctx, c, http.MethodGet, "board", fmt.Sprintf("/api/v1/boards/%s.json", boardID), c.tokenQuery(), nil)
}

// Lists fetches the lists of a board.
func (c *Client) Lists(ctx context.Context, boardID ID) Result[[]List] {
	return getList[List](ctx, c, "lists", fmt.Sprintf("/api/v1/boards/%s/lists.json", boardID), c.tokenQuery())
}

// List fetches one list.
func (c *Client) List(ctx context.Context, listID ID) Result[List] {
	return getData[List](ctx, c, "list", fmt.Sprintf("/api/v1/lists/%s", listID), c.tokenQuery(), nil)
}

// Cards fetches the cards of a list.
func (c *Client) Cards(ctx context.Context, boardID, listID ID) Result[[]Card] {
	return getList[Card](ctx, c, "cards", fmt.Sprintf("/api/v1/boards/%s/lists/%s/cards.json", boardID, listID), c.tokenQuery())
}

// Card fetches one card with members, labels and checklists.
func (c *Client) Card(ctx context.Context, boardID, listID, cardID ID) Result[Card] {
	return send[Card](ctx, c, http.MethodGet, "card", cardPath(boardID, listID, cardID)+".json", c.tokenQuery(), nil)
}

// Comments fetches the comment activities of a card.
func (c *Client) Comments(ctx context.Context, boardID, listID, cardID ID) Result[[]Comment] {
	q := c.tokenQuery()
	q.Set("view", "modal_card")
	q.Set("mode", "comment")
	return getList[Comment](ctx, c, "comments", cardPath(boardID, listID, cardID)+"/activities.json", q)
}

// Me fetches the authenticated user.
func (c *Client) Me(ctx context.Context) Result[Me] {
	return send[Me](ctx, c, http.MethodGet, "me", "/api/v1/users/me.json", c.tokenQuery(), nil)
}

// CreateCard adds a card named name to a list.
func (c *Client) CreateCard(ctx context.Context, boardID, listID ID, name string) Result[CardActivity] {
	endpoint := c.withToken(fmt.Sprintf("/api/v1/boards/%s/lists/%s/cards.json", boardID, listID))
	body := NewCard{ListID: listID, BoardID: boardID, Name: name, IsOffline: true}
	return send[CardActivity](ctx, c, http.MethodPost, "card_create", endpoint, nil, body)
}

// UpdateCard applies a partial update (title, description, move, archive).
func (c *Client) UpdateCard(ctx context.Context, boardID, listID, cardID ID, update CardUpdate) Result[CardActivity] {
	endpoint := c.withToken(cardPath(boardID, listID, cardID) + ".json")
	return send[CardActivity](ctx, c, http.MethodPut, "card_update", endpoint, nil, update)
}

// AddComment posts a comment as userID.
func (c *Client) AddComment(ctx context.Context, boardID, listID, cardID, userID ID, text string) Result[CardActivity] {
	endpoint := c.withToken(cardPath(boardID, listID, cardID) + "/comments.json")
	body := NewComment{BoardID: boardID, ListID: listID, CardID: cardID, UserID: userID, Comment: text, IsOffline: true}
	return send[CardActivity](ctx, c, http.MethodPost, "comment_create", endpoint, nil, body)
}

// AddCardUser assigns userID to a card.
func (c *Client) AddCardUser(ctx context.Context, boardID, listID, cardID, userID ID) Result[CardActivity] {
	endpoint := c.withToken(fmt.Sprintf("%s/users/%s.json", cardPath(boardID, listID, cardID), userID))
	return send[CardActivity](ctx, c, http.MethodPost, "card_user_add", endpoint, nil, CardUserLink{CardID: cardID, UserID: userID})
}

// RemoveCardUser deletes a card assignment by its assignment id (Member.ID).
func (c *Client) RemoveCardUser(ctx context.Context, boardID, listID, cardID, assignmentID ID) Result[CardActivity] {
	endpoint := fmt.Sprintf("%s/cards_users/%s.json", cardPath(boardID, listID, cardID), assignmentID)
	return send[CardActivity](ctx, c, http.MethodDelete, "card_user_remove", endpoint, c.tokenQuery(), nil)
}
