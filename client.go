package scoreit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/scoreit/scoreit/errors"
)

// Client talks to the scoring service's HTTP API.
type Client struct {
	client  http.Client
	baseURL string
}

func NewHTTPClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
	}
}

// APIError is a response the client has no sentinel error for.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("scoreit: %d %s", e.Status, e.Message)
}

type gameState struct {
	OK    bool   `json:"ok"`
	State string `json:"state"`
	Board Board  `json:"board,omitempty"`
}

func (c *Client) State(ctx context.Context) (GameState, error) {
	var rsp gameState
	if err := c.do(ctx, http.MethodGet, "/game", nil, &rsp); err != nil {
		return StateUnknown, err
	}
	return ParseGameState(rsp.State)
}

func (c *Client) Start(ctx context.Context) (bool, error) {
	ok, _, err := c.changeState(ctx, "start")
	return ok, err
}

func (c *Client) Stop(ctx context.Context) (bool, error) {
	ok, _, err := c.changeState(ctx, "stop")
	return ok, err
}

// End returns the final standings when the game ended.
func (c *Client) End(ctx context.Context) (Board, bool, error) {
	ok, board, err := c.changeState(ctx, "end")
	return board, ok, err
}

func (c *Client) Reset(ctx context.Context) error {
	_, _, err := c.changeState(ctx, "reset")
	return err
}

func (c *Client) changeState(ctx context.Context, op string) (bool, Board, error) {
	var rsp gameState
	err := c.do(ctx, http.MethodPost, "/game/"+op, nil, &rsp)
	if apiErr, isAPI := err.(*APIError); isAPI && apiErr.Status == http.StatusConflict {
		return false, nil, nil
	}
	if err != nil {
		return false, nil, err
	}
	return rsp.OK, rsp.Board, nil
}

func (c *Client) Join(ctx context.Context, id, name string) (PlayerScore, error) {
	body := struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}{id, name}

	var p PlayerScore
	err := c.do(ctx, http.MethodPost, "/players", body, &p)
	return p, err
}

func (c *Client) Player(ctx context.Context, id string) (PlayerScore, error) {
	var p PlayerScore
	err := c.do(ctx, http.MethodGet, "/players/"+url.PathEscape(id), nil, &p)
	return p, err
}

func (c *Client) Remove(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/players/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Deposit(ctx context.Context, d Deposit) (DepositResult, error) {
	var res DepositResult
	err := c.do(ctx, http.MethodPost, "/deposits", d, &res)
	return res, err
}

func (c *Client) Scores(ctx context.Context, limit uint, pivot string) (Board, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.FormatUint(uint64(limit), 10))
	}
	if pivot != "" {
		q.Set("pivot", pivot)
	}

	path := "/scores"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var board Board
	err := c.do(ctx, http.MethodGet, path, nil, &board)
	return board, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rsp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer rsp.Body.Close()

	if rsp.StatusCode >= http.StatusBadRequest {
		return responseError(rsp)
	}

	if out == nil || rsp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(rsp.Body).Decode(out)
}

func responseError(rsp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(rsp.Body).Decode(&body)

	switch {
	case rsp.StatusCode == http.StatusNotFound && body.Error == "no such player":
		return errors.ErrNotFound
	case body.Error == errors.ErrGamePaused.Error():
		return errors.ErrGamePaused
	case body.Error == errors.ErrGameNotStarted.Error():
		return errors.ErrGameNotStarted
	case rsp.StatusCode == http.StatusUnprocessableEntity, rsp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", errors.ErrInvalidArgument, body.Error)
	}

	msg := body.Error
	if msg == "" {
		msg = http.StatusText(rsp.StatusCode)
	}
	return &APIError{Status: rsp.StatusCode, Message: msg}
}
