package poller

import (
	"context"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/usopen-scoreboard/internal/domain/match"
	"github.com/valyala/fasthttp"
)

const defaultClientTimeout = 10 * time.Second

var ErrBoardUnavailable = errors.New("board unavailable")

type ClientConfig struct {
	HTTPClient *fasthttp.Client
	BaseURL    string
	Timeout    time.Duration
}

// Client reads boards from a running scoreboard API.
type Client struct {
	httpClient *fasthttp.Client
	baseURL    string
	timeout    time.Duration
}

func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{Name: "usopen-livewatch"}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		timeout:    timeout,
	}
}

func (c *Client) FetchBoard(ctx context.Context, gender match.Gender, date string) (Board, error) {
	if err := ctx.Err(); err != nil {
		return Board{}, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + "/api/usopen/" + url.PathEscape(string(gender)) + "/" + url.PathEscape(date))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if err := c.httpClient.DoTimeout(req, resp, timeout); err != nil {
		return Board{}, errors.Wrap(err, "request board")
	}

	body := append([]byte(nil), resp.Body()...)
	if status := resp.StatusCode(); status < 200 || status > 299 {
		var failure struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = sonic.Unmarshal(body, &failure)
		msg := failure.Error
		if failure.Message != "" {
			msg += ": " + failure.Message
		}
		return Board{}, errors.Wrapf(ErrBoardUnavailable, "status=%d %s", status, msg)
	}

	var board Board
	if err := sonic.Unmarshal(body, &board); err != nil {
		return Board{}, errors.Wrap(err, "decode board")
	}
	return board, nil
}
