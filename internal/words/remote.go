package words

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/robalobadob/wordle-live/internal/game"
)

// Remote fetches definitions from an HTTP dictionary service.
// GET {baseURL}/{word} → {"meanings":[...],"examples":[...]}; 404 means unknown.
type Remote struct {
	baseURL string
	client  *fasthttp.Client
}

func NewRemote(baseURL string) *Remote {
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         5 * time.Second,
			WriteTimeout:        5 * time.Second,
			MaxIdleConnDuration: time.Minute,
		},
	}
}

type definitionResponse struct {
	Word     string   `json:"word"`
	Meanings []string `json:"meanings"`
	Examples []string `json:"examples"`
}

func (r *Remote) Lookup(ctx context.Context, word string) (game.Definition, bool, error) {
	endpoint := r.baseURL + "/" + url.PathEscape(strings.ToLower(word))
	res, status, err := doRequest[definitionResponse](ctx, r.client, endpoint)
	if err != nil {
		return game.Definition{}, false, err
	}
	if status == fasthttp.StatusNotFound || res == nil || len(res.Meanings) == 0 {
		return game.Definition{}, false, nil
	}
	return game.Definition{Meanings: res.Meanings, Examples: res.Examples}, true, nil
}

func doRequest[T any](ctx context.Context, client *fasthttp.Client, endpoint string) (*T, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(endpoint)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	if deadline, ok := ctx.Deadline(); ok {
		if err := client.DoDeadline(req, resp, deadline); err != nil {
			return nil, 0, err
		}
	} else {
		if err := client.Do(req, resp); err != nil {
			return nil, 0, err
		}
	}

	status := resp.StatusCode()
	if status == fasthttp.StatusNotFound {
		return nil, status, nil
	}
	if status != fasthttp.StatusOK {
		return nil, status, fmt.Errorf("dictionary API error: %d", status)
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, status, fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return &result, status, nil
}
