package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const listPageSize = 100

// RepoByFullName fetches a repository by owner and name
func (c *Client) RepoByFullName(ctx context.Context, owner, name string) (Repo, error) {
	path := fmt.Sprintf("/repos/%s/%s", owner, name)
	resp, err := c.Do(ctx, http.MethodGet, path)
	if err != nil {
		return Repo{}, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("path", path).Msg("github close body failed")
		}
	}()

	var out Repo
	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Repo{}, err
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return Repo{}, err
	}
	return out, nil
}

// ListPullRequests fetches every pull request for a repo, walking all pages.
// Fails whole on the first page error so callers never see a partial listing
func (c *Client) ListPullRequests(ctx context.Context, owner, name string) ([]PullRequest, error) {
	var all []PullRequest
	for page := 1; ; page++ {
		path := fmt.Sprintf("/repos/%s/%s/pulls?state=all&per_page=%d&page=%d", owner, name, listPageSize, page)
		resp, err := c.Do(ctx, http.MethodGet, path)
		if err != nil {
			return nil, err
		}

		var out []PullRequest
		b, rerr := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("path", path).Msg("github close body failed")
		}
		if rerr != nil {
			return nil, rerr
		}
		if err := json.Unmarshal(b, &out); err != nil {
			return nil, err
		}

		all = append(all, out...)
		if len(out) < listPageSize {
			return all, nil
		}
	}
}
