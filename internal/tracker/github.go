package tracker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// IssueMarker is the fixed substring identifying outage issues owned by this
// monitor. Matching is case-sensitive against issue titles.
const IssueMarker = "Outage Report"

// Issue is the slice of a tracker issue the reconciler reads. Number is the
// human-facing issue number used in comment URLs, not the opaque issue id.
type Issue struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	State  string `json:"state"`
}

// IssueAPI is the tracker surface reconciliation needs. *Client implements it
// against the GitHub REST API; tests supply fakes.
type IssueAPI interface {
	ListOpenIssues() ([]Issue, error)
	CreateIssue(title, body string) (Issue, error)
	CreateComment(number int, body string) error
}

// Client talks to the GitHub issues API for a single repository.
type Client struct {
	// BaseURL of the API, without trailing slash. Defaults to the public
	// GitHub endpoint; overridden in tests.
	BaseURL string

	client *http.Client
	owner  string
	repo   string
	token  string
}

func NewClient(owner, repo, token string) *Client {
	return &Client{
		BaseURL: "https://api.github.com",
		client:  &http.Client{Timeout: 10 * time.Second},
		owner:   owner,
		repo:    repo,
		token:   token,
	}
}

// ListOpenIssues returns the repository's open issues, first page, 100 per
// page. One page is enough here: there should only ever be a handful of open
// issues on an infra repo, and the reconciler only needs the first match.
func (c *Client) ListOpenIssues() ([]Issue, error) {
	path := fmt.Sprintf("/repos/%s/%s/issues?state=open&per_page=100", c.owner, c.repo)

	var issues []Issue
	if err := c.do(http.MethodGet, path, nil, &issues, http.StatusOK); err != nil {
		return nil, fmt.Errorf("listing issues: %w", err)
	}
	return issues, nil
}

func (c *Client) CreateIssue(title, body string) (Issue, error) {
	path := fmt.Sprintf("/repos/%s/%s/issues", c.owner, c.repo)
	payload := map[string]string{
		"title": title,
		"body":  body,
	}

	var issue Issue
	if err := c.do(http.MethodPost, path, payload, &issue, http.StatusCreated); err != nil {
		return Issue{}, fmt.Errorf("creating issue: %w", err)
	}
	return issue, nil
}

func (c *Client) CreateComment(number int, body string) error {
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/comments", c.owner, c.repo, number)
	payload := map[string]string{
		"body": body,
	}

	if err := c.do(http.MethodPost, path, payload, nil, http.StatusCreated); err != nil {
		return fmt.Errorf("creating comment on #%d: %w", number, err)
	}
	return nil
}

func (c *Client) do(method, path string, payload, out any, wantStatus int) error {
	var reqBody *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return fmt.Errorf("GitHub API returned status %d for %s %s", resp.StatusCode, method, path)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
