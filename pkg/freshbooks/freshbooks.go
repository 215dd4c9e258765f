package freshbooks

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"timebridge/internal/utils"
	"timebridge/pkg/match"
	"timebridge/pkg/whttp"
)

const (
	DefaultBaseURL = "https://api.freshbooks.com"
	apiVersion     = "alpha"
	pageSize       = 100
)

// Client talks to the FreshBooks API with a bearer token scoped to one
// business. It implements sync.Submitter.
type Client struct {
	BaseURL    string
	Token      string
	BusinessID string
	HTTP       *retryablehttp.Client
}

func New(token, businessID string) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		Token:      token,
		BusinessID: businessID,
		HTTP:       whttp.GetDefaultClient(),
	}
}

func (c *Client) headers() []whttp.Header {
	return []whttp.Header{
		{Name: "Authorization", Value: "Bearer " + c.Token},
		{Name: "Api-Version", Value: apiVersion},
	}
}

// FetchClients pulls every client of the business, walking the paginated
// accounting endpoint until the reported page count is exhausted.
func (c *Client) FetchClients(ctx context.Context) ([]match.Record, error) {
	endpoint := c.BaseURL + "/accounting/account/" + c.BusinessID + "/users/clients"

	var records []match.Record
	for page := 1; ; page++ {
		url := fmt.Sprintf("%s?page=%d&per_page=%d", endpoint, page, pageSize)
		res, err := whttp.Send(ctx, &whttp.Request{Method: "GET", URL: url, Headers: c.headers()}, c.HTTP)
		if err != nil {
			return nil, err
		}
		if res.StatusCode != 200 {
			return nil, fmt.Errorf("clients fetch failed with status %d", res.StatusCode)
		}

		pageRecords, currentPage, totalPages, err := parseClientsPage(res.BodyString)
		if err != nil {
			return nil, err
		}
		records = append(records, pageRecords...)

		if currentPage >= totalPages {
			break
		}
	}

	utils.Log.Debugf("fetched %d clients", len(records))
	return records, nil
}

func parseClientsPage(body string) ([]match.Record, int, int, error) {
	result := gjson.Get(body, "response.result")
	if !result.Exists() || !result.Get("clients").Exists() {
		return nil, 0, 0, fmt.Errorf("unexpected clients response format")
	}

	var records []match.Record
	for _, cl := range result.Get("clients").Array() {
		records = append(records, match.Record{
			ID:           cl.Get("id").String(),
			FirstName:    cl.Get("fname").String(),
			LastName:     cl.Get("lname").String(),
			Organization: cl.Get("organization").String(),
			Raw:          cl.Raw,
		})
	}
	return records, int(result.Get("page").Int()), int(result.Get("pages").Int()), nil
}

// FetchServices pulls the business service catalog. Single request, the
// endpoint is not paginated.
func (c *Client) FetchServices(ctx context.Context) ([]match.Record, error) {
	url := c.BaseURL + "/comments/business/" + c.BusinessID + "/services"
	res, err := whttp.Send(ctx, &whttp.Request{Method: "GET", URL: url, Headers: c.headers()}, c.HTTP)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != 200 {
		return nil, fmt.Errorf("services fetch failed with status %d", res.StatusCode)
	}

	records, err := parseServices(res.BodyString)
	if err != nil {
		return nil, err
	}
	utils.Log.Debugf("fetched %d services", len(records))
	return records, nil
}

func parseServices(body string) ([]match.Record, error) {
	services := gjson.Get(body, "services")
	if !services.Exists() {
		return nil, fmt.Errorf("unexpected services response format")
	}

	var records []match.Record
	for _, svc := range services.Array() {
		rec := match.Record{
			ID:   svc.Get("id").String(),
			Name: svc.Get("name").String(),
			Raw:  svc.Raw,
		}
		if b := svc.Get("billable"); b.Exists() {
			billable := b.Bool()
			rec.Billable = &billable
		}
		records = append(records, rec)
	}
	return records, nil
}

// Identity resolves the id of the authenticated user. The primary source is
// /users/me; if that fails the accounting staff list and the timetracking
// team-member list are tried in turn.
func (c *Client) Identity(ctx context.Context) (string, error) {
	res, err := whttp.Send(ctx, &whttp.Request{
		Method:  "GET",
		URL:     c.BaseURL + "/auth/api/v1/users/me",
		Headers: c.headers(),
	}, c.HTTP)
	if err == nil && res.StatusCode == 200 {
		if id := gjson.Get(res.BodyString, "response.id"); id.Exists() {
			return id.String(), nil
		}
	}
	utils.Log.Debug("users/me lookup failed, trying fallback endpoints")

	if id, err := c.identityFromStaff(ctx); err == nil {
		return id, nil
	}
	return c.identityFromTeamMembers(ctx)
}

func (c *Client) identityFromStaff(ctx context.Context) (string, error) {
	url := c.BaseURL + "/accounting/account/" + c.BusinessID + "/users/staffs"
	res, err := whttp.Send(ctx, &whttp.Request{Method: "GET", URL: url, Headers: c.headers()}, c.HTTP)
	if err != nil {
		return "", err
	}
	if res.StatusCode != 200 {
		return "", fmt.Errorf("staff fetch failed with status %d", res.StatusCode)
	}
	id := gjson.Get(res.BodyString, "response.result.staff.0.id")
	if !id.Exists() {
		return "", fmt.Errorf("no staff entries in response")
	}
	return id.String(), nil
}

func (c *Client) identityFromTeamMembers(ctx context.Context) (string, error) {
	url := c.BaseURL + "/timetracking/business/" + c.BusinessID + "/team_members"
	res, err := whttp.Send(ctx, &whttp.Request{Method: "GET", URL: url, Headers: c.headers()}, c.HTTP)
	if err != nil {
		return "", err
	}
	if res.StatusCode != 200 {
		return "", fmt.Errorf("team members fetch failed with status %d", res.StatusCode)
	}
	id := gjson.Get(res.BodyString, "team_members.0.id")
	if !id.Exists() {
		return "", fmt.Errorf("no team members in response")
	}
	return id.String(), nil
}

// Submit posts one time_entry payload. Anything but 200/201 is a failure.
func (c *Client) Submit(ctx context.Context, payload string) (string, error) {
	url := c.BaseURL + "/timetracking/business/" + c.BusinessID + "/time_entries"
	res, err := whttp.Send(ctx, &whttp.Request{
		Method:  "POST",
		URL:     url,
		Body:    payload,
		Headers: c.headers(),
	}, c.HTTP)
	if err != nil {
		return "", err
	}
	if res.StatusCode != 200 && res.StatusCode != 201 {
		return "", fmt.Errorf("time entry rejected with status %s: %s", strconv.Itoa(res.StatusCode), res.BodyString)
	}
	return res.BodyString, nil
}
