// Package seed fetches an initial hackathon catalog from a remote JSON
// document store when one is configured. Any failure is a soft failure: the
// caller falls back to cached or locally generated data.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/linkedup/app/internal/models"
)

// FetchTimeout bounds the startup fetch so a dead endpoint cannot stall
// boot.
const FetchTimeout = 10 * time.Second

// document mirrors the loosely typed records the hosted store served; every
// field is optional.
type document struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Date      string             `json:"date"`
	Theme     string             `json:"theme"`
	Domain    string             `json:"domain"`
	Problem   string             `json:"problem"`
	Skills    models.FlexStrings `json:"skills"`
	CreatedAt string             `json:"createdAt"`
}

// FetchHackathons downloads and maps the catalog at url. Missing ids and
// names get positional defaults; a missing date falls back to the createdAt
// prefix, matching the hosted-path field mapping of the original client.
func FetchHackathons(ctx context.Context, client *http.Client, url string) ([]*models.Hackathon, error) {
	if client == nil {
		client = &http.Client{Timeout: FetchTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("seed fetch: unexpected status %s", resp.Status)
	}

	var docs []document
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, fmt.Errorf("seed fetch: decoding response: %w", err)
	}

	out := make([]*models.Hackathon, 0, len(docs))
	for i, d := range docs {
		out = append(out, mapDocument(d, i))
	}
	return out, nil
}

func mapDocument(d document, idx int) *models.Hackathon {
	h := &models.Hackathon{
		ID:        d.ID,
		Name:      d.Name,
		Date:      d.Date,
		Theme:     d.Theme,
		Domain:    d.Domain,
		Problem:   d.Problem,
		Skills:    d.Skills,
		CreatedAt: d.CreatedAt,
	}
	if h.ID == "" {
		h.ID = fmt.Sprintf("f%d", idx+1)
	}
	if h.Name == "" {
		h.Name = fmt.Sprintf("Hackathon %d", idx+1)
	}
	if h.Date == "" && len(d.CreatedAt) >= 10 {
		h.Date = d.CreatedAt[:10]
	}
	if h.CreatedAt == "" {
		h.CreatedAt = models.NowISO()
	}
	return h
}
