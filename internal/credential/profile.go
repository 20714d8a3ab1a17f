package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

var ErrProfileNotFound = errors.New("credly profile not found")

type profileJSON struct {
	Data []badgeJSON `json:"data"`
}

// ListProfileBadges fetches every public badge on a Credly profile. Badges
// whose template name is missing are skipped rather than failing the import.
func (v *Verifier) ListProfileBadges(ctx context.Context, handle string) ([]BadgeDetails, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, ErrProfileNotFound
	}

	endpoint := fmt.Sprintf("%s/users/%s/badges.json", v.baseURL, url.PathEscape(handle))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "resume-sync")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProfileNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile endpoint: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}

	var pj profileJSON
	if err := json.Unmarshal(body, &pj); err != nil {
		return nil, err
	}

	out := make([]BadgeDetails, 0, len(pj.Data))
	for _, bj := range pj.Data {
		if bj.BadgeTemplate.Name == "" || bj.ID == "" {
			continue
		}
		d := BadgeDetails{
			BadgeID:  bj.ID,
			Title:    bj.BadgeTemplate.Name,
			URL:      v.badgePageURL(bj.ID),
			IssuedAt: parseIssuedAt(bj.IssuedAt),
		}
		if len(bj.Issuer.Entities) > 0 {
			d.Issuer = bj.Issuer.Entities[0].Entity.Name
		}
		out = append(out, d)
	}
	return out, nil
}
