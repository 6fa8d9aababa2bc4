package github

import (
	"context"
	"log"
	"time"

	"github.com/ahmednasr/contexthub/internal/models"
)

// RateLimit reports the core API quota. It logs a warning below 20%.
func (c *Client) RateLimit(ctx context.Context) (models.RateLimitInfo, error) {
	var res struct {
		Rate struct {
			Limit     int   `json:"limit"`
			Used      int   `json:"used"`
			Remaining int   `json:"remaining"`
			Reset     int64 `json:"reset"`
		} `json:"rate"`
	}
	if err := c.get(ctx, c.baseURL+"/rate_limit", nil, &res); err != nil {
		return models.RateLimitInfo{}, err
	}

	info := models.RateLimitInfo{
		Limit:     res.Rate.Limit,
		Used:      res.Rate.Used,
		Remaining: res.Rate.Remaining,
		Reset:     time.Unix(res.Rate.Reset, 0).UTC(),
	}
	if info.Limit > 0 {
		info.Percentage = info.Remaining * 100 / info.Limit
	}

	if info.Limit > 0 && info.Percentage < 20 {
		log.Printf("[GitHub] low rate limit: %d/%d remaining, resets at %s", info.Remaining, info.Limit, info.Reset.Format(time.RFC3339))
		if !c.HasToken() {
			log.Printf("[GitHub] set GITHUB_TOKEN to raise the limit to 5000 requests/hour")
		}
	}
	return info, nil
}
