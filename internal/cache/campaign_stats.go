package cache

import (
	"context"
	"fmt"
	"time"
)

const defaultStatsTTL = 30 * time.Second

var statsTTL = defaultStatsTTL

// SetStatsTTL overrides the campaign stats lifetime; non-positive restores the default.
func SetStatsTTL(ttl time.Duration) {
	if ttl <= 0 {
		ttl = defaultStatsTTL
	}
	statsTTL = ttl
}

func campaignStatsKey(campaignID uint) string {
	return fmt.Sprintf("stats:campaign:%d", campaignID)
}

// GetCampaignStats reads cached stats into dest.
func GetCampaignStats(ctx context.Context, campaignID uint, dest interface{}) (bool, error) {
	if campaignID == 0 {
		return false, nil
	}
	return GetJSON(ctx, campaignStatsKey(campaignID), dest)
}

// SetCampaignStats caches stats for the configured TTL.
func SetCampaignStats(ctx context.Context, campaignID uint, stats interface{}) error {
	if campaignID == 0 {
		return nil
	}
	return SetJSON(ctx, campaignStatsKey(campaignID), stats, statsTTL)
}

// InvalidateCampaignStats drops cached stats of the given campaigns.
func InvalidateCampaignStats(ctx context.Context, campaignIDs ...uint) error {
	keys := make([]string, 0, len(campaignIDs))
	for _, id := range campaignIDs {
		if id != 0 {
			keys = append(keys, campaignStatsKey(id))
		}
	}
	return Del(ctx, keys...)
}
