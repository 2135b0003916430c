package homeassistant

import (
	"context"
	"math"
	"strconv"
	"time"
)

// minimalHistoryAttributes is the attribute whitelist kept per record in
// minimal mode.
var minimalHistoryAttributes = []string{"unit_of_measurement", "friendly_name", "device_class"}

const (
	historyMaxPoints        = 1000
	historyMaxPointsMinimal = 100
)

type rawHistoryRecord struct {
	State       string         `json:"state"`
	LastChanged string         `json:"last_changed"`
	Attributes  map[string]any `json:"attributes"`
}

// GetEntityHistory returns the sampled state history of one entity over the
// last `hours` hours, with numeric summary statistics where applicable. The
// entity is validated to exist before the history fetch.
func (c *Client) GetEntityHistory(ctx context.Context, entityID string, hours int, minimal bool) (*HistoryResult, error) {
	if hours <= 0 {
		hours = 24
	}

	key := CacheKey("get_entity_history", entityID, hours, minimal)
	if v, ok := c.entityCache.Get(key); ok {
		return v.(*HistoryResult), nil
	}

	current, err := c.GetEntityState(ctx, entityID, nil, false)
	if err != nil {
		return nil, err
	}

	end := time.Now().UTC()
	start := end.Add(-time.Duration(hours) * time.Hour)

	ctx, cancel := context.WithTimeout(ctx, longRequestTimeout)
	defer cancel()

	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var series [][]rawHistoryRecord
	resp, err := req.
		SetQueryParam("filter_entity_id", entityID).
		SetQueryParam("end_time", end.Format(time.RFC3339)).
		SetResult(&series).
		Get("/api/history/period/" + start.Format(time.RFC3339))
	if err := c.finish(resp, err); err != nil {
		return nil, err
	}

	if len(series) == 0 || len(series[0]) == 0 {
		result := &HistoryResult{
			EntityID: entityID,
			States:   []HistoryPoint{},
			Note:     "No history data found for this entity in the specified time range.",
		}
		c.entityCache.Set(key, result)
		return result, nil
	}

	result := sampleHistory(entityID, series[0], minimal)
	if result.Statistics != nil {
		attachSensorStatistics(result, current, hours)
	}

	c.entityCache.Set(key, result)
	return result, nil
}

// sampleHistory downsamples a raw series to a bounded point count. The
// chronologically last record is always kept so the most recent state is
// never dropped.
func sampleHistory(entityID string, raw []rawHistoryRecord, minimal bool) *HistoryResult {
	maxPoints := historyMaxPoints
	if minimal {
		maxPoints = historyMaxPointsMinimal
	}

	// Ceiling division keeps the kept-point count at or below maxPoints
	// even when the series barely exceeds it.
	sampleRate := 1
	if len(raw) > maxPoints {
		sampleRate = (len(raw) + maxPoints - 1) / maxPoints
	}

	result := &HistoryResult{EntityID: entityID}
	var numeric []float64

	for i, record := range raw {
		if sampleRate > 1 && i%sampleRate != 0 && i != len(raw)-1 {
			continue
		}

		if value, err := strconv.ParseFloat(record.State, 64); err == nil {
			numeric = append(numeric, value)
		}

		point := HistoryPoint{State: record.State, LastChanged: record.LastChanged}
		if minimal {
			kept := map[string]any{}
			for _, attr := range minimalHistoryAttributes {
				if value, ok := record.Attributes[attr]; ok {
					kept[attr] = value
				}
			}
			if len(kept) > 0 {
				point.Attributes = kept
			}
		} else {
			point.Attributes = record.Attributes
		}

		if result.FirstChanged == "" {
			result.FirstChanged = record.LastChanged
		}
		result.LastChanged = record.LastChanged
		result.States = append(result.States, point)
	}

	result.Count = len(result.States)

	if len(numeric) > 0 {
		minVal, maxVal, sum := numeric[0], numeric[0], 0.0
		for _, v := range numeric {
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
			sum += v
		}
		result.Statistics = map[string]any{
			"min":   minVal,
			"max":   maxVal,
			"avg":   sum / float64(len(numeric)),
			"count": len(numeric),
		}
		if len(numeric) > 1 {
			result.Statistics["first"] = numeric[0]
			result.Statistics["last"] = numeric[len(numeric)-1]
		}
	}

	return result
}

// attachSensorStatistics augments the statistics block for sensor entities:
// change, trend, and period averages keyed by window length when a
// measurement unit is known.
func attachSensorStatistics(result *HistoryResult, current map[string]any, hours int) {
	if Domain(result.EntityID) != "sensor" {
		cleanupInternalStats(result)
		return
	}

	first, firstOK := result.Statistics["first"].(float64)
	last, lastOK := result.Statistics["last"].(float64)
	cleanupInternalStats(result)
	if !firstOK || !lastOK {
		return
	}

	change := last - first
	result.Statistics["change"] = change

	trend := "stable"
	if math.Abs(change) >= 0.01*math.Max(math.Abs(first), 0.01) {
		if change > 0 {
			trend = "increasing"
		} else {
			trend = "decreasing"
		}
	}
	result.Statistics["trend"] = trend

	attrs, _ := current["attributes"].(map[string]any)
	if unit, ok := attrs["unit_of_measurement"].(string); ok && unit != "" {
		result.Statistics["unit"] = unit
		avg := result.Statistics["avg"]
		switch {
		case hours <= 24:
			result.Statistics["daily_avg"] = avg
		case hours <= 168:
			result.Statistics["weekly_avg"] = avg
		}
	}
	if deviceClass, ok := attrs["device_class"].(string); ok && deviceClass != "" {
		result.Statistics["device_class"] = deviceClass
	}
}

// first/last are carried inside the statistics map only while building the
// result; they are not part of the tool-facing shape.
func cleanupInternalStats(result *HistoryResult) {
	delete(result.Statistics, "first")
	delete(result.Statistics, "last")
}
