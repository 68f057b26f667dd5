package handler

import (
	"strings"

	"territory/internal/territory/models"
)

// unlockRequest accepts the identifier aliases clients have used across
// frontend iterations: regionName also arrives as "region" or "regions".
type unlockRequest struct {
	RegionID   string `json:"regionId"`
	SigCd      string `json:"sigCd"`
	RegionName string `json:"regionName"`
	Region     string `json:"region"`
	Regions    string `json:"regions"`
	UnlockType string `json:"unlockType"`
	SelectedBy string `json:"selectedBy"`
}

// ref folds the aliases into the resolver's tagged union. Precedence among
// name aliases: regionName, region, regions.
func (r unlockRequest) ref() models.RegionRef {
	name := firstNonBlank(r.RegionName, r.Region, r.Regions)
	return models.RegionRef{
		ID:   strings.TrimSpace(r.RegionID),
		Code: strings.TrimSpace(r.SigCd),
		Name: name,
	}
}

func (r unlockRequest) metadata() models.UnlockMetadata {
	return models.UnlockMetadata{
		UnlockType: strings.TrimSpace(r.UnlockType),
		SelectedBy: strings.TrimSpace(r.SelectedBy),
	}
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// batchUnlockRequest names the districts to unlock together. "regions" and
// "regionNames" are accepted as aliases.
type batchUnlockRequest struct {
	Regions     []string `json:"regions"`
	RegionNames []string `json:"regionNames"`
	UnlockType  string   `json:"unlockType"`
	SelectedBy  string   `json:"selectedBy"`
}

func (r batchUnlockRequest) names() []string {
	if len(r.Regions) > 0 {
		return r.Regions
	}
	return r.RegionNames
}

func (r batchUnlockRequest) metadata() models.UnlockMetadata {
	return models.UnlockMetadata{
		UnlockType: strings.TrimSpace(r.UnlockType),
		SelectedBy: strings.TrimSpace(r.SelectedBy),
	}
}

// batchUnlockResponse wraps batch outcomes with a count for clients.
type batchUnlockResponse struct {
	Success bool                    `json:"success"`
	Count   int                     `json:"count"`
	Data    []*models.UnlockOutcome `json:"data"`
}
