package models

import "time"

// UnlockTypeInitial is recorded when a request does not classify the unlock.
const UnlockTypeInitial = "INITIAL"

// UnlockRecord is the persisted unlock relationship between one couple and
// one region. Exactly one record exists per (CoupleID, RegionID) pair;
// records are created lazily on the first unlock attempt and never deleted.
type UnlockRecord struct {
	ID       string
	CoupleID string
	RegionID string
	// Locked defaults to true at creation. Once false, UnlockedAt is
	// frozen: repeated unlocks are no-ops that keep the original stamp.
	Locked     bool
	UnlockedAt *time.Time
	UnlockType string
	SelectedBy string
}

// UnlockMetadata carries optional classification supplied with an unlock
// request. Empty fields never erase previously recorded values.
type UnlockMetadata struct {
	UnlockType string
	SelectedBy string
}

// UnlockOutcome is the public view of an unlock returned to callers.
type UnlockOutcome struct {
	CoupleID   string        `json:"coupleId"`
	Region     RegionSummary `json:"region"`
	Unlocked   bool          `json:"unlocked"`
	UnlockedAt *time.Time    `json:"unlockedAt,omitempty"`
	UnlockType string        `json:"unlockType,omitempty"`
	SelectedBy string        `json:"selectedBy,omitempty"`
}

// Outcome projects a record plus its region into the client view.
func Outcome(rec *UnlockRecord, region *Region) *UnlockOutcome {
	return &UnlockOutcome{
		CoupleID:   rec.CoupleID,
		Region:     region.Summary(),
		Unlocked:   !rec.Locked,
		UnlockedAt: rec.UnlockedAt,
		UnlockType: rec.UnlockType,
		SelectedBy: rec.SelectedBy,
	}
}

// DistrictSummary is one region's row inside an overview group.
type DistrictSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Locked      bool     `json:"isLocked"`
	Description string   `json:"description,omitempty"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
}

// CitySummary groups districts under one parent area with lock counts.
type CitySummary struct {
	CityName          string            `json:"cityName"`
	TotalDistricts    int               `json:"totalDistricts"`
	LockedDistricts   int               `json:"lockedDistricts"`
	UnlockedDistricts int               `json:"unlockedDistricts"`
	Districts         []DistrictSummary `json:"districts"`
}

// Overview is the grouped-by-parent projection of the full catalog for one
// couple. Success is always true for a well-formed build; failures surface
// as errors instead.
type Overview struct {
	Success bool         `json:"success"`
	Data    OverviewData `json:"data"`
}

// OverviewData carries the couple's unlocked count and the city groups.
type OverviewData struct {
	TotalKeys int           `json:"totalKeys"`
	Cities    []CitySummary `json:"cities"`
}

// CheckReason classifies the outcome of a coordinate ownership check.
type CheckReason string

const (
	ReasonUnlockedRegion CheckReason = "UNLOCKED_REGION"
	ReasonLockedRegion   CheckReason = "LOCKED_REGION"
	ReasonOutOfCoverage  CheckReason = "OUT_OF_COVERAGE"
)

// CheckResult answers "is this coordinate inside a region the couple owns".
type CheckResult struct {
	OK     bool           `json:"ok"`
	Reason CheckReason    `json:"reason"`
	Region *RegionSummary `json:"region"`
}

// LookupResult answers "which region contains this coordinate". Absence of
// coverage is a successful result, not an error.
type LookupResult struct {
	InCoverage bool           `json:"inCoverage"`
	Region     *RegionSummary `json:"region"`
}
