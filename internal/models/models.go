package models

import "time"

// AlertType classifies a region's raw status character.
type AlertType string

const (
	AlertActive   AlertType = "active"
	AlertInactive AlertType = "inactive"
	AlertPartial  AlertType = "partial"
	AlertUnknown  AlertType = "unknown"
)

// IsAlert reports whether the type counts as an alert for boolean consumers.
// Both active and partial do.
func (t AlertType) IsAlert() bool {
	return t == AlertActive || t == AlertPartial
}

// RegionStatus is the alert state of a single region.
type RegionStatus struct {
	RegionName  string    `json:"region_name"`
	IsAlert     bool      `json:"is_alert"`
	AlertType   AlertType `json:"alert_type"`
	LastUpdated time.Time `json:"last_updated"`
}

// AlertSnapshot is the complete set of region statuses captured at one point
// in time. It is built fresh on every successful fetch cycle and never
// mutated afterwards; consumers always see either the whole old snapshot or
// the whole new one.
type AlertSnapshot struct {
	Regions      map[string]RegionStatus `json:"regions"`
	TotalRegions int                     `json:"total_regions"`
	ActiveAlerts int                     `json:"active_alerts"`
	LastUpdate   time.Time               `json:"last_update"`
	UpdateSource string                  `json:"update_source"`
	APIStatus    string                  `json:"api_status"`
}

const defaultUpdateSource = "alerts.in.ua API"

// FromRegionMap builds a snapshot from parsed adapter output. ActiveAlerts is
// always the count of true values, TotalRegions the map size.
func FromRegionMap(regions map[string]AlertType) *AlertSnapshot {
	now := time.Now().UTC()
	statuses := make(map[string]RegionStatus, len(regions))
	active := 0

	for name, typ := range regions {
		isAlert := typ.IsAlert()
		if isAlert {
			active++
		}
		statuses[name] = RegionStatus{
			RegionName:  name,
			IsAlert:     isAlert,
			AlertType:   typ,
			LastUpdated: now,
		}
	}

	return &AlertSnapshot{
		Regions:      statuses,
		TotalRegions: len(statuses),
		ActiveAlerts: active,
		LastUpdate:   now,
		UpdateSource: defaultUpdateSource,
		APIStatus:    "ok",
	}
}

// ActiveRegions returns the names of regions currently under alert.
func (s *AlertSnapshot) ActiveRegions() []string {
	names := make([]string, 0, s.ActiveAlerts)
	for name, st := range s.Regions {
		if st.IsAlert {
			names = append(names, name)
		}
	}
	return names
}
