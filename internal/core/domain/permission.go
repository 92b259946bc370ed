package domain

import "time"

// MaxSearchLoadsTabs bounds the SearchLoadsNoMultitab counter.
const MaxSearchLoadsTabs = 10

// Permission is the per-user feature-flag and domain-access profile.
// One profile exists per user; the store enforces uniqueness on UserID.
type Permission struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	DataSessionID string `json:"data_session_id,omitempty"`

	Dashboard     bool `json:"dashboard"`
	SearchTrucks  bool `json:"search_trucks"`
	PrivateLoads  bool `json:"private_loads"`
	MyLoads       bool `json:"my_loads"`
	PrivateNet    bool `json:"private_network"`
	MyTrucks      bool `json:"my_trucks"`
	LiveSupport   bool `json:"live_support"`
	Tools         bool `json:"tools"`
	SendFeedback  bool `json:"send_feedback"`
	Notifications bool `json:"notifications"`
	Profile       bool `json:"profile"`

	SearchLoadsMultitab      bool `json:"search_loads_multitab"`
	SearchLoadsNoMultitab    int  `json:"search_loads_no_multitab"` // 0..MaxSearchLoadsTabs
	SearchLoadsLaneRate      bool `json:"search_loads_lane_rate"`
	SearchLoadsViewRoute     bool `json:"search_loads_view_route"`
	SearchLoadsRateview      bool `json:"search_loads_rateview"`
	SearchLoadsViewDirectory bool `json:"search_loads_view_directory"`

	// DomainIDs references whitelisted domains this profile may use.
	DomainIDs []string `json:"domain_ids"`
	// Domain is the deprecated scalar form, kept for older clients.
	Domain string `json:"domain,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullAccess returns a profile with every feature enabled, used when
// provisioning the bootstrap administrator.
func FullAccess(userID string) *Permission {
	return &Permission{
		UserID:        userID,
		Dashboard:     true,
		SearchTrucks:  true,
		PrivateLoads:  true,
		MyLoads:       true,
		PrivateNet:    true,
		MyTrucks:      true,
		LiveSupport:   true,
		Tools:         true,
		SendFeedback:  true,
		Notifications: true,
		Profile:       true,
	}
}
