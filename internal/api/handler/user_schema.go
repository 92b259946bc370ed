package handler

import "github.com/loadboard/access-api/internal/core/ports"

// permissionPayload is the partial permission document accepted on create
// and update; nil fields are left untouched.
type permissionPayload struct {
	DataSessionID *string `json:"data_session_id"`

	Dashboard     *bool `json:"dashboard"`
	SearchTrucks  *bool `json:"search_trucks"`
	PrivateLoads  *bool `json:"private_loads"`
	MyLoads       *bool `json:"my_loads"`
	PrivateNet    *bool `json:"private_network"`
	MyTrucks      *bool `json:"my_trucks"`
	LiveSupport   *bool `json:"live_support"`
	Tools         *bool `json:"tools"`
	SendFeedback  *bool `json:"send_feedback"`
	Notifications *bool `json:"notifications"`
	Profile       *bool `json:"profile"`

	SearchLoadsMultitab      *bool `json:"search_loads_multitab"`
	SearchLoadsNoMultitab    *int  `json:"search_loads_no_multitab" validate:"omitempty,min=0,max=10"`
	SearchLoadsLaneRate      *bool `json:"search_loads_lane_rate"`
	SearchLoadsViewRoute     *bool `json:"search_loads_view_route"`
	SearchLoadsRateview      *bool `json:"search_loads_rateview"`
	SearchLoadsViewDirectory *bool `json:"search_loads_view_directory"`

	DomainIDs *[]string `json:"domain_ids"`
	Domain    *string   `json:"domain"`
}

func (p *permissionPayload) toUpdate() *ports.PermissionUpdate {
	if p == nil {
		return nil
	}
	return &ports.PermissionUpdate{
		DataSessionID: p.DataSessionID,

		Dashboard:     p.Dashboard,
		SearchTrucks:  p.SearchTrucks,
		PrivateLoads:  p.PrivateLoads,
		MyLoads:       p.MyLoads,
		PrivateNet:    p.PrivateNet,
		MyTrucks:      p.MyTrucks,
		LiveSupport:   p.LiveSupport,
		Tools:         p.Tools,
		SendFeedback:  p.SendFeedback,
		Notifications: p.Notifications,
		Profile:       p.Profile,

		SearchLoadsMultitab:      p.SearchLoadsMultitab,
		SearchLoadsNoMultitab:    p.SearchLoadsNoMultitab,
		SearchLoadsLaneRate:      p.SearchLoadsLaneRate,
		SearchLoadsViewRoute:     p.SearchLoadsViewRoute,
		SearchLoadsRateview:      p.SearchLoadsRateview,
		SearchLoadsViewDirectory: p.SearchLoadsViewDirectory,

		DomainIDs: p.DomainIDs,
		Domain:    p.Domain,
	}
}

type createUserRequest struct {
	Name        string             `json:"name" validate:"required"`
	Email       string             `json:"email" validate:"required,email"`
	Password    string             `json:"password" validate:"required,min=6"`
	Role        string             `json:"role" validate:"required,oneof=admin user"`
	Permissions *permissionPayload `json:"permissions"`
}

type updateUserRequest struct {
	Name        *string            `json:"name"`
	Email       *string            `json:"email" validate:"omitempty,email"`
	Password    *string            `json:"password"`
	Role        *string            `json:"role" validate:"omitempty,oneof=admin user"`
	IsBanned    *bool              `json:"is_banned"`
	Permissions *permissionPayload `json:"permissions"`
}

type createPermissionRequest struct {
	UserID string `json:"user_id" validate:"required"`
	permissionPayload
}
