package models

// DeliveryPlace is a named shipping destination scoped to a team. The
// (Name, Team) pair is the identity used for lookup and update; names alone
// are not unique across teams.
type DeliveryPlace struct {
	Name    string `json:"name"`
	Team    string `json:"team"`
	Address string `json:"address"`
	Contact string `json:"contact"`
	Manager string `json:"manager"`
	Active  bool   `json:"active"`
	Remarks string `json:"remarks"`
}

// DeliveryPlaceUpdate carries partial delivery place fields.
type DeliveryPlaceUpdate struct {
	Name    *string
	Team    *string
	Address *string
	Contact *string
	Manager *string
	Active  *bool
	Remarks *string
}
