package domain

// DashboardStats holds collection sizes shown on the overview page.
type DashboardStats struct {
	Users    int `json:"users"`
	Products int `json:"products"`
	Orders   int `json:"orders"`
	Payments int `json:"payments"`
}
