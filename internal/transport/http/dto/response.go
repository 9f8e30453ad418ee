package dto

type CityResp struct {
	Name string `json:"name"`
}

// CreatedCityResp echoes the stored name and the owning state's id.
type CreatedCityResp struct {
	Name  string `json:"name"`
	State int64  `json:"state"`
}
