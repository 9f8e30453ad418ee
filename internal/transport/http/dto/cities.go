package dto

// CreateCityReq is accepted as JSON or as a form body. Unknown fields are ignored.
type CreateCityReq struct {
	Name string `json:"name" validate:"required,max=50"`
}
