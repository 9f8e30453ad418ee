package dto

import (
	"github.com/baechuer/real-time-ressys/services/location-service/internal/domain"
)

func ToCityResp(c *domain.City) CityResp {
	return CityResp{Name: c.Name}
}

// ToCityListResp never returns nil so an empty list encodes as [].
func ToCityListResp(cities []*domain.City) []CityResp {
	out := make([]CityResp, 0, len(cities))
	for _, c := range cities {
		out = append(out, ToCityResp(c))
	}
	return out
}

func ToCreatedCityResp(c *domain.City) CreatedCityResp {
	return CreatedCityResp{Name: c.Name, State: c.StateID}
}
