package knowledge

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
)

var weatherCodes = map[int]string{
	0:  "clear",
	1:  "mainly clear",
	2:  "partly cloudy",
	3:  "overcast",
	45: "foggy",
	48: "foggy",
	51: "drizzle",
	61: "rain",
	80: "rain",
	95: "thunderstorm",
}

func describeWeather(code int) string {
	if d, ok := weatherCodes[code]; ok {
		return d
	}
	return "unknown conditions"
}

// weather geocodes place and reads the current conditions there.
// An unknown place yields "" and no error.
func (s *Service) weather(ctx context.Context, place string) (string, error) {
	geo := url.Values{"name": {place}, "count": {"1"}}
	var found struct {
		Results []struct {
			Name      string  `json:"name"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := s.client.getJSON(ctx, s.endpoints.Geocoding+"?"+geo.Encode(), nil, &found); err != nil {
		return "", fmt.Errorf("geocoding: %w", err)
	}
	if len(found.Results) == 0 {
		return "", nil
	}
	loc := found.Results[0]

	params := url.Values{
		"latitude":  {strconv.FormatFloat(loc.Latitude, 'f', -1, 64)},
		"longitude": {strconv.FormatFloat(loc.Longitude, 'f', -1, 64)},
		"current":   {"temperature_2m,weather_code"},
	}
	var forecast struct {
		Current struct {
			Temperature *float64 `json:"temperature_2m"`
			WeatherCode int      `json:"weather_code"`
		} `json:"current"`
	}
	if err := s.client.getJSON(ctx, s.endpoints.Forecast+"?"+params.Encode(), nil, &forecast); err != nil {
		return "", fmt.Errorf("forecast: %w", err)
	}
	if forecast.Current.Temperature == nil {
		return "", nil
	}

	name := loc.Name
	if name == "" {
		name = place
	}
	return fmt.Sprintf("%s: %d°C, %s.", name, int(math.RoundToEven(*forecast.Current.Temperature)), describeWeather(forecast.Current.WeatherCode)), nil
}
