package openmeteo

import "slices"

// hourlyVariables is the full catalog requested by Query.Hourly, in request order.
var hourlyVariables = []string{
	"temperature_2m",
	"relativehumidity_2m",
	"dewpoint_2m",
	"apparent_temperature",
	"precipitation_probability",
	"precipitation",
	"rain",
	"showers",
	"snowfall",
	"snow_depth",
	"weathercode",
	"pressure_msl",
	"surface_pressure",
	"cloudcover",
	"cloudcover_low",
	"cloudcover_mid",
	"cloudcover_high",
	"visibility",
	"evapotranspiration",
	"et0_fao_evapotranspiration",
	"vapor_pressure_deficit",
	"windspeed_10m",
	"windspeed_80m",
	"windspeed_120m",
	"windspeed_180m",
	"winddirection_10m",
	"winddirection_80m",
	"winddirection_120m",
	"winddirection_180m",
	"windgusts_10m",
	"temperature_80m",
	"temperature_120m",
	"temperature_180m",
	"soil_temperature_0cm",
	"soil_temperature_6cm",
	"soil_temperature_18cm",
	"soil_temperature_54cm",
	"soil_moisture_0_1cm",
	"soil_moisture_1_3cm",
	"soil_moisture_3_9cm",
	"soil_moisture_9_27cm",
	"soil_moisture_27_81cm",
}

// dailyVariables is the full catalog requested by Query.Daily, in request order.
var dailyVariables = []string{
	"weathercode",
	"temperature_2m_max",
	"temperature_2m_min",
	"apparent_temperature_max",
	"apparent_temperature_min",
	"sunrise",
	"sunset",
	"uv_index_max",
	"uv_index_clear_sky_max",
	"precipitation_sum",
	"rain_sum",
	"showers_sum",
	"snowfall_sum",
	"precipitation_hours",
	"precipitation_probability_max",
	"windspeed_10m_max",
	"windgusts_10m_max",
	"winddirection_10m_dominant",
	"shortwave_radiation_sum",
	"et0_fao_evapotranspiration",
}

// HourlyVariables returns a copy of the hourly variable catalog.
func HourlyVariables() []string { return slices.Clone(hourlyVariables) }

// DailyVariables returns a copy of the daily variable catalog.
func DailyVariables() []string { return slices.Clone(dailyVariables) }
