package forecast

import (
	"fmt"
	"math"
	"time"
)

// conditionText is the Russian wording for each weather provider condition
// code, used when a forecast response carries no localization for a code.
var conditionText = map[string]string{
	"clear":                  "ясно",
	"partly-cloudy":          "малооблачно",
	"cloudy":                 "облачно с прояснениями",
	"overcast":               "пасмурно",
	"drizzle":                "морось",
	"light-rain":             "небольшой дождь",
	"rain":                   "дождь",
	"moderate-rain":          "умеренно сильный дождь",
	"heavy-rain":             "сильный дождь",
	"continuous-heavy-rain":  "длительный сильный дождь",
	"showers":                "ливень",
	"wet-snow":               "дождь со снегом",
	"light-snow":             "небольшой снег",
	"snow":                   "снег",
	"snow-showers":           "снегопад",
	"hail":                   "град",
	"thunderstorm":           "гроза",
	"thunderstorm-with-rain": "дождь с грозой",
	"thunderstorm-with-hail": "гроза с градом",
}

// DescribeCondition returns the Russian description of a condition code.
// Unknown codes are returned unchanged.
func DescribeCondition(code string) string {
	if text, ok := conditionText[code]; ok {
		return text
	}
	return code
}

// WeatherCondition represents a categorized weather state for image generation.
type WeatherCondition string

const (
	ConditionClearWarm    WeatherCondition = "clear_warm"
	ConditionClearCool    WeatherCondition = "clear_cool"
	ConditionPartlyCloudy WeatherCondition = "partly_cloudy"
	ConditionMostlyCloudy WeatherCondition = "mostly_cloudy"
	ConditionLightRain    WeatherCondition = "light_rain"
	ConditionHeavyRain    WeatherCondition = "heavy_rain"
	ConditionStorm        WeatherCondition = "storm"
	ConditionSnow         WeatherCondition = "snow"
	ConditionHot          WeatherCondition = "hot"
	ConditionFrost        WeatherCondition = "frost"
)

// Categorize maps a condition code and temperature to an image category.
func Categorize(code string, temp float64) WeatherCondition {
	switch code {
	case "thunderstorm", "thunderstorm-with-rain", "thunderstorm-with-hail", "hail":
		return ConditionStorm
	case "heavy-rain", "continuous-heavy-rain", "showers", "moderate-rain":
		return ConditionHeavyRain
	case "drizzle", "light-rain", "rain":
		return ConditionLightRain
	case "wet-snow", "light-snow", "snow", "snow-showers":
		return ConditionSnow
	case "overcast", "cloudy":
		return ConditionMostlyCloudy
	case "partly-cloudy":
		return ConditionPartlyCloudy
	}

	// Clear sky: temperature extremes decide the picture
	switch {
	case temp >= 30:
		return ConditionHot
	case temp <= -5:
		return ConditionFrost
	case temp >= 18:
		return ConditionClearWarm
	default:
		return ConditionClearCool
	}
}

// TimeOfDay represents the lighting period.
type TimeOfDay string

const (
	TimeDay   TimeOfDay = "day"
	TimeDusk  TimeOfDay = "dusk"
	TimeNight TimeOfDay = "night"
	TimeDawn  TimeOfDay = "dawn"
)

// GetTimeOfDay returns the time-of-day category for t in its own location.
func GetTimeOfDay(t time.Time) TimeOfDay {
	hour := t.Hour()
	switch {
	case hour >= 5 && hour < 7:
		return TimeDawn
	case hour >= 7 && hour < 17:
		return TimeDay
	case hour >= 17 && hour < 20:
		return TimeDusk
	default:
		return TimeNight
	}
}

// MoonPhase represents the lunar phase.
type MoonPhase string

const (
	MoonNew            MoonPhase = "new"
	MoonWaxingCrescent MoonPhase = "waxing_crescent"
	MoonFirstQuarter   MoonPhase = "first_quarter"
	MoonWaxingGibbous  MoonPhase = "waxing_gibbous"
	MoonFull           MoonPhase = "full"
	MoonWaningGibbous  MoonPhase = "waning_gibbous"
	MoonLastQuarter    MoonPhase = "last_quarter"
	MoonWaningCrescent MoonPhase = "waning_crescent"
)

// lunarCycle is the synodic month in days.
const lunarCycle = 29.53

var moonPhases = [8]MoonPhase{
	MoonNew, MoonWaxingCrescent, MoonFirstQuarter, MoonWaxingGibbous,
	MoonFull, MoonWaningGibbous, MoonLastQuarter, MoonWaningCrescent,
}

// knownNewMoon is the reference new moon of 6 January 2000, 18:14 UTC.
var knownNewMoon = time.Date(2000, 1, 6, 18, 14, 0, 0, time.UTC)

// GetMoonPhase approximates the moon phase at t.
func GetMoonPhase(t time.Time) MoonPhase {
	age := math.Mod(t.Sub(knownNewMoon).Hours()/24, lunarCycle)
	if age < 0 {
		age += lunarCycle
	}
	return moonPhases[int(age/lunarCycle*8)%8]
}

func moonPrompt(phase MoonPhase) string {
	switch phase {
	case MoonNew:
		return "No visible moon, very dark sky, stars prominent"
	case MoonWaxingCrescent, MoonWaningCrescent:
		return "Thin crescent moon visible"
	case MoonFirstQuarter, MoonLastQuarter:
		return "Half moon visible"
	case MoonWaxingGibbous, MoonWaningGibbous:
		return "Nearly full moon, bright moonlight"
	case MoonFull:
		return "Bright full moon illuminating the city"
	default:
		return "Moon visible in sky"
	}
}

const baseStylePrompt = `Atmospheric illustration of the city of %s: recognizable streets and skyline.
Style: impressionistic watercolor, soft gradients, muted tones, calm mood.
Square composition. No text, no captions, no close-up people.`

var conditionPrompts = map[WeatherCondition]string{
	ConditionClearWarm:    "Warm day, clear sky, no clouds, vivid colors.",
	ConditionClearCool:    "Cool temperature, clear sky, crisp air.",
	ConditionPartlyCloudy: "Scattered clouds drifting across the sky, patches of blue.",
	ConditionMostlyCloudy: "Overcast, heavy cloud cover, soft diffused light, muted colors.",
	ConditionLightRain:    "Light rain, wet glistening pavement, grey sky, umbrellas.",
	ConditionHeavyRain:    "Heavy rain, dark grey clouds, puddles and streaming water.",
	ConditionStorm:        "Dramatic thunderstorm, lightning, dark threatening clouds.",
	ConditionSnow:         "Falling snow, white rooftops, snowy streets.",
	ConditionHot:          "Very hot, bright sun, heat shimmer over the streets.",
	ConditionFrost:        "Hard frost, hoarfrost on trees, cold blue tones, breath visible in the air.",
}

var timePrompts = map[TimeOfDay]string{
	TimeDawn: "Early dawn, soft pink and orange glow on the horizon, quiet streets.",
	TimeDay:  "Daytime, bright natural light, clear visibility.",
	TimeDusk: "Sunset, golden hour, warm orange sky, long shadows, street lights coming on.",
}

// BuildPrompt creates the image generation prompt for a city's weather at t.
// Night scenes describe the moon phase for t.
func BuildPrompt(city string, condition WeatherCondition, t time.Time) string {
	conditionDesc, ok := conditionPrompts[condition]
	if !ok {
		conditionDesc = conditionPrompts[ConditionClearCool]
	}

	tod := GetTimeOfDay(t)
	timeDesc, ok := timePrompts[tod]
	if !ok {
		timeDesc = fmt.Sprintf("NIGHTTIME SCENE. %s. Dark night sky, city lights and lit windows.", moonPrompt(GetMoonPhase(t)))
	}

	return fmt.Sprintf("%s\n\n"+baseStylePrompt+"\n\nWeather conditions: %s", timeDesc, city, conditionDesc)
}
