package forecast

import (
	"strings"
	"testing"
	"time"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		code string
		temp float64
		want WeatherCondition
	}{
		{"thunderstorm", "thunderstorm-with-rain", 25, ConditionStorm},
		{"hail is a storm", "hail", 15, ConditionStorm},
		{"showers are heavy rain", "showers", 20, ConditionHeavyRain},
		{"drizzle is light rain", "drizzle", 12, ConditionLightRain},
		{"wet snow", "wet-snow", 0, ConditionSnow},
		{"overcast", "overcast", 10, ConditionMostlyCloudy},
		{"cloudy with clearings", "cloudy", 10, ConditionMostlyCloudy},
		{"partly cloudy", "partly-cloudy", 10, ConditionPartlyCloudy},
		{"clear and hot", "clear", 32, ConditionHot},
		{"clear and warm", "clear", 22, ConditionClearWarm},
		{"clear and cool", "clear", 8, ConditionClearCool},
		{"clear and frosty", "clear", -12, ConditionFrost},
		{"unknown code by temperature", "volcanic-ash", 10, ConditionClearCool},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Categorize(tt.code, tt.temp); got != tt.want {
				t.Errorf("Categorize(%q, %v) = %v, want %v", tt.code, tt.temp, got, tt.want)
			}
		})
	}
}

func TestDescribeCondition(t *testing.T) {
	if got := DescribeCondition("partly-cloudy"); got != "малооблачно" {
		t.Errorf("DescribeCondition(partly-cloudy) = %q", got)
	}
	if got := DescribeCondition("volcanic-ash"); got != "volcanic-ash" {
		t.Errorf("unknown code should pass through, got %q", got)
	}
}

func TestGetTimeOfDay(t *testing.T) {
	tests := []struct {
		hour int
		want TimeOfDay
	}{
		{4, TimeNight},
		{5, TimeDawn},
		{6, TimeDawn},
		{7, TimeDay},
		{16, TimeDay},
		{17, TimeDusk},
		{19, TimeDusk},
		{20, TimeNight},
		{23, TimeNight},
	}

	for _, tt := range tests {
		ts := time.Date(2026, 10, 19, tt.hour, 0, 0, 0, time.UTC)
		if got := GetTimeOfDay(ts); got != tt.want {
			t.Errorf("GetTimeOfDay(%02d:00) = %v, want %v", tt.hour, got, tt.want)
		}
	}
}

func TestGetMoonPhase(t *testing.T) {
	tests := []struct {
		date string
		want MoonPhase
	}{
		{"2000-01-06", MoonNew},
		{"2000-01-21", MoonFull},
	}

	for _, tt := range tests {
		d, _ := time.Parse("2006-01-02", tt.date)
		d = d.Add(20 * time.Hour)
		if got := GetMoonPhase(d); got != tt.want {
			t.Errorf("GetMoonPhase(%s) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestBuildPrompt(t *testing.T) {
	day := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	prompt := BuildPrompt("Москва", ConditionSnow, day)
	for _, want := range []string{"Москва", "Daytime", "Falling snow"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("day prompt missing %q:\n%s", want, prompt)
		}
	}

	night := time.Date(2026, 10, 19, 23, 0, 0, 0, time.UTC)
	prompt = BuildPrompt("Москва", WeatherCondition("unknown"), night)
	if !strings.Contains(prompt, "NIGHTTIME SCENE") {
		t.Errorf("night prompt missing night marker:\n%s", prompt)
	}
	if !strings.Contains(prompt, conditionPrompts[ConditionClearCool]) {
		t.Errorf("unknown condition should fall back to clear cool:\n%s", prompt)
	}
}
