package models

import (
	"fmt"
	"strconv"
	"strings"
)

// RawRow holds one unprocessed CSV row keyed by header name.
// Keys missing from the map are treated as absent values by the cleaner.
type RawRow map[string]string

// Phone is the cleaned record built from a single RawRow.
// A nil field means the raw value was absent or could not be parsed.
// Phones are never modified after the cleaner builds them.
type Phone struct {
	Manufacturer       *string
	Model              *string
	AnnouncedYear      *int
	AvailabilityStatus *string
	BodyDimensions     *string
	BodyWeightGrams    *float64
	SimType            *string
	DisplayType        *string
	DisplaySizeInches  *float64
	DisplayResolution  *string
	SensorFeatures     *string
	PlatformOS         *string
}

// String renders every field, printing <nil> for missing values.
func (p Phone) String() string {
	fields := []string{
		"manufacturer=" + str(p.Manufacturer),
		"model=" + str(p.Model),
		"announced_year=" + integer(p.AnnouncedYear),
		"availability_status=" + str(p.AvailabilityStatus),
		"body_dimensions=" + str(p.BodyDimensions),
		"body_weight_grams=" + float(p.BodyWeightGrams),
		"sim_type=" + str(p.SimType),
		"display_type=" + str(p.DisplayType),
		"display_size_inches=" + float(p.DisplaySizeInches),
		"display_resolution=" + str(p.DisplayResolution),
		"sensor_features=" + str(p.SensorFeatures),
		"platform_os=" + str(p.PlatformOS),
	}
	return fmt.Sprintf("Phone(%s)", strings.Join(fields, ", "))
}

// InsightReport holds the computed analytics over the cleaned dataset.
type InsightReport struct {
	TotalPhones          int
	AverageWeightGrams   float64
	AverageDisplayInches float64
	AverageAnnouncedYear float64

	HeaviestManufacturer string
	HeaviestAverageGrams float64

	PhonesByManufacturer map[string]int
	PhonesByPlatform     map[string]int
	ReleaseMismatches    []Phone

	BusiestLaunchYear  int
	BusiestLaunchCount int
	ReleaseCutoffYear  int
}

func str(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

func integer(n *int) string {
	if n == nil {
		return "<nil>"
	}
	return strconv.Itoa(*n)
}

func float(f *float64) string {
	if f == nil {
		return "<nil>"
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
