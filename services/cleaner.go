package services

import (
	"regexp"
	"strconv"
	"strings"

	"phone-specs/models"
	"phone-specs/utils"
)

// Input column names.
const (
	ColOEM               = "oem"
	ColModel             = "model"
	ColLaunchAnnounced   = "launch_announced"
	ColLaunchStatus      = "launch_status"
	ColBodyDimensions    = "body_dimensions"
	ColBodyWeight        = "body_weight"
	ColBodySim           = "body_sim"
	ColDisplayType       = "display_type"
	ColDisplaySize       = "display_size"
	ColDisplayResolution = "display_resolution"
	ColFeaturesSensors   = "features_sensors"
	ColPlatformOS        = "platform_os"
)

var (
	// yearRegexp captures the first run of four digits, even inside a longer number
	yearRegexp = regexp.MustCompile(`\d{4}`)
	// statusRegexp accepts any single character after "Available", not only a period
	statusRegexp = regexp.MustCompile(`Discontinued|Cancelled|Available. Released \d{4}`)
	// numberRegexp captures an integer or decimal value; trailing units are ignored
	numberRegexp = regexp.MustCompile(`\d+(?:\.\d+)?`)
	// sensorsRegexp captures the first letters-and-spaces run, even a run of spaces only
	sensorsRegexp = regexp.MustCompile(`[a-zA-Z ]+`)
	// letterRegexp reports whether any ASCII letter is present
	letterRegexp = regexp.MustCompile(`[a-zA-Z]`)
	// platformRegexp captures the first run of letters, digits and spaces
	platformRegexp = regexp.MustCompile(`[a-zA-Z0-9 ]+`)
)

// BuildPhone cleans every known column of row into a Phone.
// Absent keys are cleaned as missing values.
func BuildPhone(row models.RawRow) models.Phone {
	return models.Phone{
		Manufacturer:       CleanManufacturer(lookup(row, ColOEM)),
		Model:              CleanModel(lookup(row, ColModel)),
		AnnouncedYear:      CleanAnnouncedYear(lookup(row, ColLaunchAnnounced)),
		AvailabilityStatus: CleanAvailabilityStatus(lookup(row, ColLaunchStatus)),
		BodyDimensions:     CleanBodyDimensions(lookup(row, ColBodyDimensions)),
		BodyWeightGrams:    CleanBodyWeight(lookup(row, ColBodyWeight)),
		SimType:            CleanSimType(lookup(row, ColBodySim)),
		DisplayType:        CleanDisplayType(lookup(row, ColDisplayType)),
		DisplaySizeInches:  CleanDisplaySize(lookup(row, ColDisplaySize)),
		DisplayResolution:  CleanDisplayResolution(lookup(row, ColDisplayResolution)),
		SensorFeatures:     CleanSensorFeatures(lookup(row, ColFeaturesSensors)),
		PlatformOS:         CleanPlatformOS(lookup(row, ColPlatformOS)),
	}
}

func lookup(row models.RawRow, key string) *string {
	v, ok := row[key]
	if !ok {
		return nil
	}
	return &v
}

// blank reports whether raw is absent or holds only whitespace.
func blank(raw *string) bool {
	return raw == nil || strings.TrimSpace(*raw) == ""
}

// CleanText trims raw and returns nil when nothing is left.
func CleanText(raw *string) *string {
	if blank(raw) {
		return nil
	}
	s := strings.TrimSpace(*raw)
	return &s
}

func CleanManufacturer(raw *string) *string { return CleanText(raw) }
func CleanModel(raw *string) *string { return CleanText(raw) }
func CleanBodyDimensions(raw *string) *string { return CleanText(raw) }
func CleanDisplayType(raw *string) *string { return CleanText(raw) }
func CleanDisplayResolution(raw *string) *string { return CleanText(raw) }

// CleanSimType behaves like CleanText but drops the bare "Yes"/"No" answers,
// which say a SIM exists without naming its type.
func CleanSimType(raw *string) *string {
	s := CleanText(raw)
	if s == nil || *s == "Yes" || *s == "No" {
		return nil
	}
	return s
}

// CleanAnnouncedYear returns the first four-digit run in raw. The year is not
// checked for plausibility.
func CleanAnnouncedYear(raw *string) *int {
	if blank(raw) {
		return nil
	}
	match := yearRegexp.FindString(*raw)
	if match == "" {
		return nil
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}
	return &year
}

// CleanAvailabilityStatus returns "Discontinued", "Cancelled" or the matched
// "Available. Released YYYY" text, whichever occurs first in raw.
func CleanAvailabilityStatus(raw *string) *string {
	return findString(statusRegexp, raw)
}

// CleanBodyWeight returns the first number in raw, taken as grams.
func CleanBodyWeight(raw *string) *float64 {
	return findNumber(raw)
}

// CleanDisplaySize returns the first number in raw, taken as inches.
func CleanDisplaySize(raw *string) *float64 {
	return findNumber(raw)
}

// CleanSensorFeatures returns the first letters-and-spaces run of raw
// verbatim, so "Accelerometer, gyro" yields "Accelerometer". Text without
// any letter is missing.
func CleanSensorFeatures(raw *string) *string {
	if blank(raw) || !letterRegexp.MatchString(*raw) {
		return nil
	}
	return findString(sensorsRegexp, raw)
}

// CleanPlatformOS returns the first run of letters, digits and spaces, so
// "Android 10, up to Android 11" yields "Android 10".
func CleanPlatformOS(raw *string) *string {
	return findString(platformRegexp, raw)
}

func findString(re *regexp.Regexp, raw *string) *string {
	if blank(raw) {
		return nil
	}
	loc := re.FindStringIndex(*raw)
	if loc == nil {
		return nil
	}
	s := (*raw)[loc[0]:loc[1]]
	return &s
}

func findNumber(raw *string) *float64 {
	if blank(raw) {
		return nil
	}
	match := numberRegexp.FindString(*raw)
	if match == "" {
		return nil
	}
	val, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil
	}
	return &val
}

// Cleaner turns loaded rows into Phones.
type Cleaner struct {
	logger  *utils.Logger
	workers int
}

// NewCleaner creates a Cleaner that builds records on up to workers goroutines.
func NewCleaner(logger *utils.Logger, workers int) *Cleaner {
	return &Cleaner{logger: logger, workers: workers}
}

// Clean builds one Phone per row. The output keeps the order of rows.
func (c *Cleaner) Clean(rows []models.RawRow) []models.Phone {
	result := make([]models.Phone, len(rows))

	if c.workers <= 1 || len(rows) < 2 {
		for i, r := range rows {
			result[i] = BuildPhone(r)
		}
	} else {
		pool := utils.NewWorkerPool(c.workers)
		for i, r := range rows {
			pool.Submit(func() {
				result[i] = BuildPhone(r)
			})
		}
		pool.Wait()
	}

	incomplete := 0
	for _, p := range result {
		if p.Manufacturer == nil || p.Model == nil {
			incomplete++
		}
	}
	if incomplete > 0 {
		c.logger.Debug("[cleaner] %d records lack a manufacturer or model", incomplete)
	}
	c.logger.Info("[cleaner] Cleaned %d rows into %d records", len(rows), len(result))
	return result
}
