package services

import (
	"io"
	"strconv"
	"testing"

	"phone-specs/models"
	"phone-specs/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLoggerTo(utils.LevelError, io.Discard) }

func ptr(s string) *string { return &s }

func TestCleanersTreatBlankAsMissing(t *testing.T) {
	inputs := []*string{nil, ptr(""), ptr("   "), ptr("\t\n")}

	for _, in := range inputs {
		for name, fn := range map[string]func(*string) *string{
			"CleanManufacturer":      CleanManufacturer,
			"CleanModel":             CleanModel,
			"CleanBodyDimensions":    CleanBodyDimensions,
			"CleanDisplayType":       CleanDisplayType,
			"CleanDisplayResolution": CleanDisplayResolution,
		} {
			if fn(in) != nil {
				t.Errorf("%s(%v) should be nil", name, in)
			}
		}
		if CleanSimType(in) != nil {
			t.Errorf("CleanSimType(%v) should be nil", in)
		}
		if CleanAnnouncedYear(in) != nil {
			t.Errorf("CleanAnnouncedYear(%v) should be nil", in)
		}
		if CleanAvailabilityStatus(in) != nil {
			t.Errorf("CleanAvailabilityStatus(%v) should be nil", in)
		}
		if CleanBodyWeight(in) != nil {
			t.Errorf("CleanBodyWeight(%v) should be nil", in)
		}
		if CleanDisplaySize(in) != nil {
			t.Errorf("CleanDisplaySize(%v) should be nil", in)
		}
		if CleanSensorFeatures(in) != nil {
			t.Errorf("CleanSensorFeatures(%v) should be nil", in)
		}
		if CleanPlatformOS(in) != nil {
			t.Errorf("CleanPlatformOS(%v) should be nil", in)
		}
	}
}

func TestCleanText(t *testing.T) {
	got := CleanText(ptr("  150x70x8.9 mm \t"))
	if got == nil || *got != "150x70x8.9 mm" {
		t.Errorf("CleanText: got %v, want %q", got, "150x70x8.9 mm")
	}
}

func TestCleanSimType(t *testing.T) {
	tests := []struct {
		raw  string
		want *string
	}{
		{"Yes", nil},
		{"No", nil},
		{" No ", nil},
		{"Nano-SIM", ptr("Nano-SIM")},
		{"Mini-SIM ", ptr("Mini-SIM")},
		{"yes", ptr("yes")},
	}

	for _, tt := range tests {
		assertString(t, "CleanSimType", tt.raw, CleanSimType(ptr(tt.raw)), tt.want)
	}
}

func TestCleanAnnouncedYear(t *testing.T) {
	tests := []struct {
		raw  string
		want *int
	}{
		{"2020", intPtr(2020)},
		{"Released 2020 model", intPtr(2020)},
		{"2019, September 10", intPtr(2019)},
		{"abcd", nil},
		{"V1", nil},
		{"123456", intPtr(1234)},
	}

	for _, tt := range tests {
		got := CleanAnnouncedYear(ptr(tt.raw))
		switch {
		case got == nil && tt.want == nil:
		case got == nil || tt.want == nil || *got != *tt.want:
			t.Errorf("CleanAnnouncedYear(%q) = %s; want %s", tt.raw, fmtInt(got), fmtInt(tt.want))
		}
	}
}

func TestCleanAvailabilityStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want *string
	}{
		{"Available. Released 2020", ptr("Available. Released 2020")},
		{"Available. Released 2020, September 25", ptr("Available. Released 2020")},
		{"Available! Released 2018", ptr("Available! Released 2018")},
		{"Discontinued", ptr("Discontinued")},
		{"Cancelled", ptr("Cancelled")},
		{"Coming soon", nil},
		{"Available. Released soon", nil},
	}

	for _, tt := range tests {
		assertString(t, "CleanAvailabilityStatus", tt.raw, CleanAvailabilityStatus(ptr(tt.raw)), tt.want)
	}
}

func TestCleanNumbers(t *testing.T) {
	tests := []struct {
		raw  string
		want *float64
	}{
		{"180.5 kg", floatPtr(180.5)},
		{"170", floatPtr(170)},
		{"6.5 inches", floatPtr(6.5)},
		{"  155 g (5.47 oz)", floatPtr(155)},
		{"xyz", nil},
		{"large", nil},
	}

	for _, tt := range tests {
		for name, fn := range map[string]func(*string) *float64{
			"CleanBodyWeight":  CleanBodyWeight,
			"CleanDisplaySize": CleanDisplaySize,
		} {
			got := fn(ptr(tt.raw))
			switch {
			case got == nil && tt.want == nil:
			case got == nil || tt.want == nil || *got != *tt.want:
				t.Errorf("%s(%q) = %s; want %s", name, tt.raw, fmtFloat(got), fmtFloat(tt.want))
			}
		}
	}
}

func TestCleanSensorFeatures(t *testing.T) {
	tests := []struct {
		raw  string
		want *string
	}{
		{"Accelerometer", ptr("Accelerometer")},
		{"Accelerometer, gyro", ptr("Accelerometer")},
		{"Fingerprint (rear-mounted)", ptr("Fingerprint ")},
		{"123", nil},
		{"1,2-3!", nil},
		{"V1 proximity", ptr("V")},
		{"2 , gyro", ptr(" ")},
		{"1 2 abc", ptr(" ")},
	}

	for _, tt := range tests {
		assertString(t, "CleanSensorFeatures", tt.raw, CleanSensorFeatures(ptr(tt.raw)), tt.want)
	}
}

func TestCleanPlatformOS(t *testing.T) {
	tests := []struct {
		raw  string
		want *string
	}{
		{"iOS 14", ptr("iOS 14")},
		{"Android 10, One UI 2.0", ptr("Android 10")},
		{"Symbian OS", ptr("Symbian OS")},
		{"-", nil},
		{" / Android 10", ptr(" ")},
		{"(Android 9)", ptr("Android 9")},
	}

	for _, tt := range tests {
		assertString(t, "CleanPlatformOS", tt.raw, CleanPlatformOS(ptr(tt.raw)), tt.want)
	}
}

func TestBuildPhoneValidData(t *testing.T) {
	p := BuildPhone(models.RawRow{
		"oem":                "BrandA",
		"model":              "A1",
		"launch_announced":   "2020",
		"launch_status":      "Available. Released 2020",
		"body_dimensions":    "150x70x8.9 mm",
		"body_weight":        "170.0",
		"body_sim":           "Nano-SIM",
		"display_type":       "LCD",
		"display_size":       "6.1",
		"display_resolution": "1080x2340 pixels",
		"features_sensors":   "Accelerometer",
		"platform_os":        "Android 10",
	})

	assertString(t, "Manufacturer", "BrandA", p.Manufacturer, ptr("BrandA"))
	assertString(t, "Model", "A1", p.Model, ptr("A1"))
	assertString(t, "AvailabilityStatus", "", p.AvailabilityStatus, ptr("Available. Released 2020"))
	assertString(t, "BodyDimensions", "", p.BodyDimensions, ptr("150x70x8.9 mm"))
	assertString(t, "SimType", "", p.SimType, ptr("Nano-SIM"))
	assertString(t, "DisplayType", "", p.DisplayType, ptr("LCD"))
	assertString(t, "DisplayResolution", "", p.DisplayResolution, ptr("1080x2340 pixels"))
	assertString(t, "SensorFeatures", "", p.SensorFeatures, ptr("Accelerometer"))
	assertString(t, "PlatformOS", "", p.PlatformOS, ptr("Android 10"))

	if p.AnnouncedYear == nil || *p.AnnouncedYear != 2020 {
		t.Errorf("AnnouncedYear: got %s, want 2020", fmtInt(p.AnnouncedYear))
	}
	if p.BodyWeightGrams == nil || *p.BodyWeightGrams != 170.0 {
		t.Errorf("BodyWeightGrams: got %s, want 170", fmtFloat(p.BodyWeightGrams))
	}
	if p.DisplaySizeInches == nil || *p.DisplaySizeInches != 6.1 {
		t.Errorf("DisplaySizeInches: got %s, want 6.1", fmtFloat(p.DisplaySizeInches))
	}
}

func TestBuildPhoneInvalidData(t *testing.T) {
	p := BuildPhone(models.RawRow{
		"oem":              "BrandC",
		"launch_announced": "abcd",
		"body_weight":      "xyz",
		"display_size":     "large",
	})

	assertString(t, "Manufacturer", "BrandC", p.Manufacturer, ptr("BrandC"))
	if p.AnnouncedYear != nil || p.BodyWeightGrams != nil || p.DisplaySizeInches != nil {
		t.Errorf("unparseable numeric fields should be nil: %s", p)
	}
	if p.Model != nil || p.AvailabilityStatus != nil || p.BodyDimensions != nil || p.SimType != nil ||
		p.DisplayType != nil || p.DisplayResolution != nil || p.SensorFeatures != nil || p.PlatformOS != nil {
		t.Errorf("absent text fields should be nil: %s", p)
	}
}

func TestBuildPhonePartialData(t *testing.T) {
	p := BuildPhone(models.RawRow{
		"oem":              "BrandB",
		"launch_announced": "2021",
		"body_weight":      "180.5 kg",
		"display_size":     "6.5 inches",
		"platform_os":      "iOS 14",
	})

	want := "Phone(manufacturer=BrandB, model=<nil>, announced_year=2021, availability_status=<nil>, " +
		"body_dimensions=<nil>, body_weight_grams=180.5, sim_type=<nil>, display_type=<nil>, " +
		"display_size_inches=6.5, display_resolution=<nil>, sensor_features=<nil>, platform_os=iOS 14)"
	if got := p.String(); got != want {
		t.Errorf("BuildPhone partial:\n got %s\nwant %s", got, want)
	}
}

func TestCleanerPreservesOrder(t *testing.T) {
	rows := make([]models.RawRow, 50)
	for i := range rows {
		rows[i] = models.RawRow{"oem": "Brand" + strconv.Itoa(i), "launch_announced": strconv.Itoa(1990 + i)}
	}

	for _, workers := range []int{1, 8} {
		c := NewCleaner(newTestLogger(), workers)
		phones := c.Clean(rows)
		if len(phones) != len(rows) {
			t.Fatalf("workers=%d: got %d phones, want %d", workers, len(phones), len(rows))
		}
		for i, p := range phones {
			if p.Manufacturer == nil || *p.Manufacturer != "Brand"+strconv.Itoa(i) {
				t.Errorf("workers=%d: phone %d out of order: %s", workers, i, p)
			}
			if p.AnnouncedYear == nil || *p.AnnouncedYear != 1990+i {
				t.Errorf("workers=%d: phone %d year: got %s", workers, i, fmtInt(p.AnnouncedYear))
			}
		}
	}
}

func assertString(t *testing.T, name, raw string, got, want *string) {
	t.Helper()
	switch {
	case got == nil && want == nil:
	case got == nil || want == nil || *got != *want:
		t.Errorf("%s(%q) = %s; want %s", name, raw, fmtStr(got), fmtStr(want))
	}
}

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }

func fmtStr(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return strconv.Quote(*s)
}

func fmtInt(n *int) string {
	if n == nil {
		return "<nil>"
	}
	return strconv.Itoa(*n)
}

func fmtFloat(f *float64) string {
	if f == nil {
		return "<nil>"
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
