package services

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"phone-specs/models"
	"phone-specs/utils"
)

// Numeric attributes accepted by Average and AverageBy.
const (
	AttrAnnouncedYear     = "announced_year"
	AttrBodyWeightGrams   = "body_weight_grams"
	AttrDisplaySizeInches = "display_size_inches"
)

// Text attributes accepted by CountBy and AverageBy.
const (
	AttrManufacturer       = "manufacturer"
	AttrModel              = "model"
	AttrAvailabilityStatus = "availability_status"
	AttrSimType            = "sim_type"
	AttrDisplayType        = "display_type"
	AttrPlatformOS         = "platform_os"
)

var releasedRegexp = regexp.MustCompile(`Released (\d{4})`)

// numericValue returns the named numeric attribute of p. Input column names
// (launch_announced, body_weight, display_size) are accepted as aliases.
func numericValue(attr string, p models.Phone) (float64, bool) {
	switch attr {
	case AttrAnnouncedYear, ColLaunchAnnounced:
		if p.AnnouncedYear != nil {
			return float64(*p.AnnouncedYear), true
		}
	case AttrBodyWeightGrams, ColBodyWeight:
		if p.BodyWeightGrams != nil {
			return *p.BodyWeightGrams, true
		}
	case AttrDisplaySizeInches, ColDisplaySize:
		if p.DisplaySizeInches != nil {
			return *p.DisplaySizeInches, true
		}
	}
	return 0, false
}

func textValue(attr string, p models.Phone) (string, bool) {
	var v *string
	switch attr {
	case AttrManufacturer, ColOEM:
		v = p.Manufacturer
	case AttrModel:
		v = p.Model
	case AttrAvailabilityStatus, ColLaunchStatus:
		v = p.AvailabilityStatus
	case AttrSimType, ColBodySim:
		v = p.SimType
	case AttrDisplayType:
		v = p.DisplayType
	case AttrPlatformOS:
		v = p.PlatformOS
	}
	if v == nil {
		return "", false
	}
	return *v, true
}

// Average returns the mean of the named numeric attribute over the phones that
// have it. It returns 0 when no phone has a value or attr is unknown.
func Average(attr string, phones []models.Phone) float64 {
	var total float64
	var n int
	for _, p := range phones {
		if v, ok := numericValue(attr, p); ok {
			total += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// AverageBy groups phones by a text attribute and averages a numeric one per
// group. Groups without any numeric value are left out.
func AverageBy(group, attr string, phones []models.Phone) map[string]float64 {
	buckets := make(map[string][]models.Phone)
	for _, p := range phones {
		if key, ok := textValue(group, p); ok {
			buckets[key] = append(buckets[key], p)
		}
	}

	result := make(map[string]float64, len(buckets))
	for key, members := range buckets {
		for _, p := range members {
			if _, ok := numericValue(attr, p); ok {
				result[key] = Average(attr, members)
				break
			}
		}
	}
	return result
}

// CountBy counts phones per value of a text attribute, skipping missing values.
func CountBy(attr string, phones []models.Phone) map[string]int {
	counts := make(map[string]int)
	for _, p := range phones {
		if key, ok := textValue(attr, p); ok {
			counts[key]++
		}
	}
	return counts
}

// Filter returns the phones for which keep reports true, in their original order.
func Filter(phones []models.Phone, keep func(models.Phone) bool) []models.Phone {
	var out []models.Phone
	for _, p := range phones {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// HeaviestManufacturer returns the manufacturer with the highest average body
// weight. Ties go to the alphabetically first name; ok is false without data.
func HeaviestManufacturer(phones []models.Phone) (name string, grams float64, ok bool) {
	for oem, avg := range AverageBy(AttrManufacturer, AttrBodyWeightGrams, phones) {
		if !ok || avg > grams || (avg == grams && oem < name) {
			name, grams, ok = oem, avg, true
		}
	}
	return name, grams, ok
}

// ReleasedYear extracts the year from an "Available. Released YYYY" status.
func ReleasedYear(p models.Phone) (int, bool) {
	if p.AvailabilityStatus == nil {
		return 0, false
	}
	m := releasedRegexp.FindStringSubmatch(*p.AvailabilityStatus)
	if len(m) < 2 {
		return 0, false
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return year, true
}

// AnnouncedReleasedMismatch returns the phones released in a different year
// from the one they were announced in.
func AnnouncedReleasedMismatch(phones []models.Phone) []models.Phone {
	return Filter(phones, func(p models.Phone) bool {
		released, ok := ReleasedYear(p)
		return ok && p.AnnouncedYear != nil && *p.AnnouncedYear != released
	})
}

// BusiestLaunchYear returns the announcement year strictly after the cutoff
// with the most phones. Ties go to the earlier year.
func BusiestLaunchYear(phones []models.Phone, after int) (year, count int) {
	perYear := make(map[int]int)
	for _, p := range phones {
		if p.AnnouncedYear != nil && *p.AnnouncedYear > after {
			perYear[*p.AnnouncedYear]++
		}
	}
	for y, n := range perYear {
		if n > count || (n == count && y < year) {
			year, count = y, n
		}
	}
	return year, count
}

type InsightService struct {
	logger *utils.Logger
	cutoff int
}

// NewInsightService creates an InsightService; launch years at or before
// cutoff are ignored when looking for the busiest year.
func NewInsightService(logger *utils.Logger, cutoff int) *InsightService {
	return &InsightService{logger: logger, cutoff: cutoff}
}

func (s *InsightService) Generate(phones []models.Phone) *models.InsightReport {
	report := &models.InsightReport{
		PhonesByManufacturer: make(map[string]int),
		PhonesByPlatform:     make(map[string]int),
		ReleaseCutoffYear:    s.cutoff,
	}

	if len(phones) == 0 {
		return report
	}

	report.TotalPhones = len(phones)
	report.AverageWeightGrams = round2(Average(AttrBodyWeightGrams, phones))
	report.AverageDisplayInches = round2(Average(AttrDisplaySizeInches, phones))
	report.AverageAnnouncedYear = round2(Average(AttrAnnouncedYear, phones))

	if name, grams, ok := HeaviestManufacturer(phones); ok {
		report.HeaviestManufacturer = name
		report.HeaviestAverageGrams = round2(grams)
	}

	report.PhonesByManufacturer = CountBy(AttrManufacturer, phones)
	report.PhonesByPlatform = CountBy(AttrPlatformOS, phones)
	report.ReleaseMismatches = AnnouncedReleasedMismatch(phones)
	report.BusiestLaunchYear, report.BusiestLaunchCount = BusiestLaunchYear(phones, s.cutoff)

	s.logger.Debug("[insights] %d phones, %d manufacturers, %d release mismatches",
		report.TotalPhones, len(report.PhonesByManufacturer), len(report.ReleaseMismatches))
	return report
}

func (s *InsightService) Print(r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📱 PHONE SPEC INSIGHTS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total phones           : \033[1m%d\033[0m\n", r.TotalPhones)
	fmt.Printf("  Manufacturers          : \033[1m%d\033[0m\n", len(r.PhonesByManufacturer))
	fmt.Println()

	fmt.Printf("\033[1;33m  Averages\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Body weight    : \033[1;32m%.2f g\033[0m\n", r.AverageWeightGrams)
	fmt.Printf("  Display size   : \033[1;32m%.2f in\033[0m\n", r.AverageDisplayInches)
	fmt.Printf("  Announced year : \033[1;32m%.2f\033[0m\n", r.AverageAnnouncedYear)
	fmt.Println()

	if r.HeaviestManufacturer != "" {
		fmt.Printf("\033[1;33m  Heaviest Manufacturer (average weight)\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  %s : \033[1;31m%.2f g\033[0m\n", truncate(r.HeaviestManufacturer, 40), r.HeaviestAverageGrams)
		fmt.Println()
	}

	fmt.Printf("\033[1;33m  Announced and Released in Different Years\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.ReleaseMismatches) == 0 {
		fmt.Printf("  None found\n")
	} else {
		for _, p := range r.ReleaseMismatches {
			released, _ := ReleasedYear(p)
			name := truncate(orDash(p.Manufacturer)+" "+orDash(p.Model), 38)
			fmt.Printf("  %-40s %d → %d\n", name, *p.AnnouncedYear, released)
		}
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Busiest Launch Year (after %d)\033[0m\n", r.ReleaseCutoffYear)
	fmt.Printf("  %s\n", thin)
	if r.BusiestLaunchCount == 0 {
		fmt.Printf("  No launch data\n")
	} else {
		fmt.Printf("  %d with \033[1m%d\033[0m phones announced\n", r.BusiestLaunchYear, r.BusiestLaunchCount)
	}
	fmt.Println()

	printCounts("Phones by Manufacturer", r.PhonesByManufacturer, thin)
	printCounts("Phones by Platform", r.PhonesByPlatform, thin)

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func printCounts(title string, counts map[string]int, thin string) {
	fmt.Printf("\033[1;33m  %s\033[0m\n", title)
	fmt.Printf("  %s\n", thin)
	if len(counts) == 0 {
		fmt.Printf("  No data\n")
		fmt.Println()
		return
	}

	type keyCount struct {
		key   string
		count int
	}
	var rows []keyCount
	for k, n := range counts {
		rows = append(rows, keyCount{k, n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].key < rows[j].key
	})
	if len(rows) > 10 {
		rows = rows[:10]
	}
	for _, kc := range rows {
		fmt.Printf("  %-30s %s (%d)\n", truncate(kc.key, 28), strings.Repeat("█", min(kc.count, 20)), kc.count)
	}
	fmt.Println()
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

// truncate shortens s to at most limit runes, marking the cut with "...".
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
