package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/shopops/opsdash/backend-go/internal/domain"
)

// ReplenishSettings is the operator-editable replenishment configuration:
// buffers, ordering cadence, delivery windows, box sizing, and vendor
// deadlines. It lives in a YAML file so the heuristics stay editable without
// code changes.
type ReplenishSettings struct {
	OrderFrequencyWeeks float64
	AnalysisDays        int
	GeneralBufferPct    float64
	DeliveryBufferPct   float64
	DefaultBoxSize      int
	BoxSizeKeywords     map[string]int
	DeliveryWindows     []domain.DeliveryWindow
	VendorDeadlines     []domain.VendorDeadline
}

type rawSettings struct {
	OrderFrequencyWeeks float64        `mapstructure:"order_frequency_weeks"`
	AnalysisDays        int            `mapstructure:"analysis_days"`
	GeneralBufferPct    float64        `mapstructure:"general_buffer_pct"`
	DeliveryBufferPct   float64        `mapstructure:"delivery_buffer_pct"`
	DefaultBoxSize      int            `mapstructure:"default_box_size"`
	BoxSizeKeywords     map[string]int `mapstructure:"box_size_keywords"`
	DeliveryWindows     []rawWindow    `mapstructure:"delivery_windows"`
	VendorDeadlines     []rawDeadline  `mapstructure:"vendor_deadlines"`
}

type rawWindow struct {
	Name         string   `mapstructure:"name"`
	OrderDay     string   `mapstructure:"order_day"`
	DeliveryDay  string   `mapstructure:"delivery_day"`
	CoverageDays []string `mapstructure:"coverage_days"`
}

type rawDeadline struct {
	Vendor      string `mapstructure:"vendor"`
	OrderDay    string `mapstructure:"order_day"`
	Deadline    string `mapstructure:"deadline"`
	DeliveryDay string `mapstructure:"delivery_day"`
}

// LoadSettings reads the replenishment settings YAML from path.
func LoadSettings(path string) (*ReplenishSettings, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("order_frequency_weeks", 1.0)
	v.SetDefault("analysis_days", 28)
	v.SetDefault("general_buffer_pct", 0.0)
	v.SetDefault("delivery_buffer_pct", 0.0)
	v.SetDefault("default_box_size", 1)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read settings file %s: %w", path, err)
	}

	var raw rawSettings
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("parse settings file %s: %w", path, err)
	}

	settings := &ReplenishSettings{
		OrderFrequencyWeeks: raw.OrderFrequencyWeeks,
		AnalysisDays:        raw.AnalysisDays,
		GeneralBufferPct:    raw.GeneralBufferPct,
		DeliveryBufferPct:   raw.DeliveryBufferPct,
		DefaultBoxSize:      raw.DefaultBoxSize,
		BoxSizeKeywords:     raw.BoxSizeKeywords,
	}

	for _, w := range raw.DeliveryWindows {
		window, err := w.toDomain()
		if err != nil {
			return nil, fmt.Errorf("delivery window %q: %w", w.Name, err)
		}
		settings.DeliveryWindows = append(settings.DeliveryWindows, window)
	}

	for _, d := range raw.VendorDeadlines {
		deadline, err := d.toDomain()
		if err != nil {
			return nil, fmt.Errorf("vendor deadline %q: %w", d.Vendor, err)
		}
		settings.VendorDeadlines = append(settings.VendorDeadlines, deadline)
	}

	return settings, nil
}

func (w rawWindow) toDomain() (domain.DeliveryWindow, error) {
	orderDay, err := parseWeekday(w.OrderDay)
	if err != nil {
		return domain.DeliveryWindow{}, err
	}

	deliveryDay, err := parseWeekday(w.DeliveryDay)
	if err != nil {
		return domain.DeliveryWindow{}, err
	}

	window := domain.DeliveryWindow{
		Name:        w.Name,
		OrderDay:    orderDay,
		DeliveryDay: deliveryDay,
	}

	for _, day := range w.CoverageDays {
		parsed, err := parseWeekday(day)
		if err != nil {
			return domain.DeliveryWindow{}, err
		}
		window.CoverageDays = append(window.CoverageDays, parsed)
	}

	return window, nil
}

func (d rawDeadline) toDomain() (domain.VendorDeadline, error) {
	orderDay, err := parseWeekday(d.OrderDay)
	if err != nil {
		return domain.VendorDeadline{}, err
	}

	deadline := domain.VendorDeadline{
		VendorName: d.Vendor,
		OrderDay:   orderDay,
		Deadline:   d.Deadline,
	}

	if d.DeliveryDay != "" {
		deliveryDay, err := parseWeekday(d.DeliveryDay)
		if err != nil {
			return domain.VendorDeadline{}, err
		}
		deadline.DeliveryDay = &deliveryDay
	}

	return deadline, nil
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseWeekday(s string) (time.Weekday, error) {
	if day, ok := weekdays[strings.ToLower(strings.TrimSpace(s))]; ok {
		return day, nil
	}

	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}
