package view

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// AddonStyle selects how selected addons render in the service column.
type AddonStyle string

const (
	// AddonStyleFull joins every addon name: "Wax, Polish".
	AddonStyleFull AddonStyle = "full"
	// AddonStyleCount renders a count only: "+2 addons".
	AddonStyleCount AddonStyle = "count"
)

// Config fixes the locale/currency pairing and the addon rendering style for
// one dashboard deployment. The two historical dashboard variants disagreed on
// these (GBP/en-GB + full names vs USD/en-US + counts); both are reachable
// through configuration, with the richer pairing as the default.
type Config struct {
	Locale     language.Tag
	Currency   currency.Unit
	AddonStyle AddonStyle

	dateLayout string
}

func DefaultConfig() Config {
	cfg, _ := NewConfig("en-GB", "GBP", string(AddonStyleFull))
	return cfg
}

func NewConfig(locale, currencyCode, addonStyle string) (Config, error) {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return Config{}, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(strings.TrimSpace(currencyCode))
	if err != nil {
		return Config{}, fmt.Errorf("invalid currency %q: %w", currencyCode, err)
	}

	style := AddonStyle(strings.ToLower(strings.TrimSpace(addonStyle)))
	switch style {
	case "":
		style = AddonStyleFull
	case AddonStyleFull, AddonStyleCount:
	default:
		return Config{}, fmt.Errorf("invalid addon style %q", addonStyle)
	}

	return Config{
		Locale:     tag,
		Currency:   unit,
		AddonStyle: style,
		dateLayout: dateLayoutFor(tag),
	}, nil
}

func dateLayoutFor(tag language.Tag) string {
	base, _ := tag.Base()
	region, _ := tag.Region()
	if base.String() == "en" && region.String() == "US" {
		return "1/2/2006"
	}
	return "02/01/2006"
}
