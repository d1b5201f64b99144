package domain

// Category classifies a grievance and determines its default SLA window.
type Category string

const (
	CategorySanitation      Category = "sanitation"
	CategoryElectricity     Category = "electricity"
	CategoryWaterSupply     Category = "water_supply"
	CategoryRoads           Category = "roads"
	CategoryPublicTransport Category = "public_transport"
	CategoryHealthcare      Category = "healthcare"
	CategoryEducation       Category = "education"
	CategoryOther           Category = "other"
)

// CategoryInfo holds the static configuration for one grievance category.
type CategoryInfo struct {
	Label    string
	SLAHours int
}

// categoryCatalog is the fixed category table. SLA hours are the maximum
// allotted resolution window per category.
var categoryCatalog = map[Category]CategoryInfo{
	CategorySanitation:      {Label: "Sanitation & Waste Management", SLAHours: 24},
	CategoryElectricity:     {Label: "Electricity & Power", SLAHours: 12},
	CategoryWaterSupply:     {Label: "Water Supply", SLAHours: 8},
	CategoryRoads:           {Label: "Roads & Infrastructure", SLAHours: 48},
	CategoryPublicTransport: {Label: "Public Transportation", SLAHours: 24},
	CategoryHealthcare:      {Label: "Healthcare Services", SLAHours: 6},
	CategoryEducation:       {Label: "Education", SLAHours: 72},
	CategoryOther:           {Label: "Other Issues", SLAHours: 48},
}

// CategorySLAHours returns the default SLA window in hours for a category,
// or ErrUnknownCategory when the category is not in the catalog.
func CategorySLAHours(c Category) (int, error) {
	info, ok := categoryCatalog[c]
	if !ok {
		return 0, ErrUnknownCategory
	}
	return info.SLAHours, nil
}

// CategoryLabel returns the human-readable label for a category.
// Unknown categories fall back to the raw value.
func CategoryLabel(c Category) string {
	if info, ok := categoryCatalog[c]; ok {
		return info.Label
	}
	return string(c)
}
