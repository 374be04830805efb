package utils

import "strings"

// MapCategoryToName maps category codes to their display names.
// Input is normalized to lowercase before mapping.
func MapCategoryToName(cat string) string {
	catLower := strings.ToLower(strings.TrimSpace(cat))

	categoryMap := map[string]string{
		"pumps":        "Industrial Pumps",
		"valves":       "Valves & Fittings",
		"motors":       "Electric Motors",
		"compressors":  "Air Compressors",
		"bearings":     "Bearings",
		"fasteners":    "Fasteners",
		"hand-tools":   "Hand Tools",
		"power-tools":  "Power Tools",
		"safety":       "Safety Equipment",
		"electricals":  "Electrical Components",
		"hydraulics":   "Hydraulics",
		"pneumatics":   "Pneumatics",
		"packaging":    "Packaging Machinery",
		"spares":       "Machine Spares",
		"raw-material": "Raw Materials",
	}

	if name, exists := categoryMap[catLower]; exists {
		return name
	}

	// If not found, return a title-cased version of the code
	return CapitalizeWords(strings.ReplaceAll(catLower, "-", " "))
}

// MapSubcategoryToName maps subcategory codes to their display names.
// Falls back to a title-cased version of the code.
func MapSubcategoryToName(sub string) string {
	subLower := strings.ToLower(strings.TrimSpace(sub))

	subcategoryMap := map[string]string{
		"centrifugal":   "Centrifugal",
		"submersible":   "Submersible",
		"gear":          "Gear Type",
		"ball-valve":    "Ball Valves",
		"gate-valve":    "Gate Valves",
		"check-valve":   "Check Valves",
		"single-phase":  "Single Phase",
		"three-phase":   "Three Phase",
		"reciprocating": "Reciprocating",
		"rotary-screw":  "Rotary Screw",
	}

	if name, exists := subcategoryMap[subLower]; exists {
		return name
	}

	return CapitalizeWords(strings.ReplaceAll(subLower, "-", " "))
}

// CapitalizeWords capitalizes the first letter of each word
func CapitalizeWords(s string) string {
	if s == "" {
		return s
	}
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(string(word[0])) + strings.ToLower(word[1:])
		}
	}
	return strings.Join(words, " ")
}
