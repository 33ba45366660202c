package simulation

// Enum domains the generators draw from. Downstream consumers treat these as
// opaque labels; only the conditioning rules in this package care about
// specific values.

var Genres = []string{
	"Action", "Drama", "Comedy", "Sci-Fi", "Romance", "Documentary", "Thriller",
	"Horror", "Adventure", "Animation", "Crime", "Fantasy", "Mystery", "Family",
}

var Languages = []string{
	"English", "Spanish", "French", "Japanese", "Korean", "Hindi", "German",
	"Italian", "Mandarin", "Portuguese", "Russian", "Arabic",
}

var Ratings = []string{
	"G", "PG", "PG-13", "R", "TV-MA", "TV-14", "TV-PG", "TV-Y7", "TV-Y",
}

var ContentTags = []string{
	"action", "adventure", "drama", "comedy", "romance", "thriller",
	"mystery", "sci-fi", "fantasy", "documentary", "crime", "family",
	"animation", "horror", "musical", "biography", "sport", "history",
}

var titleNouns = []string{
	"Adventure", "Story", "Tale", "Journey", "Experience", "Mystery", "Chronicles",
}

var Countries = []string{
	"United States", "Canada", "United Kingdom", "France", "Germany", "Japan",
	"South Korea", "Australia", "Brazil", "India", "Mexico", "Spain", "Italy",
	"Netherlands", "Sweden", "Singapore", "UAE", "South Africa", "Argentina", "China",
}

var AgeGroups = []string{
	"13-17", "18-24", "25-34", "35-44", "45-54", "55-64", "65+",
}

var SubscriptionTypes = []string{
	"basic", "standard", "premium", "student", "family",
}

var DeviceTypes = []string{
	"smart_tv", "mobile", "tablet", "gaming_console", "desktop", "streaming_stick",
}

var EventTypes = []string{
	"start", "pause", "resume", "complete", "exit", "seek_forward", "seek_backward",
}

var ConnectionTypes = []string{
	"wifi", "ethernet", "4G", "5G", "3G",
}

var PlaybackQualities = []string{
	"SD", "HD", "FHD", "4K",
}

var AlgorithmTypes = []string{
	"content_based", "collaborative_filtering", "hybrid", "trending", "personalized",
}

var RecommendationCategories = []string{
	"trending", "because_you_watched", "new_releases", "top_picks", "similar_content",
}

// countryLanguages maps a country to its base streaming languages. Users of
// countries not listed here default to English.
var countryLanguages = map[string][]string{
	"United States": {"English", "Spanish"},
	"Canada":        {"English", "French"},
	"France":        {"French", "English"},
	"Germany":       {"German", "English"},
	"Japan":         {"Japanese", "English"},
	"South Korea":   {"Korean", "English"},
	"Brazil":        {"Portuguese", "English", "Spanish"},
	"India":         {"Hindi", "English"},
	"China":         {"Mandarin", "English"},
}

// BaseLanguagesFor returns the base language set of a country, defaulting to
// English for countries without an explicit entry.
func BaseLanguagesFor(country string) []string {
	if langs, ok := countryLanguages[country]; ok {
		return langs
	}
	return []string{"English"}
}

// baseSubscriptionWeights is the unconditioned subscription tier
// distribution. Age-conditioned adjustments are applied on a copy.
var baseSubscriptionWeights = map[string]float64{
	"basic":    0.30,
	"standard": 0.40,
	"premium":  0.20,
	"student":  0.05,
	"family":   0.05,
}
