// Package classifiers holds the static identifier-to-display lookups for
// business types, categories, and social platforms. Lookups never fail:
// unknown identifiers resolve to the table's fallback entry.
package classifiers

// Classifier is the display metadata of an identifier.
type Classifier struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

const (
	genericIcon  = "help-circle-outline"
	neutralColor = "#9E9E9E"
)

// ProfileType identifies the kind of business.
type ProfileType string

const (
	ProfileRestaurant ProfileType = "restaurant"
	ProfileCafe       ProfileType = "cafe"
	ProfileRetail     ProfileType = "retail"
	ProfileSalon      ProfileType = "salon"
	ProfileServices   ProfileType = "services"
	ProfileBakery     ProfileType = "bakery"
	ProfileGrocery    ProfileType = "grocery"
)

// UnknownProfileType is returned for any identifier not in the table.
var UnknownProfileType = Classifier{Name: "Unknown Type", Icon: genericIcon, Color: neutralColor}

var profileTypes = map[ProfileType]Classifier{
	ProfileRestaurant: {Name: "Restaurant", Icon: "silverware-fork-knife", Color: "#E53935"},
	ProfileCafe:       {Name: "Cafe", Icon: "coffee", Color: "#6D4C41"},
	ProfileRetail:     {Name: "Retail Store", Icon: "storefront-outline", Color: "#1E88E5"},
	ProfileSalon:      {Name: "Salon & Beauty", Icon: "content-cut", Color: "#D81B60"},
	ProfileServices:   {Name: "Services", Icon: "briefcase-outline", Color: "#5E35B1"},
	ProfileBakery:     {Name: "Bakery", Icon: "baguette", Color: "#FB8C00"},
	ProfileGrocery:    {Name: "Grocery", Icon: "cart-outline", Color: "#43A047"},
}

// LookupProfileType resolves id, falling back to UnknownProfileType.
func LookupProfileType(id string) Classifier {
	if c, ok := profileTypes[ProfileType(id)]; ok {
		return c
	}
	return UnknownProfileType
}

// Category identifies what a business sells.
type Category string

const (
	CategoryFood        Category = "food"
	CategoryFashion     Category = "fashion"
	CategoryElectronics Category = "electronics"
	CategoryBeauty      Category = "beauty"
	CategoryHome        Category = "home"
	CategoryHealth      Category = "health"
	CategoryCrafts      Category = "crafts"
)

// UnknownCategory is returned for any identifier not in the table.
var UnknownCategory = Classifier{Name: "Uncategorized", Icon: genericIcon, Color: neutralColor}

var categories = map[Category]Classifier{
	CategoryFood:        {Name: "Food & Drink", Icon: "food", Color: "#F4511E"},
	CategoryFashion:     {Name: "Fashion", Icon: "tshirt-crew", Color: "#8E24AA"},
	CategoryElectronics: {Name: "Electronics", Icon: "cellphone", Color: "#3949AB"},
	CategoryBeauty:      {Name: "Beauty", Icon: "lipstick", Color: "#EC407A"},
	CategoryHome:        {Name: "Home & Living", Icon: "sofa", Color: "#00897B"},
	CategoryHealth:      {Name: "Health", Icon: "heart-pulse", Color: "#C62828"},
	CategoryCrafts:      {Name: "Arts & Crafts", Icon: "palette", Color: "#FDD835"},
}

// LookupCategory resolves id, falling back to UnknownCategory.
func LookupCategory(id string) Classifier {
	if c, ok := categories[Category(id)]; ok {
		return c
	}
	return UnknownCategory
}

// Platform identifies a social network.
type Platform string

const (
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformTwitter   Platform = "twitter"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformWhatsApp  Platform = "whatsapp"
)

// UnknownPlatform is returned for any identifier not in the table.
var UnknownPlatform = Classifier{Name: "Link", Icon: "link-variant", Color: neutralColor}

var platforms = map[Platform]Classifier{
	PlatformFacebook:  {Name: "Facebook", Icon: "facebook", Color: "#1877F2"},
	PlatformInstagram: {Name: "Instagram", Icon: "instagram", Color: "#E4405F"},
	PlatformTwitter:   {Name: "X", Icon: "twitter", Color: "#000000"},
	PlatformTikTok:    {Name: "TikTok", Icon: "music-note", Color: "#010101"},
	PlatformYouTube:   {Name: "YouTube", Icon: "youtube", Color: "#FF0000"},
	PlatformLinkedIn:  {Name: "LinkedIn", Icon: "linkedin", Color: "#0A66C2"},
	PlatformWhatsApp:  {Name: "WhatsApp", Icon: "whatsapp", Color: "#25D366"},
}

// LookupPlatform resolves id, falling back to UnknownPlatform.
func LookupPlatform(id string) Classifier {
	if c, ok := platforms[Platform(id)]; ok {
		return c
	}
	return UnknownPlatform
}

// ProfileTypes returns the known profile type ids, for pickers.
func ProfileTypes() []ProfileType {
	return []ProfileType{ProfileRestaurant, ProfileCafe, ProfileRetail, ProfileSalon, ProfileServices, ProfileBakery, ProfileGrocery}
}

// IsKnownPlatform reports whether id has its own table entry.
func IsKnownPlatform(id string) bool {
	_, ok := platforms[Platform(id)]
	return ok
}
