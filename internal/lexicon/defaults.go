package lexicon

// Keyword groups. The group name doubles as the candidate category;
// materials carry no category of their own.
const (
	CategoryTops        = "tops"
	CategoryBottoms     = "bottoms"
	CategoryDresses     = "dresses"
	CategoryOuterwear   = "outerwear"
	CategoryFootwear    = "footwear"
	CategoryAccessories = "accessories"
	CategoryUnderwear   = "underwear"
	CategorySwimwear    = "swimwear"
	GroupMaterials      = "materials"
)

// DefaultData returns the built-in lexicon.
func DefaultData() Data {
	return Data{
		Keywords: map[string][]string{
			CategoryTops: {
				"shirt", "t-shirt", "tee", "blouse", "sweater", "hoodie", "sweatshirt",
				"cardigan", "polo", "tank top", "crop top", "tube top", "camisole",
				"pullover", "jersey", "turtleneck", "henley", "tunic",
			},
			CategoryBottoms: {
				"pants", "trousers", "jeans", "shorts", "skirt", "leggings", "joggers",
				"chinos", "sweatpants", "culottes", "cargo",
			},
			CategoryDresses: {
				"dress", "gown", "jumpsuit", "romper", "overalls",
			},
			CategoryOuterwear: {
				"jacket", "coat", "blazer", "parka", "vest", "windbreaker", "anorak",
				"puffer", "gilet", "poncho",
			},
			CategoryFootwear: {
				"shoe", "sneaker", "boot", "sandal", "loafer", "heel", "slipper",
				"trainer", "clog", "espadrille", "moccasin", "flip flop", "slide",
			},
			CategoryAccessories: {
				"beanie", "baseball cap", "bucket hat", "sun hat", "fedora", "scarf",
				"glove", "mitten", "belt", "necktie", "bow tie", "socks", "handbag",
				"tote", "backpack", "sunglasses", "bandana",
			},
			CategoryUnderwear: {
				"underwear", "bralette", "sports bra", "boxer", "lingerie", "pajama",
				"pyjama", "bathrobe", "nightgown", "thong", "undershirt",
			},
			CategorySwimwear: {
				"swimsuit", "bikini", "swim trunks", "boardshorts", "rash guard",
			},
			GroupMaterials: {
				"denim", "cotton", "linen", "wool", "cashmere", "silk", "leather",
				"fleece", "knit", "merino", "corduroy", "suede", "satin", "apparel",
				"tracksuit",
			},
		},
		Brands: []string{
			"Nike", "Adidas", "Zara", "H&M", "Uniqlo", "Levi's", "Gap", "Puma",
			"Reebok", "Under Armour", "Lululemon", "Patagonia", "The North Face",
			"Columbia", "Gucci", "Prada", "ASOS", "Mango", "Old Navy",
			"Banana Republic", "J.Crew", "Everlane", "Abercrombie & Fitch",
			"American Eagle", "Hollister", "Converse", "Vans", "New Balance",
			"Ralph Lauren", "Tommy Hilfiger", "Calvin Klein", "Carhartt", "Champion",
			"Shein", "Madewell", "Aritzia", "Allbirds", "Birkenstock", "Dr. Martens",
			"Timberland", "Skechers", "Massimo Dutti", "Bershka", "Pull&Bear",
		},
		Blacklist: []string{
			// layout and marketing noise
			"subtotal", "total", "unsubscribe", "% off", "shipping", "tax",
			"discount", "promo", "coupon", "gift card", "view in browser",
			"view online", "privacy", "terms of", "customer service", "contact us",
			"track your", "track package", "order status", "return", "refund",
			"download", "app store", "google play", "sign in", "my account",
			"rewards", "membership", "survey", "write a review", "feedback",
			"refer a friend", "follow us", "address", "guarantee", "newsletter",
			// clothing homonyms
			"pillowcase", "pillow case", "phone case", "iphone case", "laptop",
			"charger", "cable", "dog coat", "dog sweater", "duvet",
			"bedsheet", "curtain", "doormat", "shoe rack", "shoe polish",
		},
		ImageBlocklist: []string{
			"logo", "icon", "/nav/", "nav_", "navigation", "tracking", "pixel",
			"spacer", "beacon", "banner", "social", "facebook", "twitter",
			"instagram", "pinterest", "youtube", "tiktok", "header", "footer",
			"badge", "button", "btn_", "arrow", "divider", "transparent",
			"blank.gif", "clear.gif", "1x1", "open.gif", "sprite", "rating",
			"appstore", "googleplay", "email-open",
		},
	}
}
