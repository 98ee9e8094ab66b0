package generator

// StyleVariation はサムネイル 1 枚分の画風指定です。
type StyleVariation struct {
	Label     string `json:"label"`
	Directive string `json:"directive"`
}

// スタイルカタログ。並び順がそのまま生成結果の並び順になる。
var styleCatalog = [...]StyleVariation{
	{"cinematic", "hyper-realistic, dramatic lighting, high contrast, cinematic"},
	{"minimalist", "minimalist, clean background, focus on subject, modern font"},
	{"energetic", "energetic, explosive background, dynamic pose, bright popping colors"},
	{"corporate", "professional, corporate style, subtle background graphics, clear typography"},
	{"vintage", "vintage, retro filter, old-school font, grainy texture"},
	{"tech", "tech-focused, futuristic HUD elements, neon glow, dark background"},
	{"cartoon", "hand-drawn, cartoonish style, bold outlines, playful"},
	{"clickbait", "shocked expression, clickbait style, large arrows and circles, bold text"},
	{"luxury", "luxurious, elegant theme, gold and black color palette, sophisticated font"},
}

// DefaultVariations はスタイルカタログのコピーを返します。
func DefaultVariations() []StyleVariation {
	out := make([]StyleVariation, len(styleCatalog))
	copy(out, styleCatalog[:])
	return out
}
