package generator

import (
	"strings"
	"text/template"
)

// promptData は指示文テンプレートに渡すデータです。
type promptData struct {
	Topic       string
	Directive   string
	AspectRatio string
}

var promptTemplate = template.Must(template.New("thumbnail").Parse(`You are an expert YouTube thumbnail designer. Create one viral, click-worthy thumbnail in a {{.AspectRatio}} aspect ratio.

Video topic: "{{.Topic}}"

Instructions:
- Main subject: the person in the attached headshot image is the central focus. Cut them out of their original background.
- Background: generate a new, uncluttered background that fits the video topic.
- Text: add the topic or a short catchy phrase as bold, high-contrast text in a thick sans-serif font.
- Composition: strong colors, a clear subject, minimal clutter and an emotionally engaging expression (excitement, shock, curiosity).
- Style for this variation: {{.Directive}}.
- Inspiration: if a style inspiration image is attached after these instructions, borrow its color palette, text style and overall mood.

Output only the image. Do not reply with text, markdown or commentary.`))

// BuildPrompt はトピック・アスペクト比・スタイル指定から指示文を組み立てます。
// aspectRatio が空の場合は DefaultAspectRatio を使います。
func BuildPrompt(topic, aspectRatio string, v StyleVariation) string {
	if aspectRatio == "" {
		aspectRatio = DefaultAspectRatio
	}
	var sb strings.Builder
	// テンプレートは固定でフィールドも文字列のみのため、実行エラーは起きない。
	_ = promptTemplate.Execute(&sb, promptData{Topic: topic, Directive: v.Directive, AspectRatio: aspectRatio})
	return sb.String()
}
