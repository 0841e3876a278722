package gemini

import (
	"context"
	"encoding/base64"
)

const visionPrompt = "Describe this cloud architecture diagram. List the components, how they connect, " +
	"and any that look redundant, oversized or unused. Answer in under 150 words."

// AnalyzeImage describes an architecture image. Failures return
// VisionUnavailable.
func (c *Client) AnalyzeImage(ctx context.Context, image []byte, mimeType string) string {
	if len(image) == 0 {
		return VisionUnavailable
	}
	if mimeType == "" {
		mimeType = "image/png"
	}

	resp, err := c.generate(ctx, generateRequest{Contents: []content{{
		Role: "user",
		Parts: []part{
			{InlineData: &inlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(image)}},
			{Text: visionPrompt},
		},
	}}})
	if err != nil {
		c.logger.Warn().Err(err).Msg("image analysis failed")
		return VisionUnavailable
	}
	if text := resp.text(); text != "" {
		return text
	}
	return VisionUnavailable
}
