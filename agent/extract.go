package agent

import "strings"

// ExtractText pulls the human-readable text out of a response: the
// newline-joined concatenation of every text value found in document order,
// skipping empty strings. Message items contribute their output_text/text
// blocks; bare text items contribute directly. Returns "" when the response
// carries no text; front ends render a placeholder for that case.
func ExtractText(resp *Response) string {
	if resp == nil {
		return ""
	}
	var chunks []string
	for _, item := range resp.Output {
		switch item.Type {
		case ItemMessage:
			for _, block := range item.Content {
				if block.Type != BlockOutputText && block.Type != BlockText {
					continue
				}
				if s := textOrValue(block.Text, block.Value); s != "" {
					chunks = append(chunks, s)
				}
			}
		case ItemOutputText, ItemText:
			if s := textOrValue(item.Text, item.Value); s != "" {
				chunks = append(chunks, s)
			}
		}
	}
	return strings.Join(chunks, "\n")
}

// textOrValue prefers the text field and falls back to value; the endpoint
// populates one or the other depending on its schema version.
func textOrValue(text, value string) string {
	if text != "" {
		return text
	}
	return value
}
