package markdownparser

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// parseFrontMatter extracts YAML front matter from markdown content
func parseFrontMatter(content string) (map[string]any, string, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	// Check if content starts with front matter delimiter
	if !strings.HasPrefix(content, "---\n") {
		return make(map[string]any), content, nil
	}

	// Find the closing delimiter
	endIndex := strings.Index(content[4:], "\n---")
	if endIndex == -1 {
		return nil, "", ErrInvalidFrontMatter
	}

	endIndex += 4 // Adjust for the initial slice

	frontMatterContent := content[4:endIndex]
	remainingContent := content[endIndex+4:]

	var frontMatter map[string]any

	err := yaml.Unmarshal([]byte(frontMatterContent), &frontMatter)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidFrontMatter, err)
	}

	if frontMatter == nil {
		frontMatter = make(map[string]any)
	}

	return frontMatter, remainingContent, nil
}

// frontMatterLines is how many lines the front matter removed from the top
func frontMatterLines(original, remaining string) int {
	original = strings.ReplaceAll(original, "\r\n", "\n")
	return strings.Count(original[:len(original)-len(remaining)], "\n")
}
