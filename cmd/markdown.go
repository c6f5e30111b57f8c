package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// printMarkdown prints md to stdout, rendered for the terminal when possible.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		// raw markdown is still readable
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// toHTML converts md into an HTML fragment. Tables are supported.
func toHTML(md string) ([]byte, error) {
	var buf bytes.Buffer
	converter := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := converter.Convert([]byte(md), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeHTML writes md as an HTML file.
func writeHTML(path, md string) error {
	body, err := toHTML(md)
	if err != nil {
		return fmt.Errorf("converting report to html: %w", err)
	}
	return os.WriteFile(path, body, 0o644)
}
