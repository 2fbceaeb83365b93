package contextgen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/harrison/ctxgen/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// InstructionsHeader opens the custom instructions block of a context.
const InstructionsHeader = "Custom Instructions for LLM"

const instructionsSeparator = "\n\n---\n\n"

// Render produces the copy-ready context text: the custom instructions block
// (when instructions are not blank) followed by one fenced block per entry.
//
//	Custom Instructions for LLM
//	User Instructions: <instructions>
//
//	---
//
//	File: src/main.go
//	```
//	package main
//	```
func Render(instructions string, entries []models.ContextEntry) string {
	var b strings.Builder

	instructions = strings.TrimSpace(instructions)
	if instructions != "" {
		b.WriteString(InstructionsHeader)
		b.WriteString("\n")
		b.WriteString("User Instructions: ")
		b.WriteString(instructions)
		if len(entries) > 0 {
			b.WriteString(instructionsSeparator)
		}
	}

	for i, entry := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		fence := fenceFor(entry.Content)
		fmt.Fprintf(&b, "File: %s\n%s\n%s\n%s\n", entry.Path, fence, entry.Content, fence)
	}

	return strings.TrimSpace(b.String())
}

// fenceFor returns a backtick fence longer than any backtick run inside
// content, so embedded code fences cannot close the block early.
func fenceFor(content string) string {
	longest, run := 0, 0
	for _, r := range content {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderHTML converts rendered context text into HTML for previews. File
// contents sit in fenced blocks, so they come out as escaped <pre><code>.
func RenderHTML(text string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("render preview: %w", err)
	}
	return buf.String(), nil
}
