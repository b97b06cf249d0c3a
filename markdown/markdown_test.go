package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestRenderMarkdownCodeBlock(t *testing.T) {
	input := "```\ncode here\n```"
	var buf bytes.Buffer
	RenderMarkdown(&buf, input)
	got := buf.String()
	if !strings.Contains(got, "<pre>") || !strings.Contains(got, "<code>") {
		t.Errorf("RenderMarkdown code block failed: %q", got)
	}
	if !strings.Contains(got, "code here") {
		t.Errorf("RenderMarkdown code block missing content: %q", got)
	}
}

func TestRenderMarkdownCodeBlockWithLanguage(t *testing.T) {
	got := HTML("```go\nfmt.Println(\"hello\")\n```")
	if !strings.Contains(got, `class="language-go"`) {
		t.Errorf("code block should keep language-go class: %q", got)
	}
}

func TestRenderMarkdownHeadings(t *testing.T) {
	tests := []struct {
		input string
		open  string
		text  string
	}{
		{"# Heading 1", "<h1", "Heading 1</h1>"},
		{"## Heading 2", "<h2", "Heading 2</h2>"},
		{"### Heading 3", "<h3", "Heading 3</h3>"},
	}
	for _, tt := range tests {
		got := HTML(tt.input)
		if !strings.HasPrefix(got, tt.open) || !strings.Contains(got, tt.text) {
			t.Errorf("HTML(%q) = %q, want %s...%s", tt.input, got, tt.open, tt.text)
		}
	}
}

func TestRenderMarkdownInline(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"text `code` more", "<code>code</code>"},
		{"**bold *italic* text**", "<strong>bold <em>italic</em> text</strong>"},
	}
	for _, tt := range tests {
		got := HTML(tt.input)
		if !strings.Contains(got, tt.expected) {
			t.Errorf("HTML(%q) = %q, want it to contain %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderMarkdownLists(t *testing.T) {
	got := HTML("- one\n- two\n")
	if !strings.Contains(got, "<ul>") || strings.Count(got, "<li>") != 2 {
		t.Errorf("unordered list failed: %q", got)
	}
	got = HTML("1. one\n2. two\n\nAfter.")
	if !strings.Contains(got, "<ol>") || !strings.Contains(got, "<p>After.</p>") {
		t.Errorf("ordered list followed by paragraph failed: %q", got)
	}
}

func TestRenderMarkdownTable(t *testing.T) {
	got := HTML("| a | b |\n|---|---|\n| 1 | 2 |\n")
	if !strings.Contains(got, "<table>") || !strings.Contains(got, "<td>1</td>") {
		t.Errorf("table failed: %q", got)
	}
}

func TestRenderMarkdownExternalLinkOpensNewTab(t *testing.T) {
	got := HTML("[site](https://example.com/a_b_c)")
	if !strings.Contains(got, `href="https://example.com/a_b_c"`) {
		t.Errorf("link href mangled: %q", got)
	}
	if !strings.Contains(got, `target="_blank"`) {
		t.Errorf("external link should open in a new tab: %q", got)
	}
}

func TestRenderMarkdownStripsScripts(t *testing.T) {
	got := HTML("hello\n\n<script>alert(1)</script>\n\n<p onclick=\"x()\">para</p>")
	if strings.Contains(got, "<script") || strings.Contains(got, "alert(1)") {
		t.Errorf("script survived sanitizing: %q", got)
	}
	if strings.Contains(got, "onclick") {
		t.Errorf("event handler survived sanitizing: %q", got)
	}
}

func TestRenderMarkdownDropsJavascriptLinks(t *testing.T) {
	got := HTML("[x](javascript:alert)")
	if strings.Contains(got, "javascript:") {
		t.Errorf("javascript link survived: %q", got)
	}
}

func TestMarkdownComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Markdown("# Title\n\nBody").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "<p>Body</p>") {
		t.Errorf("component output = %q", buf.String())
	}
}

func TestReadTime(t *testing.T) {
	tests := []struct {
		name  string
		words int
		want  int
	}{
		{"empty", 0, 1},
		{"short", 10, 1},
		{"exact", 225, 1},
		{"one over", 226, 2},
		{"long", 1000, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := strings.TrimSpace(strings.Repeat("word ", tt.words))
			if got := ReadTime(md); got != tt.want {
				t.Errorf("ReadTime(%d words) = %d, want %d", tt.words, got, tt.want)
			}
		})
	}
}

func TestReadTimeIgnoresMarkup(t *testing.T) {
	md := strings.Repeat("**word** <span>word</span> ", 113)
	if got := ReadTime(md); got != 2 {
		t.Errorf("ReadTime = %d, want 2", got)
	}
}

func TestPlainText(t *testing.T) {
	got := PlainText("<p>Hello <strong>big</strong></p><p>world</p>")
	if got != "Hello big world" {
		t.Errorf("PlainText = %q", got)
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/blog/post/", "/blog/post/"},
		{"#top", "#top"},
		{" https://example.com ", "https://example.com"},
		{"mailto:me@example.com", "mailto:me@example.com"},
		{"javascript:alert(1)", ""},
		{"data:text/html,hi", ""},
		{"relative/path", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.input); got != tt.expected {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
