package domain

// EditorKind identifies which editor produced a page's content, which in turn
// decides how the content gets processed before rendering.
type EditorKind string

const (
	// EditorRichText marks content authored as HTML in the rich text editor.
	EditorRichText EditorKind = "richtext"
	// EditorMarkdown marks content authored directly as markdown.
	EditorMarkdown EditorKind = "markdown"
)

// MediaRef points at an uploaded asset attached to a page.
type MediaRef struct {
	URL  string `json:"url"`
	Kind string `json:"kind,omitempty"` // image, video, audio, document
}

// SEO carries the page's search and social metadata.
type SEO struct {
	MetaTitle       string `json:"metaTitle,omitempty"`
	MetaDescription string `json:"metaDescription,omitempty"`
	OGImage         string `json:"ogImage,omitempty"`
}

// Page represents an editorial content page on the site.
// The Slug is derived from the title at creation time, normalized, and unique
// across all pages; it is the public lookup key.
type Page struct {
	Document
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	Content     string     `json:"content,omitempty"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Editor      EditorKind `json:"editor,omitempty"`
	Category    string     `json:"category,omitempty"`
	CreatedBy   string     `json:"createdBy,omitempty"`
	Visibility  Visibility `json:"visibility,omitempty"`
	Media       []MediaRef `json:"media,omitempty"`
	Groups      []string   `json:"groups,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	SEO         SEO        `json:"seo,omitzero"`
}

// MaxPageGroups caps how many groups a page can belong to.
const MaxPageGroups = 10

// MaxTags caps how many tags a page or playlist can carry.
const MaxTags = 20
