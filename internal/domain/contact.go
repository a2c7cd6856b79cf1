package domain

// Contact represents a message submitted through the public contact form.
// Submissions are write-once: they are created by visitors, then read and
// eventually deleted by admins. There is no update path.
type Contact struct {
	Document
	Name    string `json:"name"`
	Email   string `json:"email"` // stored lowercased
	Mobile  string `json:"mobile,omitempty"`
	Message string `json:"message"`
}
