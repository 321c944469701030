package model

// Share is a grant of one permission level on one document to one user.
// At most one active share exists per (document, grantee) pair; re-granting
// revokes the previous share and writes a new one.
type Share struct {
	ID         string          `json:"id"`
	DocumentID string          `json:"document_id"`
	GranteeID  string          `json:"grantee_id"`
	GrantedBy  string          `json:"granted_by"`
	Permission PermissionLevel `json:"permission"`
	ExpireAt   int64           `json:"expire_at,omitempty"`
	State      int             `json:"-"`
	Ctime      int64           `json:"ctime"`
	Mtime      int64           `json:"mtime"`
}

// ShareWithGrantee embeds the grantee identity for the current-access view.
type ShareWithGrantee struct {
	Share
	Grantee UserSummary `json:"grantee"`
}

// ShareLink grants access to anyone holding the token URL, optionally
// password- and time-limited. One active link per document; regeneration
// supersedes the previous link.
type ShareLink struct {
	ID              string          `json:"id"`
	DocumentID      string          `json:"document_id"`
	CreatedBy       string          `json:"created_by"`
	Token           string          `json:"token"`
	Permission      PermissionLevel `json:"permission"`
	AllowDownload   bool            `json:"allow_download"`
	PasswordHash    string          `json:"-"`
	BlockchainAudit bool            `json:"blockchain_audit"`
	ExpireAt        int64           `json:"expire_at,omitempty"`
	State           int             `json:"-"`
	Ctime           int64           `json:"ctime"`
	Mtime           int64           `json:"mtime"`
}

func (l *ShareLink) RequiresPassword() bool {
	return l.PasswordHash != ""
}

// GeneratedLink is the result handed back to the caller after generation.
type GeneratedLink struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
