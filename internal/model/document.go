package model

type Document struct {
	ID       string `json:"id"`
	OwnerID  string `json:"owner_id"`
	Title    string `json:"title"`
	FileKey  string `json:"-"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
	Starred  int    `json:"starred"`
	State    int    `json:"-"`
	Ctime    int64  `json:"ctime"`
	Mtime    int64  `json:"mtime"`
}
