package models

import "time"

type NodeType string

const (
	NodeFile   NodeType = "file"
	NodeFolder NodeType = "folder"
)

type VFSNode struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        NodeType  `json:"type"`
	SizeBytes   int64     `json:"size_bytes"`
	MimeType    string    `json:"mime_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ParentID    *string   `json:"parent_id"`
	IsEncrypted bool      `json:"is_encrypted"`
	DownloadURL string    `json:"download_url,omitempty"`
}

// IsRoot reports whether the node sits at the top of the tree.
func (n *VFSNode) IsRoot() bool {
	return n.ParentID == nil
}
