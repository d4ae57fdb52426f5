package client

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/zetsubou-life/zetsubou-go/models"
)

// VFSService manages the server-side virtual file system: a tree of file
// and folder nodes linked by parent references.
type VFSService struct {
	c *Client
}

// NodeListOptions filters a node listing. ParentID restricts results to
// direct children of one folder; Type restricts to files or folders.
type NodeListOptions struct {
	ParentID string
	Type     models.NodeType
	Limit    int
	Offset   int
}

func (s *VFSService) ListNodes(ctx context.Context, opts *NodeListOptions) ([]models.VFSNode, error) {
	query := url.Values{}
	if opts == nil {
		opts = &NodeListOptions{}
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(opts.Offset))
	if opts.ParentID != "" {
		query.Set("parent_id", opts.ParentID)
	}
	if opts.Type != "" {
		query.Set("type", string(opts.Type))
	}

	out, err := doJSON[struct {
		Nodes []models.VFSNode `json:"nodes"`
	}](s.c, ctx, request{method: http.MethodGet, path: "/api/v2/vfs/nodes", query: query})
	if err != nil {
		return nil, err
	}
	return out.Nodes, nil
}

func (s *VFSService) GetNode(ctx context.Context, nodeID string) (*models.VFSNode, error) {
	if nodeID == "" {
		return nil, genericError(codeUnknown, "node id is required")
	}
	out, err := doJSON[struct {
		Node models.VFSNode `json:"node"`
	}](s.c, ctx, request{method: http.MethodGet, path: "/api/v2/vfs/nodes/" + nodeID})
	if err != nil {
		return nil, err
	}
	return &out.Node, nil
}

// UploadOptions carries the optional parts of a file upload.
type UploadOptions struct {
	ParentID string
	Encrypt  bool
}

// Upload stores a file in the VFS and returns its new node.
func (s *VFSService) Upload(ctx context.Context, file FileInput, opts *UploadOptions) (*models.VFSNode, error) {
	name, data, err := file.read()
	if err != nil {
		return nil, err
	}

	if opts == nil {
		opts = &UploadOptions{}
	}
	form := map[string]string{"encrypt": strconv.FormatBool(opts.Encrypt)}
	if opts.ParentID != "" {
		form["parent_id"] = opts.ParentID
	}

	out, err := doJSON[struct {
		Node models.VFSNode `json:"node"`
	}](s.c, ctx, request{
		method:      http.MethodPost,
		path:        "/api/v2/vfs/upload",
		form:        form,
		attachments: []attachment{{field: "file", filename: name, data: data}},
	})
	if err != nil {
		return nil, err
	}
	return &out.Node, nil
}

// Download streams a file's content. The caller owns the returned reader
// and must close it.
func (s *VFSService) Download(ctx context.Context, nodeID string) (io.ReadCloser, error) {
	if nodeID == "" {
		return nil, genericError(codeUnknown, "node id is required")
	}
	resp, err := s.c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/v2/vfs/nodes/" + nodeID + "/download",
		stream: true,
	})
	if err != nil {
		return nil, err
	}
	return resp.stream, nil
}

// DownloadToFile streams a file's content into a local file.
func (s *VFSService) DownloadToFile(ctx context.Context, nodeID, path string) error {
	body, err := s.Download(ctx, nodeID)
	if err != nil {
		return err
	}
	defer body.Close()

	f, err := os.Create(path)
	if err != nil {
		return genericError(codeConnection, "creating %s: %v", path, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return genericError(codeConnection, "writing %s: %v", path, err)
	}
	return f.Close()
}

func (s *VFSService) CreateFolder(ctx context.Context, name, parentID string) (*models.VFSNode, error) {
	if name == "" {
		return nil, genericError(codeUnknown, "folder name is required")
	}
	body := map[string]any{"name": name}
	if parentID != "" {
		body["parent_id"] = parentID
	}
	out, err := doJSON[struct {
		Folder models.VFSNode `json:"folder"`
	}](s.c, ctx, request{method: http.MethodPost, path: "/api/v2/vfs/folders", body: body})
	if err != nil {
		return nil, err
	}
	return &out.Folder, nil
}

// NodeUpdate selects the fields to change on a node. Nil fields are left
// untouched server-side.
type NodeUpdate struct {
	Name     *string
	ParentID *string
}

// UpdateNode renames or moves a node and returns the fresh record.
func (s *VFSService) UpdateNode(ctx context.Context, nodeID string, update NodeUpdate) (*models.VFSNode, error) {
	if nodeID == "" {
		return nil, genericError(codeUnknown, "node id is required")
	}
	body := map[string]any{}
	if update.Name != nil {
		body["name"] = *update.Name
	}
	if update.ParentID != nil {
		body["parent_id"] = *update.ParentID
	}
	out, err := doJSON[struct {
		Node models.VFSNode `json:"node"`
	}](s.c, ctx, request{method: http.MethodPatch, path: "/api/v2/vfs/nodes/" + nodeID, body: body})
	if err != nil {
		return nil, err
	}
	return &out.Node, nil
}

// DeleteNode soft-deletes a node. It reports whether the server accepted
// the deletion.
func (s *VFSService) DeleteNode(ctx context.Context, nodeID string) (bool, error) {
	if nodeID == "" {
		return false, genericError(codeUnknown, "node id is required")
	}
	out, err := doJSON[struct {
		Success bool `json:"success"`
	}](s.c, ctx, request{method: http.MethodDelete, path: "/api/v2/vfs/nodes/" + nodeID})
	if err != nil {
		return false, err
	}
	return out.Success, nil
}

// FolderContents lists the direct children of a folder.
func (s *VFSService) FolderContents(ctx context.Context, folderID string) ([]models.VFSNode, error) {
	if folderID == "" {
		return nil, genericError(codeUnknown, "folder id is required")
	}
	return s.ListNodes(ctx, &NodeListOptions{ParentID: folderID})
}

// SearchOptions filters a client-side file search.
type SearchOptions struct {
	NamePattern string
	MimeType    string
	Limit       int
}

// SearchFiles lists files and filters them client-side by name substring
// and MIME type. The API has no server-side search endpoint yet.
func (s *VFSService) SearchFiles(ctx context.Context, opts SearchOptions) ([]models.VFSNode, error) {
	nodes, err := s.ListNodes(ctx, &NodeListOptions{Limit: opts.Limit})
	if err != nil {
		return nil, err
	}

	results := make([]models.VFSNode, 0, len(nodes))
	for _, node := range nodes {
		if node.Type != models.NodeFile {
			continue
		}
		if opts.NamePattern != "" && !strings.Contains(strings.ToLower(node.Name), strings.ToLower(opts.NamePattern)) {
			continue
		}
		if opts.MimeType != "" && node.MimeType != opts.MimeType {
			continue
		}
		results = append(results, node)
	}
	return results, nil
}
