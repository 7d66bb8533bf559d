package types

import (
	"context"
	"io"
	"strings"
)

// Album is a named collection of media items in the source hierarchy. Path
// holds the ordered folder names from the root of the destination tree.
type Album struct {
	ID        string
	Name      string
	Path      []string
	FileCount int
}

// MediaItem is a single photo or video as listed by the source. URI is the
// source API resource; DownloadURL is the resolved binary URL, which sources
// may fill lazily at download time.
type MediaItem struct {
	ID          string
	AlbumPath   []string
	FileName    string
	Size        int64
	MD5         string
	URI         string
	DownloadURL string
}

// Key is the ledger key for the item: album path segments joined with the
// file name. Stable across runs even when source-side item IDs churn.
func (m *MediaItem) Key() string {
	parts := make([]string, 0, len(m.AlbumPath)+1)
	parts = append(parts, m.AlbumPath...)
	parts = append(parts, m.FileName)
	return strings.Join(parts, "/")
}

// Object is a downloaded media payload.
type Object struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// RemoteFile is a file already present in a destination folder.
type RemoteFile struct {
	ID   string
	Name string
	Size int64
}

// MediaSource lists albums and items from the source service and downloads
// item content. Implementations must be read-only.
//
//go:generate mockgen -destination mocks/mock_source.go -package mock_types github.com/photomig/photomigration/types MediaSource
type MediaSource interface {
	ListAlbums(ctx context.Context) ([]*Album, error)
	ListItems(ctx context.Context, album *Album) ([]*MediaItem, error)
	Download(ctx context.Context, item *MediaItem) (*Object, error)
}

// MediaDestination creates folders and uploads files on the destination
// service. EnsureFolder must be idempotent: repeated calls with the same
// parent and name return the same folder and never create duplicates.
//
//go:generate mockgen -destination mocks/mock_destination.go -package mock_types github.com/photomig/photomigration/types MediaDestination
type MediaDestination interface {
	EnsureFolder(ctx context.Context, parentID, name string) (string, error)
	ListFiles(ctx context.Context, folderID string) ([]RemoteFile, error)
	Upload(ctx context.Context, folderID, localPath, filename string) (string, error)
}
