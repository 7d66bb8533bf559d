package dropbox

import (
	"context"
	"mime"
	"path/filepath"
	"strings"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"

	"github.com/photomig/photomigration/types"
)

// Client exposes a Dropbox account as a read-only media source: every
// top-level folder is treated as an album.
type Client struct {
	token        string
	dropboxConf  *dropbox.Config
	dropboxFiles files.Client
}

func NewClient(token string) (*Client, error) {
	config := dropbox.Config{
		Token: token,
	}

	client := files.New(config)

	return &Client{
		token:        token,
		dropboxConf:  &config,
		dropboxFiles: client,
	}, nil
}

func (d *Client) listFolder(arg *files.ListFolderArg) ([]files.IsMetadata, error) {
	res, err := d.dropboxFiles.ListFolder(arg)
	if err != nil {
		return nil, err
	}

	entries := res.Entries
	for res.HasMore {
		res, err = d.dropboxFiles.ListFolderContinue(files.NewListFolderContinueArg(res.Cursor))
		if err != nil {
			return nil, err
		}
		entries = append(entries, res.Entries...)
	}

	return entries, nil
}

func (d *Client) ListAlbums(ctx context.Context) ([]*types.Album, error) {
	entries, err := d.listFolder(files.NewListFolderArg(""))
	if err != nil {
		return nil, err
	}

	var albums []*types.Album
	for _, entry := range entries {
		if meta, ok := entry.(*files.FolderMetadata); ok {
			albums = append(albums, &types.Album{
				ID:   meta.PathLower,
				Name: meta.Name,
				Path: []string{meta.Name},
			})
		}
	}

	return albums, nil
}

func (d *Client) ListItems(ctx context.Context, album *types.Album) ([]*types.MediaItem, error) {
	arg := files.NewListFolderArg(album.ID)
	arg.Recursive = true

	entries, err := d.listFolder(arg)
	if err != nil {
		return nil, err
	}

	var items []*types.MediaItem
	for _, entry := range entries {
		if meta, ok := entry.(*files.FileMetadata); ok {
			items = append(items, &types.MediaItem{
				ID:          meta.Id,
				AlbumPath:   itemPath(meta.PathDisplay),
				FileName:    meta.Name,
				Size:        int64(meta.Size),
				MD5:         meta.ContentHash,
				DownloadURL: meta.PathDisplay,
			})
		}
	}

	return items, nil
}

// itemPath maps a Dropbox display path onto destination folder segments,
// everything but the file name itself.
func itemPath(pathDisplay string) []string {
	parts := strings.Split(strings.Trim(pathDisplay, "/"), "/")
	if len(parts) <= 1 {
		return nil
	}
	return parts[:len(parts)-1]
}

func (d *Client) Download(ctx context.Context, item *types.MediaItem) (*types.Object, error) {
	arg := files.NewDownloadArg(item.DownloadURL)
	res, content, err := d.dropboxFiles.Download(arg)
	if err != nil {
		return nil, err
	}

	return &types.Object{
		Body:          content,
		ContentType:   mime.TypeByExtension(filepath.Ext(item.FileName)),
		ContentLength: int64(res.Size),
	}, nil
}
