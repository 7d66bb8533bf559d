package smugmug

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	zlogger "github.com/photomig/photomigration/logger"
	"github.com/photomig/photomigration/types"
)

const DefaultAPIBase = "https://api.smugmug.com"

// page size for album and image listings
const listPageSize = 100

// Client is a read-only SmugMug API v2 consumer. The http.Client must carry
// an OAuth 1.0a signing transport; credential acquisition happens outside
// this package.
type Client struct {
	httpClient *http.Client
	apiBase    string

	nickname  string
	albumsURI string
}

func NewClient(httpClient *http.Client, apiBase string) *Client {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	return &Client{
		httpClient: httpClient,
		apiBase:    strings.TrimRight(apiBase, "/"),
	}
}

type uriRef struct {
	Uri string
}

type pagesInfo struct {
	Total int
	Start int
	Count int
}

type userResponse struct {
	Response struct {
		User struct {
			NickName string
			Name     string
			Uris     map[string]uriRef
		}
	}
}

type albumJSON struct {
	AlbumKey   string
	Name       string
	UrlPath    string
	ImageCount int
}

type albumsResponse struct {
	Response struct {
		Album []albumJSON
		Pages pagesInfo
	}
}

type imageJSON struct {
	ImageKey     string
	FileName     string
	ArchivedSize int64
	ArchivedMD5  string
	Uri          string
	Uris         struct {
		Image uriRef
	}
}

type imagesResponse struct {
	Response struct {
		AlbumImage []imageJSON
		Pages      pagesInfo
	}
}

type largestImageResponse struct {
	Response struct {
		LargestImage struct {
			Url string
		}
	}
}

type downloadResponse struct {
	Response struct {
		ImageDownload struct {
			Url string
		}
	}
}

func (c *Client) get(ctx context.Context, uri string, params url.Values, out interface{}) error {
	full := uri
	if !strings.HasPrefix(uri, "http") {
		full = c.apiBase + uri
	}
	if len(params) > 0 {
		full += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("smugmug: %s returned %s", uri, resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func listParams(start int) url.Values {
	return url.Values{
		"count": []string{strconv.Itoa(listPageSize)},
		"start": []string{strconv.Itoa(start)},
	}
}

// authUser resolves the authenticated user's nickname and album listing URI,
// caching both for the lifetime of the client.
func (c *Client) authUser(ctx context.Context) error {
	if c.albumsURI != "" {
		return nil
	}

	var ur userResponse
	if err := c.get(ctx, "/api/v2!authuser", nil, &ur); err != nil {
		return err
	}

	user := ur.Response.User
	c.nickname = user.NickName
	if c.nickname == "" {
		c.nickname = user.Name
	}

	ref, ok := user.Uris["UserAlbums"]
	if !ok || ref.Uri == "" {
		return fmt.Errorf("smugmug: authuser response has no UserAlbums uri")
	}
	c.albumsURI = ref.Uri

	zlogger.Logger.Infof("smugmug user: %s", c.nickname)
	return nil
}

// ListAlbums returns all albums of the authenticated user in listing order,
// following pagination.
func (c *Client) ListAlbums(ctx context.Context) ([]*types.Album, error) {
	if err := c.authUser(ctx); err != nil {
		return nil, err
	}

	var albums []*types.Album
	start := 1
	for {
		var ar albumsResponse
		if err := c.get(ctx, c.albumsURI+"!albums", listParams(start), &ar); err != nil {
			return nil, err
		}

		page := ar.Response.Album
		if len(page) == 0 {
			break
		}

		for _, a := range page {
			albums = append(albums, &types.Album{
				ID:        a.AlbumKey,
				Name:      a.Name,
				Path:      c.albumPath(a),
				FileCount: a.ImageCount,
			})
		}

		if start+len(page) > ar.Response.Pages.Total {
			break
		}
		start += len(page)
		zlogger.Logger.Infof("fetched %d albums so far", len(albums))
	}

	return albums, nil
}

// albumPath derives the destination folder chain from the album's URL path,
// dropping the user nickname segment. An album without a usable path lands in
// a folder named after the album itself.
func (c *Client) albumPath(a albumJSON) []string {
	var parts []string
	for _, p := range strings.Split(strings.Trim(a.UrlPath, "/"), "/") {
		if p == "" || p == c.nickname {
			continue
		}
		parts = append(parts, p)
	}
	if len(parts) == 0 {
		name := a.Name
		if name == "" {
			name = "Untitled Album"
		}
		parts = []string{name}
	}
	return parts
}

// ListItems returns all images and videos in the album in listing order.
func (c *Client) ListItems(ctx context.Context, album *types.Album) ([]*types.MediaItem, error) {
	var items []*types.MediaItem
	uri := fmt.Sprintf("/api/v2/album/%s!images", album.ID)

	start := 1
	for {
		var ir imagesResponse
		if err := c.get(ctx, uri, listParams(start), &ir); err != nil {
			return nil, err
		}

		page := ir.Response.AlbumImage
		if len(page) == 0 {
			break
		}

		for _, img := range page {
			imageURI := img.Uris.Image.Uri
			if imageURI == "" {
				imageURI = img.Uri
			}
			fileName := img.FileName
			if fileName == "" {
				fileName = img.ImageKey + ".jpg"
			}
			items = append(items, &types.MediaItem{
				ID:        img.ImageKey,
				AlbumPath: album.Path,
				FileName:  fileName,
				Size:      img.ArchivedSize,
				MD5:       img.ArchivedMD5,
				URI:       imageURI,
			})
		}

		if start+len(page) > ir.Response.Pages.Total {
			break
		}
		start += len(page)
	}

	return items, nil
}

// downloadURL resolves the largest available rendition, falling back to the
// archive (original) download endpoint.
func (c *Client) downloadURL(ctx context.Context, item *types.MediaItem) (string, error) {
	if item.DownloadURL != "" {
		return item.DownloadURL, nil
	}
	if item.URI == "" {
		return "", fmt.Errorf("smugmug: item %s has no image uri", item.ID)
	}

	var lr largestImageResponse
	if err := c.get(ctx, item.URI+"!largestimage", nil, &lr); err == nil && lr.Response.LargestImage.Url != "" {
		return lr.Response.LargestImage.Url, nil
	}

	var dr downloadResponse
	if err := c.get(ctx, item.URI+"!download", nil, &dr); err != nil {
		return "", err
	}
	if dr.Response.ImageDownload.Url == "" {
		return "", fmt.Errorf("smugmug: no download url for item %s", item.ID)
	}
	return dr.Response.ImageDownload.Url, nil
}

// Download streams the item's bytes at the largest available size.
func (c *Client) Download(ctx context.Context, item *types.MediaItem) (*types.Object, error) {
	dlURL, err := c.downloadURL(ctx, item)
	if err != nil {
		return nil, err
	}
	item.DownloadURL = dlURL

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, dlURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("smugmug: download of %s returned %s", item.FileName, resp.Status)
	}

	return &types.Object{
		Body:          resp.Body,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
	}, nil
}
