package gdrive

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	zlogger "github.com/photomig/photomigration/logger"
	"github.com/photomig/photomigration/types"
)

const folderMimeType = "application/vnd.google-apps.folder"

// Client is a Google Drive media destination.
type Client struct {
	service *drive.Service
}

func NewClient(ctx context.Context, accessToken string) (*Client, error) {
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})

	httpClient := oauth2.NewClient(ctx, tokenSource)

	service, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}

	return &Client{
		service: service,
	}, nil
}

// escapeQueryTerm escapes a value for embedding in a Drive search query.
func escapeQueryTerm(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// EnsureFolder returns the ID of the named folder under parentID, creating it
// when absent. Repeated calls never create duplicates.
func (g *Client) EnsureFolder(ctx context.Context, parentID, name string) (string, error) {
	query := fmt.Sprintf("name='%s' and mimeType='%s' and trashed=false",
		escapeQueryTerm(name), folderMimeType)
	if parentID != "" {
		query += fmt.Sprintf(" and '%s' in parents", parentID)
	}

	res, err := g.service.Files.List().
		Q(query).
		Fields("files(id, name)").
		PageSize(1).
		Context(ctx).Do()
	if err != nil {
		return "", err
	}
	if len(res.Files) > 0 {
		return res.Files[0].Id, nil
	}

	meta := &drive.File{
		Name:     name,
		MimeType: folderMimeType,
	}
	if parentID != "" {
		meta.Parents = []string{parentID}
	}

	folder, err := g.service.Files.Create(meta).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", err
	}

	zlogger.Logger.Infof("created drive folder %s (%s)", name, folder.Id)
	return folder.Id, nil
}

// ListFiles returns the non-trashed files directly inside folderID.
func (g *Client) ListFiles(ctx context.Context, folderID string) ([]types.RemoteFile, error) {
	query := fmt.Sprintf("'%s' in parents and mimeType != '%s' and trashed=false",
		escapeQueryTerm(folderID), folderMimeType)

	var out []types.RemoteFile
	pageToken := ""
	for {
		call := g.service.Files.List().
			Q(query).
			Fields("nextPageToken, files(id, name, size)").
			PageSize(1000).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		res, err := call.Do()
		if err != nil {
			return nil, err
		}

		for _, f := range res.Files {
			out = append(out, types.RemoteFile{
				ID:   f.Id,
				Name: f.Name,
				Size: f.Size,
			})
		}

		if res.NextPageToken == "" {
			break
		}
		pageToken = res.NextPageToken
	}

	return out, nil
}

// Upload streams the staged local file into folderID under filename and
// returns the new file's ID.
func (g *Client) Upload(ctx context.Context, folderID, localPath, filename string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	mimeType := mime.TypeByExtension(filepath.Ext(filename))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	meta := &drive.File{
		Name:    filename,
		Parents: []string{folderID},
	}

	created, err := g.service.Files.Create(meta).
		Media(f, googleapi.ContentType(mimeType)).
		Fields("id").
		Context(ctx).Do()
	if err != nil {
		return "", err
	}

	return created.Id, nil
}
