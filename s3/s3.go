package s3

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	awsS3 "github.com/aws/aws-sdk-go-v2/service/s3"

	zlogger "github.com/photomig/photomigration/logger"
	"github.com/photomig/photomigration/types"
)

// Client is an S3 media destination. S3 has no real folders; folder IDs are
// key prefixes ending in "/".
type Client struct {
	bucket   string
	region   string
	client   *awsS3.Client
	uploader *manager.Uploader
}

func NewClient(ctx context.Context, bucket, region string) (*Client, error) {
	if region == "" {
		region = "us-east-1"
	}

	c := &Client{
		bucket: bucket,
		region: region,
	}

	var err error
	c.client, err = getAwsSDKClient(ctx, c.region)
	if err != nil {
		return nil, err
	}

	c.region, err = c.getBucketRegion(ctx)
	if err != nil {
		return nil, err
	}

	if region != c.region {
		c.client, err = getAwsSDKClient(ctx, c.region)
		if err != nil {
			return nil, err
		}
	}

	c.uploader = manager.NewUploader(c.client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
	})

	zlogger.Logger.Infof("s3 client initialized with bucket: %v, region: %v", bucket, c.region)
	return c, nil
}

func getAwsSDKClient(ctx context.Context, region string) (*awsS3.Client, error) {
	cfg, err := awsConfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("configuration error " + err.Error() + "region: " + region)
	}

	cfg.Region = region
	return awsS3.NewFromConfig(cfg), nil
}

func (c *Client) getBucketRegion(ctx context.Context) (region string, err error) {
	locationInfo, err := c.client.GetBucketLocation(ctx, &awsS3.GetBucketLocationInput{
		Bucket: &c.bucket,
	})
	if err != nil {
		return
	}

	region = string(locationInfo.LocationConstraint)
	if region == "" {
		region = "us-east-1"
	}
	return
}

// EnsureFolder is pure prefix concatenation; no object is created, so the
// operation is idempotent by construction.
func (c *Client) EnsureFolder(ctx context.Context, parentID, name string) (string, error) {
	return joinPrefix(parentID, name), nil
}

func joinPrefix(parentID, name string) string {
	name = strings.Trim(name, "/")
	if parentID == "" {
		return name + "/"
	}
	return strings.TrimSuffix(parentID, "/") + "/" + name + "/"
}

// ListFiles returns the objects directly under the prefix, not descending
// into deeper prefixes.
func (c *Client) ListFiles(ctx context.Context, folderID string) ([]types.RemoteFile, error) {
	listObjectsInput := &awsS3.ListObjectsV2Input{
		Bucket:    &c.bucket,
		Prefix:    aws.String(folderID),
		Delimiter: aws.String("/"),
	}

	maxKeys := int32(1000)
	paginator := awsS3.NewListObjectsV2Paginator(c.client, listObjectsInput, func(o *awsS3.ListObjectsV2PaginatorOptions) {
		o.Limit = maxKeys
	})

	var out []types.RemoteFile
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") {
				continue
			}
			out = append(out, types.RemoteFile{
				ID:   key,
				Name: path.Base(key),
				Size: obj.Size,
			})
		}
	}

	return out, nil
}

// Upload puts the staged local file under the folder prefix and returns the
// object key.
func (c *Client) Upload(ctx context.Context, folderID, localPath, filename string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := folderID + filename
	_, err = c.uploader.Upload(ctx, &awsS3.PutObjectInput{
		Bucket:      &c.bucket,
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	return key, nil
}
