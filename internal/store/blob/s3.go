package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/whisperapp/whisper/internal/common"
)

// Tag keys used in the object tag set.
const (
	tagCustomName       = "custom-name"
	tagSenderUsername   = "sender-username"
	tagSenderUserID     = "sender-user-id"
	tagReceiverUsername = "receiver-username"
	tagReceiverUserID   = "receiver-user-id"
)

// Config carries the S3 connection settings (MinIO-style endpoint with
// static credentials).
type Config struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PresignExpiry time.Duration
}

// S3Store implements Store over an S3-compatible endpoint.
type S3Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	expiry  time.Duration
}

func NewS3Store(ctx context.Context, c Config) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(c.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.AccessKey,
			c.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(c.Endpoint)
		o.UsePathStyle = true
	})

	expiry := c.PresignExpiry
	if expiry == 0 {
		expiry = 15 * time.Minute
	}

	return &S3Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  c.Bucket,
		expiry:  expiry,
	}, nil
}

func (s *S3Store) List(ctx context.Context, prefix string) ([]Object, error) {

	var result []Object

	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: &s.bucket,
		Prefix: &prefix,
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %q: %w: %w", prefix, common.ErrStoreFailure, err)
		}
		for _, obj := range page.Contents {
			o := Object{Key: aws.ToString(obj.Key)}
			if obj.LastModified != nil {
				o.CreatedAt = obj.LastModified.UTC()
			}
			result = append(result, o)
		}
	}

	return result, nil
}

func (s *S3Store) Put(ctx context.Context, key string, r io.Reader, tags Tags) error {

	tagging := encodeTags(tags)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:  &s.bucket,
		Key:     &key,
		Body:    r,
		Tagging: &tagging,
	})
	if err != nil {
		return fmt.Errorf("put %q: %w: %w", key, common.ErrStoreFailure, err)
	}

	return nil
}

func (s *S3Store) GetTags(ctx context.Context, key string) (Tags, error) {

	out, err := s.client.GetObjectTagging(ctx, &s3.GetObjectTaggingInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		return Tags{}, fmt.Errorf("get tags %q: %w: %w", key, common.ErrStoreFailure, err)
	}

	return decodeTags(out.TagSet), nil
}

func (s *S3Store) UpdateTags(ctx context.Context, key string, tags Tags) error {

	_, err := s.client.PutObjectTagging(ctx, &s3.PutObjectTaggingInput{
		Bucket:  &s.bucket,
		Key:     &key,
		Tagging: &types.Tagging{TagSet: toTagSet(tags)},
	})
	if err != nil {
		return fmt.Errorf("update tags %q: %w: %w", key, common.ErrStoreFailure, err)
	}

	return nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("delete %q: %w: %w", key, common.ErrStoreFailure, err)
	}

	return nil
}

func (s *S3Store) PresignGet(ctx context.Context, key string) (string, error) {

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return "", fmt.Errorf("presign get %q: %w: %w", key, common.ErrStoreFailure, err)
	}

	return req.URL, nil
}

// encodeTags renders the tag set as a query string for PutObject's Tagging
// parameter. Empty fields are omitted.
func encodeTags(t Tags) string {
	v := url.Values{}
	for key, val := range tagPairs(t) {
		if val != "" {
			v.Set(key, val)
		}
	}
	return v.Encode()
}

func toTagSet(t Tags) []types.Tag {
	var set []types.Tag
	for key, val := range tagPairs(t) {
		if val != "" {
			set = append(set, types.Tag{Key: aws.String(key), Value: aws.String(val)})
		}
	}
	return set
}

// decodeTags maps a raw tag set onto the typed schema. Unknown keys are
// dropped; missing keys leave their fields empty.
func decodeTags(set []types.Tag) Tags {
	var t Tags
	for _, tag := range set {
		switch aws.ToString(tag.Key) {
		case tagCustomName:
			t.CustomName = aws.ToString(tag.Value)
		case tagSenderUsername:
			t.SenderUsername = aws.ToString(tag.Value)
		case tagSenderUserID:
			t.SenderUserID = aws.ToString(tag.Value)
		case tagReceiverUsername:
			t.ReceiverUsername = aws.ToString(tag.Value)
		case tagReceiverUserID:
			t.ReceiverUserID = aws.ToString(tag.Value)
		}
	}
	return t
}

func tagPairs(t Tags) map[string]string {
	return map[string]string{
		tagCustomName:       t.CustomName,
		tagSenderUsername:   t.SenderUsername,
		tagSenderUserID:     t.SenderUserID,
		tagReceiverUsername: t.ReceiverUsername,
		tagReceiverUserID:   t.ReceiverUserID,
	}
}
