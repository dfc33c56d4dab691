package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

var ErrDisabled = errors.New("storage_disabled")

// Putter é o pedaço do cliente S3 que usamos.
type Putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
	AccessKey     string
	SecretKey     string
}

type Logos struct {
	client  Putter
	bucket  string
	baseURL string
	now     func() time.Time
}

// NewS3Logos devolve um Logos desligado quando não há bucket configurado.
func NewS3Logos(cfg S3Config) *Logos {
	if cfg.Bucket == "" {
		return &Logos{}
	}

	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: cfg.Endpoint != "",
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}

	base := cfg.PublicBaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return NewLogos(s3.New(opts), cfg.Bucket, base)
}

func NewLogos(client Putter, bucket, baseURL string) *Logos {
	return &Logos{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

func (l *Logos) Enabled() bool {
	return l.client != nil
}

// Upload transcodifica o logo, envia ao bucket e devolve a URL pública
// que vai para logo_url.
func (l *Logos) Upload(ctx context.Context, data []byte) (string, error) {
	if l.client == nil {
		return "", ErrDisabled
	}

	img, err := TranscodeLogo(bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("logos/%d.webp", l.now().UnixNano())
	_, err = l.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(l.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(img),
		ContentType:  aws.String("image/webp"),
		CacheControl: aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return "", errors.Wrap(err, "put logo")
	}

	return l.baseURL + "/" + key, nil
}
