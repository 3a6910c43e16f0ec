package s3archive

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/rafabene/seguros-backoffice/internal/domain/ports"
)

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archive envia os relatórios exportados para um bucket S3
type Archive struct {
	client putObjectAPI
	bucket string
	prefix string
	logger ports.Logger
}

// New cria um Archive usando a cadeia padrão de credenciais da AWS
func New(ctx context.Context, region, bucket, prefix string, logger ports.Logger) (*Archive, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}
	return newArchive(s3.NewFromConfig(cfg), bucket, prefix, logger), nil
}

func newArchive(client putObjectAPI, bucket, prefix string, logger ports.Logger) *Archive {
	return &Archive{
		client: client,
		bucket: bucket,
		prefix: strings.TrimPrefix(prefix, "/"),
		logger: logger,
	}
}

// Upload envia o arquivo em filePath e devolve a URI s3://bucket/chave
func (a *Archive) Upload(ctx context.Context, key, filePath, contentType string) (string, error) {
	f, err := os.Open(filePath) //nolint:gosec
	if err != nil {
		return "", fmt.Errorf("open export file: %w", err)
	}
	defer func() { _ = f.Close() }()

	objectKey := path.Join(a.prefix, key)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(objectKey),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s to bucket %s: %w", objectKey, a.bucket, err)
	}

	location := "s3://" + a.bucket + "/" + objectKey
	a.logger.Info("export archived", "location", location)
	return location, nil
}
