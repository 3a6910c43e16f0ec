package s3archive

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafabene/seguros-backoffice/internal/infrastructure/logging"
)

type fakeS3 struct {
	bucket      string
	key         string
	contentType string
	body        string
	err         error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = aws.ToString(in.Bucket)
	f.key = aws.ToString(in.Key)
	f.contentType = aws.ToString(in.ContentType)
	raw, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = string(raw)
	return &s3.PutObjectOutput{}, nil
}

func writeExport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clientes_export.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,nome\n1,Maria\n"), 0o600))
	return path
}

func TestArchive_Upload(t *testing.T) {
	client := &fakeS3{}
	archive := newArchive(client, "seguros", "/relatorios/", logging.Nop())

	location, err := archive.Upload(context.Background(), "clientes_export.csv", writeExport(t), "text/csv")

	require.NoError(t, err)
	assert.Equal(t, "s3://seguros/relatorios/clientes_export.csv", location)
	assert.Equal(t, "seguros", client.bucket)
	assert.Equal(t, "relatorios/clientes_export.csv", client.key)
	assert.Equal(t, "text/csv", client.contentType)
	assert.Equal(t, "id,nome\n1,Maria\n", client.body)
}

func TestArchive_UploadFailure(t *testing.T) {
	archive := newArchive(&fakeS3{err: errors.New("access denied")}, "seguros", "", logging.Nop())

	_, err := archive.Upload(context.Background(), "clientes_export.csv", writeExport(t), "text/csv")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestArchive_MissingFile(t *testing.T) {
	client := &fakeS3{}
	archive := newArchive(client, "seguros", "", logging.Nop())

	_, err := archive.Upload(context.Background(), "x.csv", filepath.Join(t.TempDir(), "x.csv"), "text/csv")

	require.Error(t, err)
	assert.Empty(t, client.key)
}
