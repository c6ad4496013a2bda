package s3ds

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string]string
	gotIn   *s3.GetObjectInput
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.gotIn = in
	body, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestSourceOpen(t *testing.T) {
	t.Parallel()

	fake := &fakeS3{objects: map[string]string{"ads/raw/social_ads.csv": "Age,EstimatedSalary,Purchased\n"}}
	src := NewWithClient(fake, "ads", "raw/social_ads.csv")
	assert.Equal(t, "s3://ads/raw/social_ads.csv", src.Name())

	rc, err := src.Open(context.Background())
	require.NoError(t, err)
	defer rc.Close()

	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "Age,EstimatedSalary,Purchased\n", string(b))
	assert.Equal(t, "ads", aws.ToString(fake.gotIn.Bucket))
	assert.Equal(t, "raw/social_ads.csv", aws.ToString(fake.gotIn.Key))
}

func TestSourceOpen_MissingObject(t *testing.T) {
	t.Parallel()

	src := NewWithClient(&fakeS3{objects: map[string]string{}}, "ads", "nope.csv")
	_, err := src.Open(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://ads/nope.csv")
}

func TestNew_RequiresBucketAndKey(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{Bucket: "ads"})
	require.Error(t, err)
}
