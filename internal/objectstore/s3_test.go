package objectstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/tyler180/nba-stats-backends/internal/schema"
)

type fakeS3 struct {
	objects map[string][]byte
	puts    []*s3.PutObjectInput
	getErr  error
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	b, ok := f.objects[*in.Bucket+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[*in.Bucket+*in.Key] = b
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if *in.Bucket == "scoreboard" {
		return &s3.HeadBucketOutput{}, nil
	}
	return nil, &types.NotFound{}
}

func TestS3_PutThenGet(t *testing.T) {
	fake := &fakeS3{}
	st := NewS3(fake)
	ctx := context.Background()

	p, err := schema.DecodePayload([]byte(`{"scoreboard":{"leagueId":"00","games":[]}}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Put(ctx, "scoreboard", "/2022/05/29.json", p); err != nil {
		t.Fatalf("put: %v", err)
	}
	if len(fake.puts) != 1 || aws.ToString(fake.puts[0].ContentType) != ContentTypeJSON {
		t.Fatalf("puts %+v", fake.puts)
	}
	got, err := st.Get(ctx, "scoreboard", "/2022/05/29.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	sb := got["scoreboard"].(map[string]any)
	if sb["leagueId"] != "00" {
		t.Fatalf("round trip %v", got)
	}
}

func TestS3_GetMissingIsNotFound(t *testing.T) {
	st := NewS3(&fakeS3{})
	_, err := st.Get(context.Background(), "teamdetails", "/1610612747.json")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v want ErrNotFound", err)
	}
}

func TestS3_GetGenericAPIErrorCode(t *testing.T) {
	st := NewS3(&fakeS3{getErr: &smithy.GenericAPIError{Code: "NoSuchKey", Message: "gone"}})
	if _, err := st.Get(context.Background(), "b", "/k.json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v want ErrNotFound", err)
	}
}

func TestS3_GetOtherErrorPropagates(t *testing.T) {
	st := NewS3(&fakeS3{getErr: &smithy.GenericAPIError{Code: "AccessDenied", Message: "no"}})
	_, err := st.Get(context.Background(), "b", "/k.json")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v want a non-NotFound error", err)
	}
}

func TestS3_EmptyPayloadWritesObject(t *testing.T) {
	fake := &fakeS3{}
	if err := NewS3(fake).Put(context.Background(), "playbyplay", "/2010/06/17/0040900407.json", schema.Payload{}); err != nil {
		t.Fatal(err)
	}
	if string(fake.objects["playbyplay/2010/06/17/0040900407.json"]) != "{}" {
		t.Fatalf("stored %q", fake.objects["playbyplay/2010/06/17/0040900407.json"])
	}
}

func TestS3_BucketExists(t *testing.T) {
	st := NewS3(&fakeS3{})
	ok, err := st.BucketExists(context.Background(), "scoreboard")
	if err != nil || !ok {
		t.Fatalf("scoreboard: %v %v", ok, err)
	}
	ok, err = st.BucketExists(context.Background(), "missing")
	if err != nil || ok {
		t.Fatalf("missing: %v %v", ok, err)
	}
}

func TestMemory_CopiesOnWrite(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	p := schema.Payload{"a": "1"}
	if err := m.Put(ctx, "b", "/k.json", p); err != nil {
		t.Fatal(err)
	}
	p["a"] = "2"
	got, err := m.Get(ctx, "b", "/k.json")
	if err != nil {
		t.Fatal(err)
	}
	if got["a"] != "1" {
		t.Fatalf("stored value changed: %v", got)
	}
	if _, err := m.Get(ctx, "b", "/other.json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v want ErrNotFound", err)
	}
	if gets, puts := m.Counts(); gets != 2 || puts != 1 {
		t.Fatalf("counts gets=%d puts=%d", gets, puts)
	}
}
