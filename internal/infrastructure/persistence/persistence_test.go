package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"coown-backend/internal/domain"
	"coown-backend/internal/infrastructure/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot(events int) domain.Snapshot {
	snap := domain.Snapshot{
		User: domain.User{ID: "u1", Name: "홍길동", ReservationLimit: 1000},
		Properties: []domain.Property{
			{ID: "p1", Name: "One", Address: "서울 강남구", TargetPrice: 100, Status: domain.StatusVotingOpen},
		},
		Reservations: []domain.Reservation{},
		Holdings:     []domain.Holding{},
		DemandEvents: []domain.DemandEvent{},
		AsOf:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	for i := 0; i < events; i++ {
		snap.DemandEvents = append(snap.DemandEvents, domain.DemandEvent{ID: "de", UserID: "u1", PropertyID: "p1", EventType: domain.EventCreate})
	}
	return snap
}

func asJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

// exerciseAdapter runs the contract every backend must satisfy.
func exerciseAdapter(t *testing.T, a Adapter) {
	ctx := context.Background()

	_, ok, err := a.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "empty backend loads as absent")

	first := sampleSnapshot(1)
	require.NoError(t, a.Save(ctx, first))
	got, ok, err := a.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, asJSON(t, first), asJSON(t, got))

	second := sampleSnapshot(3)
	second.Properties[0].ReservedAmount = 50
	require.NoError(t, a.Save(ctx, second))
	got, ok, err = a.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got.DemandEvents, 3)
	assert.Equal(t, 50.0, got.Properties[0].ReservedAmount)

	require.NoError(t, a.Reset(ctx))
	_, ok, err = a.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, a.Reset(ctx), "reset of an empty backend is a no-op")
}

func TestDecode(t *testing.T) {
	_, ok, err := decode([]byte(`{"user":{"id":""},"properties":[{"id":"p1"}]}`))
	require.NoError(t, err)
	assert.False(t, ok, "no user id")

	_, ok, err = decode([]byte(`{"user":{"id":"u1"},"properties":[]}`))
	require.NoError(t, err)
	assert.False(t, ok, "no properties")

	snap, ok, err := decode([]byte(`{"user":{"id":"u1"},"properties":[{"id":"p1"}]}`))
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotNil(t, snap.Reservations)
	assert.NotNil(t, snap.Holdings)
	assert.NotNil(t, snap.DemandEvents)

	_, _, err = decode([]byte(`{not json`))
	assert.Error(t, err)
}

func TestGormAdapter(t *testing.T) {
	db, err := database.Open("sqlite::memory:")
	require.NoError(t, err)
	defer database.Close(db)

	a, err := NewGormAdapter(db, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultKey, a.Key)
	assert.Equal(t, "database", a.Name())
	exerciseAdapter(t, a)

	require.NoError(t, a.Save(context.Background(), sampleSnapshot(2)))
	var rec SnapshotRecord
	require.NoError(t, db.First(&rec, "snapshot_key = ?", DefaultKey).Error)
	assert.Equal(t, 2, rec.EventCount)
	var rows int64
	require.NoError(t, db.Model(&SnapshotRecord{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestRedisAdapter(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	a := NewRedisAdapter(rdb, "test-key")
	assert.Equal(t, "redis", a.Name())
	exerciseAdapter(t, a)

	require.NoError(t, a.Save(context.Background(), sampleSnapshot(0)))
	assert.True(t, mr.Exists("test-key"))
}

func TestRedisAdapter_Unavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	a := NewRedisAdapter(rdb, "")
	_, _, err = a.Load(context.Background())
	assert.Error(t, err)
	assert.Error(t, a.Save(context.Background(), sampleSnapshot(0)))
}

type memObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newMemObjects() *memObjects {
	return &memObjects{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (m *memObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[*in.Bucket+"/"+*in.Key] = b
	m.types[*in.Bucket+"/"+*in.Key] = *in.ContentType
	return &s3.PutObjectOutput{}, nil
}

func (m *memObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, *in.Bucket+"/"+*in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Adapter(t *testing.T) {
	objects := newMemObjects()
	a := newS3Adapter(objects, "bucket", "snapshots/demand")
	assert.Equal(t, "s3", a.Name())
	exerciseAdapter(t, a)

	require.NoError(t, a.Save(context.Background(), sampleSnapshot(0)))
	assert.Contains(t, objects.objects, "bucket/snapshots/demand.json")
	assert.Equal(t, "application/json", objects.types["bucket/snapshots/demand.json"])
}

func TestNewS3Adapter_RequiresBucketAndRegion(t *testing.T) {
	_, err := NewS3Adapter(context.Background(), S3Config{Region: "us-east-1"}, "")
	assert.Error(t, err)
	_, err = NewS3Adapter(context.Background(), S3Config{Bucket: "b"}, "")
	assert.Error(t, err)
}

func TestWithScheme(t *testing.T) {
	assert.Equal(t, "https://minio.local:9000", withScheme("minio.local:9000"))
	assert.Equal(t, "https://localhost:9000", withScheme("localhost:9000"))
	assert.Equal(t, "http://localhost:9000", withScheme("http://localhost:9000"))
	assert.Equal(t, "https://s3.eu-west-1.amazonaws.com", withScheme("https://s3.eu-west-1.amazonaws.com"))
	assert.Equal(t, "https://storage.internal", withScheme("storage.internal"))
}
