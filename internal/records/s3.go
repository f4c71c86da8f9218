package records

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store writes one JSON object per appointment, partitioned by date.
type S3Store struct {
	client S3API
	bucket string
	prefix string
	now    func() time.Time
}

func NewS3Store(client S3API, bucket, prefix string) (*S3Store, error) {
	if client == nil {
		return nil, errors.New("records: s3 client required")
	}
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("records: s3 bucket required")
	}
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		now:    time.Now,
	}, nil
}

type s3Record struct {
	ID         string `json:"id"`
	Timestamp  string `json:"timestamp"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Doctor     string `json:"doctor"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Email      string `json:"email"`
	Mobile     string `json:"mobile"`
}

func (s *S3Store) Append(ctx context.Context, record Record) error {
	record = stamp(record, s.now)
	id := uuid.NewString()

	data, err := json.Marshal(s3Record{
		ID:         id,
		Timestamp:  record.Timestamp.Format(TimestampLayout),
		Name:       record.Name,
		Department: record.Department,
		Doctor:     record.Doctor,
		Date:       record.Date,
		Time:       record.Time,
		Email:      record.Email,
		Mobile:     record.Mobile,
	})
	if err != nil {
		return fmt.Errorf("records: marshal record: %w", err)
	}

	key := s.key(record.Timestamp, id)
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return fmt.Errorf("records: s3 put %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) key(ts time.Time, id string) string {
	key := fmt.Sprintf("%d/%02d/%02d/%s.json", ts.Year(), ts.Month(), ts.Day(), id)
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

var _ Store = (*S3Store)(nil)
