package storage

import (
	"Foodgram-Backend/internal/utils"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
)

var (
	AllowImage = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

	ErrFileTypeNotAllowed = errors.New("file type not allowed")
)

type (
	AwsS3 interface {
		UploadFile(fileName string, file []byte, folder string, allowTypes ...string) (string, error)
		GetPublicLinkKey(objectKey string) string
		GetObjectKeyFromLink(link string) string
		DeleteFile(objectKey string) error
	}

	awsS3 struct {
		client *s3.Client
		bucket string
		region string
	}
)

func NewAwsS3() AwsS3 {
	region := utils.GetConfig("AWS_S3_REGION")
	cfg, err := awsconfig.LoadDefaultConfig(
		context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			utils.GetConfig("AWS_ACCESS_KEY"),
			utils.GetConfig("AWS_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		panic(fmt.Sprintf("failed to load aws config: %v", err))
	}

	return &awsS3{
		client: s3.NewFromConfig(cfg),
		bucket: utils.GetConfig("AWS_S3_BUCKET"),
		region: region,
	}
}

// UploadFile stores file under folder/fileName.<ext> and returns the object
// key. The extension comes from the detected content type.
func (a *awsS3) UploadFile(fileName string, file []byte, folder string, allowTypes ...string) (string, error) {
	mtype := mimetype.Detect(file)
	if len(allowTypes) > 0 && !mimetype.EqualsAny(mtype.String(), allowTypes...) {
		return "", ErrFileTypeNotAllowed
	}

	objectKey := fmt.Sprintf("%s/%s%s", folder, fileName, mtype.Extension())
	_, err := a.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(file),
		ContentType: aws.String(mtype.String()),
	})
	if err != nil {
		return "", err
	}
	return objectKey, nil
}

func (a *awsS3) GetPublicLinkKey(objectKey string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.bucket, a.region, objectKey)
}

func (a *awsS3) GetObjectKeyFromLink(link string) string {
	prefix := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", a.bucket, a.region)
	if !strings.HasPrefix(link, prefix) {
		return ""
	}
	return strings.TrimPrefix(link, prefix)
}

func (a *awsS3) DeleteFile(objectKey string) error {
	_, err := a.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey),
	})
	return err
}
