package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"

	"github.com/minio/minio-go/v7"
)

// ImageStore stocke les images produits dans MinIO.
type ImageStore struct {
	client   *minio.Client
	endpoint string
	bucket   string
}

func NewImageStore(client *minio.Client, endpoint, bucket string) *ImageStore {
	return &ImageStore{client: client, endpoint: endpoint, bucket: bucket}
}

// Upload pousse un fichier image et retourne son URL publique.
func (s *ImageStore) Upload(ctx context.Context, productID string, file *multipart.FileHeader) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	objectName := path.Join("products", productID+path.Ext(file.Filename))
	_, err = s.client.PutObject(ctx, s.bucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("http://%s/%s/%s", s.endpoint, s.bucket, objectName), nil
}
