package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path"
	"time"

	"bocal_back_end/internal/database"

	"github.com/minio/minio-go/v7"
)

// UploadProductImage pousse l'image d'un produit vers MinIO et retourne
// l'URL publique. L'objet est rangé sous products/<product_id>/<fichier>.
func UploadProductImage(ctx context.Context, productID string, file *multipart.FileHeader) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	bucket := os.Getenv("MINIO_BUCKET")
	objectName := path.Join("products", productID, file.Filename)

	_, err = database.MinIO.PutObject(ctx, bucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	scheme := "http"
	if os.Getenv("MINIO_USE_SSL") == "true" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, os.Getenv("MINIO_ENDPOINT"), bucket, objectName), nil
}

// SignedImageURL génère une URL signée temporaire pour un objet du bucket
// images — utile quand le bucket n'est pas public.
func SignedImageURL(ctx context.Context, objectName string, duration time.Duration) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	presigned, err := database.MinIO.PresignedGetObject(ctx, os.Getenv("MINIO_BUCKET"), objectName, duration, nil)
	if err != nil {
		return "", err
	}
	return presigned.String(), nil
}
