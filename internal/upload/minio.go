// Package upload guarda los archivos asociados a perfiles (certificados,
// comprobantes) en un object storage compatible con S3. El nombre lógico que
// devuelve Put es el que se persiste en related_files.
package upload

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config agrupa las credenciales del endpoint S3/MinIO.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Client sube y baja archivos de un bucket fijo.
type Client struct {
	mc     *minio.Client
	bucket string
}

// New crea el cliente y garantiza que el bucket exista.
func New(ctx context.Context, cfg Config) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("upload: conectar a %s: %w", cfg.Endpoint, err)
	}

	exists, err := mc.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("upload: verificar bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := mc.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("upload: crear bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &Client{mc: mc, bucket: cfg.Bucket}, nil
}

// Put sube el contenido y devuelve el nombre de objeto generado. El nombre
// original se conserva como sufijo para que el archivo siga siendo legible
// en el bucket.
func (c *Client) Put(ctx context.Context, fileName, contentType string, r io.Reader, size int64) (string, error) {
	object := uuid.NewString() + "-" + sanitize(fileName)
	_, err := c.mc.PutObject(ctx, c.bucket, object, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload: subir %s: %w", object, err)
	}
	return object, nil
}

// PresignGet genera una URL firmada de lectura con expiración.
func (c *Client) PresignGet(ctx context.Context, object string, expiry time.Duration) (string, error) {
	u, err := c.mc.PresignedGetObject(ctx, c.bucket, object, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("upload: firmar %s: %w", object, err)
	}
	return u.String(), nil
}

// Remove borra el objeto del bucket.
func (c *Client) Remove(ctx context.Context, object string) error {
	if err := c.mc.RemoveObject(ctx, c.bucket, object, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("upload: borrar %s: %w", object, err)
	}
	return nil
}

// sanitize limpia el nombre para usarlo como parte del object key.
func sanitize(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, base)
	if base == "" || base == "." {
		return "file"
	}
	return base
}
