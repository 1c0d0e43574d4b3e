package adapters

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"google.golang.org/api/option"

	"azimuth-installer/internal/ports"
)

type GCSOptions struct {
	// CredentialsFile is a service account key file. When empty the client
	// falls back to application default credentials.
	CredentialsFile string
	// Endpoint overrides the storage API endpoint, for emulators. Requests
	// to a custom endpoint are sent unauthenticated.
	Endpoint string
}

type GCSStorageAdapter struct {
	Client *storage.Client
	Fs     afero.Fs
}

func NewGCSStorageAdapter(ctx context.Context, opts GCSOptions, fs afero.Fs) (*GCSStorageAdapter, error) {
	var clientOpts []option.ClientOption
	if endpoint := strings.TrimSpace(opts.Endpoint); endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(endpoint), option.WithoutAuthentication())
	} else if credentials := strings.TrimSpace(opts.CredentialsFile); credentials != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credentials))
	}
	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodePermissionDenied).
			WithMsg("failed to create storage client").
			WithCause(err)
	}
	return &GCSStorageAdapter{Client: client, Fs: fs}, nil
}

func (a *GCSStorageAdapter) Fetch(ctx context.Context, bucket string, remote string, local string) error {
	log.Ctx(ctx).Debug().Str("bucket", bucket).Str("remote", remote).Msg("fetching object")
	reader, err := a.Client.Bucket(bucket).Object(remote).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			return errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("remote object not found: %s/%s", bucket, remote)).
				WithCause(err)
		}
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to fetch remote object %s/%s", bucket, remote)).
			WithCause(err)
	}
	defer reader.Close()

	file, err := a.Fs.OpenFile(local, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to create %s", local)).
			WithCause(err)
	}
	if _, err := io.Copy(file, reader); err != nil {
		file.Close()
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to download %s/%s", bucket, remote)).
			WithCause(err)
	}
	return file.Close()
}

func (a *GCSStorageAdapter) Close() error {
	return a.Client.Close()
}

var _ ports.StoragePort = (*GCSStorageAdapter)(nil)
