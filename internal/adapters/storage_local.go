package adapters

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"azimuth-installer/internal/ports"
	"azimuth-installer/internal/shared"
)

// LocalStorageAdapter serves bucket objects from a directory laid out as
// <Root>/<bucket>/<remote path>.
type LocalStorageAdapter struct {
	Root string
	Fs   afero.Fs
}

func NewLocalStorageAdapter(root string, fs afero.Fs) LocalStorageAdapter {
	return LocalStorageAdapter{Root: root, Fs: fs}
}

func (a LocalStorageAdapter) Fetch(ctx context.Context, bucket string, remote string, local string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(a.Root) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("local storage root is empty")
	}
	bucketRoot := filepath.Join(a.Root, bucket)
	source := filepath.Join(bucketRoot, filepath.FromSlash(remote))
	if source != bucketRoot && !strings.HasPrefix(source, bucketRoot+string(filepath.Separator)) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("remote path %s escapes bucket %s", remote, bucket))
	}
	log.Ctx(ctx).Debug().Str("bucket", bucket).Str("remote", remote).Msg("fetching local object")
	if _, err := a.Fs.Stat(source); err != nil {
		if shared.IsNotExist(err) {
			return errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("remote object not found: %s/%s", bucket, remote)).
				WithCause(err)
		}
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to stat remote object %s/%s", bucket, remote)).
			WithCause(err)
	}
	if err := copyFile(a.Fs, source, a.Fs, local, 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to fetch remote object %s/%s", bucket, remote)).
			WithCause(err)
	}
	return nil
}

var _ ports.StoragePort = LocalStorageAdapter{}
