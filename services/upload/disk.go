// Package uploadsvc stores multipart file uploads on local disk, mirroring
// the layout exposed under the /uploads static route.
package uploadsvc

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

var (
	imageExts = map[string]struct{}{
		".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
	}
	documentExts = map[string]struct{}{
		".jpg": {}, ".jpeg": {}, ".png": {}, ".pdf": {}, ".doc": {}, ".docx": {},
	}

	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

type Service struct {
	conf *core.Config
}

func NewService(conf *core.Config) *Service {
	return &Service{conf: conf}
}

// SaveImage stores an uploaded image under <uploads>/<subdir> and returns the
// path relative to the uploads root.
func (svc *Service) SaveImage(fh *multipart.FileHeader, subdir string) (string, error) {
	return svc.save(fh, subdir, imageExts, svc.conf.Uploads.MaxImageSize)
}

// SaveDocument stores an uploaded supporting document under <uploads>/<subdir>
// and returns the path relative to the uploads root.
func (svc *Service) SaveDocument(fh *multipart.FileHeader, subdir string) (string, error) {
	return svc.save(fh, subdir, documentExts, svc.conf.Uploads.MaxDocumentSize)
}

func (svc *Service) save(fh *multipart.FileHeader, subdir string, allowedExts map[string]struct{}, maxSize int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := allowedExts[ext]; !ok {
		return "", core.NewValidationError(ErrUnsupportedFileType)
	}
	if fh.Size > maxSize {
		return "", core.NewValidationError(ErrFileTooLarge)
	}

	dir := svc.conf.Uploads.Path(subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating upload dir")
	}

	name := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.New().String()[:8], ext)
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", errors.Wrap(err, "creating upload file")
	}
	defer dst.Close()

	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "opening upload")
	}
	defer src.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return "", errors.Wrap(err, "writing upload")
	}
	return filepath.ToSlash(filepath.Join(subdir, name)), nil
}
