package service

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tresmontes-cajas/internal/config"

	"github.com/google/uuid"
)

var defaultRosterExtensions = []string{".csv", ".xlsx", ".xls"}

// StoredFile is an upload kept on disk together with its bytes.
type StoredFile struct {
	OriginalName string
	Path         string
	Data         []byte
}

// Reader returns a fresh reader over the file contents.
func (f *StoredFile) Reader() io.Reader {
	return bytes.NewReader(f.Data)
}

// UploadService stores roster uploads.
type UploadService struct {
	cfg *config.Config
}

// NewUploadService creates the upload service.
func NewUploadService(cfg *config.Config) *UploadService {
	return &UploadService{cfg: cfg}
}

// SaveRosterFile stores a multipart roster upload.
func (s *UploadService) SaveRosterFile(file *multipart.FileHeader) (*StoredFile, error) {
	if file == nil {
		return nil, ErrRosterFileRequired
	}
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return s.SaveRoster(file.Filename, src)
}

// SaveRoster validates and stores a roster read from r under upload.dir/rosters/YYYY/MM.
func (s *UploadService) SaveRoster(fileName string, r io.Reader) (*StoredFile, error) {
	if r == nil || strings.TrimSpace(fileName) == "" {
		return nil, ErrRosterFileRequired
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" || !isAllowedExtension(ext, s.allowedExtensions()) {
		return nil, fmt.Errorf("%w: %s", ErrRosterFileType, ext)
	}

	maxSize := s.maxSize()
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%w: max %d MB", ErrRosterFileTooLarge, maxSize/1024/1024)
	}
	if len(data) == 0 {
		return nil, ErrRosterFileRequired
	}

	now := time.Now()
	dir := filepath.Join(s.baseDir(), "rosters", now.Format("2006"), now.Format("01"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	savePath := filepath.Join(dir, uuid.New().String()+ext)
	if err := os.WriteFile(savePath, data, 0644); err != nil {
		return nil, err
	}
	return &StoredFile{OriginalName: filepath.Base(fileName), Path: savePath, Data: data}, nil
}

// Remove deletes a stored file; missing files are ignored.
func (s *UploadService) Remove(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *UploadService) baseDir() string {
	if s.cfg == nil || strings.TrimSpace(s.cfg.Upload.Dir) == "" {
		return "uploads"
	}
	return s.cfg.Upload.Dir
}

func (s *UploadService) maxSize() int64 {
	if s.cfg == nil || s.cfg.Upload.MaxSize <= 0 {
		return 10 * 1024 * 1024
	}
	return s.cfg.Upload.MaxSize
}

func (s *UploadService) allowedExtensions() []string {
	if s.cfg == nil || len(s.cfg.Upload.AllowedExtensions) == 0 {
		return defaultRosterExtensions
	}
	return s.cfg.Upload.AllowedExtensions
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, allowedExt := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(allowedExt))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if strings.EqualFold(ext, normalized) {
			return true
		}
	}
	return false
}
