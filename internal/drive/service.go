// Package drive pulls POS sales exports out of a shared Google Drive folder
// so the ingest pipeline can run without anyone copying files by hand.
package drive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

type Service struct {
	srv *drive.Service
}

func NewService(ctx context.Context, credentialsJSON string) (*Service, error) {
	config, err := google.JWTConfigFromJSON(
		[]byte(credentialsJSON),
		drive.DriveReadonlyScope,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to parse drive credentials: %w", err)
	}

	client := config.Client(ctx)

	srv, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create drive client: %w", err)
	}

	return &Service{srv: srv}, nil
}

type File struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
	Size         int64  `json:"size,string,omitempty"`
}

// ListFiles lists the files directly under the given folder.
func (s *Service) ListFiles(folderID string) ([]*File, error) {
	if folderID == "" {
		folderID = "root"
	}

	result, err := s.srv.Files.List().
		Q(fmt.Sprintf("'%s' in parents and trashed=false", folderID)).
		Fields("files(id, name, mimeType, modifiedTime, size)").
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list files: %w", err)
	}

	var files []*File
	for _, f := range result.Files {
		files = append(files, &File{
			ID:           f.Id,
			Name:         f.Name,
			MimeType:     f.MimeType,
			ModifiedTime: f.ModifiedTime,
			Size:         f.Size,
		})
	}

	return files, nil
}

func (s *Service) DownloadFile(fileID string, w io.Writer) error {
	resp, err := s.srv.Files.Get(fileID).Download()
	if err != nil {
		return fmt.Errorf("unable to download file: %w", err)
	}
	defer resp.Body.Close()

	_, err = io.Copy(w, resp.Body)
	return err
}

// DownloadFolderCSV downloads every CSV in the folder into destDir and
// returns the local paths, ready to hand to the ingest orchestrator.
func (s *Service) DownloadFolderCSV(folderID, destDir string) ([]string, error) {
	files, err := s.ListFiles(folderID)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed creating %s: %w", destDir, err)
	}

	var paths []string
	for _, f := range files {
		if !strings.EqualFold(filepath.Ext(f.Name), ".csv") {
			continue
		}

		destPath := filepath.Join(destDir, f.Name)
		out, err := os.Create(destPath)
		if err != nil {
			return paths, fmt.Errorf("failed creating %s: %w", destPath, err)
		}
		if err := s.DownloadFile(f.ID, out); err != nil {
			out.Close()
			return paths, err
		}
		if err := out.Close(); err != nil {
			return paths, err
		}
		paths = append(paths, destPath)
	}

	return paths, nil
}
