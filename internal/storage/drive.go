package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/RiverJensen/Podcast-Transcribe-App/internal/types"
)

// DriveExporter copies finished transcripts to a Google Drive folder as a
// best-effort backup. It needs a pre-authorized token file; there is no
// interactive flow in a headless service.
type DriveExporter struct {
	service    *drive.Service
	folderName string
	folderID   string
	log        logrus.FieldLogger
}

// NewDriveExporter builds the exporter from an OAuth credentials file and a
// previously saved token.
func NewDriveExporter(credentialsFile, tokenFile, folderName string, log logrus.FieldLogger) (*DriveExporter, error) {
	ctx := context.Background()

	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	cfg, err := google.ConfigFromJSON(b, drive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("no stored Drive token (run the authorization tool first): %w", err)
	}

	srv, err := drive.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Drive service: %w", err)
	}

	d := &DriveExporter{service: srv, folderName: folderName, log: log}
	if err := d.ensureFolder(); err != nil {
		return nil, err
	}
	return d, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	return tok, json.NewDecoder(f).Decode(tok)
}

// ensureFolder finds or creates the export folder.
func (d *DriveExporter) ensureFolder() error {
	query := fmt.Sprintf("name='%s' and mimeType='application/vnd.google-apps.folder' and trashed=false",
		d.folderName)

	r, err := d.service.Files.List().Q(query).Spaces("drive").Fields("files(id, name)").Do()
	if err != nil {
		return fmt.Errorf("unable to search for folder: %w", err)
	}
	if len(r.Files) > 0 {
		d.folderID = r.Files[0].Id
		return nil
	}

	folder := &drive.File{
		Name:     d.folderName,
		MimeType: "application/vnd.google-apps.folder",
	}
	created, err := d.service.Files.Create(folder).Fields("id").Do()
	if err != nil {
		return fmt.Errorf("unable to create folder: %w", err)
	}
	d.folderID = created.Id
	return nil
}

// Export uploads the record's transcript text and returns a shareable link.
func (d *DriveExporter) Export(rec types.TranscriptionRecord) (string, error) {
	name := fmt.Sprintf("%s_%s.txt", rec.CreatedAt.Format("20060102_150405"), sanitizeFilename(rec.Title))

	file := &drive.File{
		Name:    name,
		Parents: []string{d.folderID},
	}

	created, err := d.service.Files.Create(file).
		Media(strings.NewReader(rec.Text)).
		Fields("id").Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload transcript: %w", err)
	}

	url := fmt.Sprintf("https://drive.google.com/file/d/%s/view", created.Id)
	d.log.WithFields(logrus.Fields{"id": rec.ID, "drive_url": url}).Info("transcript exported to Drive")
	return url, nil
}

// sanitizeFilename strips characters Drive and local filesystems reject.
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_",
	)
	out := replacer.Replace(name)
	if len(out) > 100 {
		out = out[:100]
	}
	return out
}
