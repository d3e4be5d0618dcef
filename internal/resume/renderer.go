package resume

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/SanjanaSK25/Career-Connect/internal/models"
	"github.com/SanjanaSK25/Career-Connect/internal/storage"
)

// Renderer produces PDF resumes from profile data and writes them to the
// blob store under a randomly generated filename. The caller gets back the
// filename, never the bytes.
type Renderer struct {
	Blobs storage.BlobStore
}

// New constructs a Renderer writing through the provided store.
func New(blobs storage.BlobStore) *Renderer {
	return &Renderer{Blobs: blobs}
}

// Render lays the profile out deterministically: picture reference, name,
// username, email, bio, current position, then each past-work entry in
// order. Returns the generated filename.
func (r *Renderer) Render(ctx context.Context, view models.ProfileView) (string, error) {
	name, err := randomFilename()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := writePDF(&buf, view); err != nil {
		return "", fmt.Errorf("render resume: %w", err)
	}

	if _, err := r.Blobs.Save(ctx, name, &buf); err != nil {
		return "", fmt.Errorf("store resume: %w", err)
	}

	return name, nil
}

func writePDF(buf *bytes.Buffer, view models.ProfileView) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 14)

	line := func(text string) {
		pdf.CellFormat(0, 8, text, "", 1, "L", false, 0, "")
	}

	if view.User.ProfilePicture != "" {
		line(fmt.Sprintf("Profile Picture: %s", view.User.ProfilePicture))
	}
	line(fmt.Sprintf("Name: %s", view.User.Name))
	line(fmt.Sprintf("Username: %s", view.User.Username))
	line(fmt.Sprintf("Email: %s", view.User.Email))
	line(fmt.Sprintf("Bio: %s", view.Profile.Bio))
	line(fmt.Sprintf("Current Position: %s", view.Profile.CurrentPosition))

	line("Past Work:")
	for _, work := range view.Profile.PastWork {
		line(fmt.Sprintf("Company Name: %s", work.Company))
		line(fmt.Sprintf("Position: %s", work.Position))
		line(fmt.Sprintf("Years: %s", work.Years))
	}

	return pdf.Output(buf)
}

func randomFilename() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf) + ".pdf", nil
}
