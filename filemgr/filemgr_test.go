package filemgr

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func headerFor(filename string) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: filename,
		Header:   textproto.MIMEHeader{},
	}
}

func chdirTemp(t *testing.T) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}

func TestSaveFileRejectsBadExtension(t *testing.T) {
	chdirTemp(t)

	_, err := SaveFile(bytes.NewReader(pngHeader), headerFor("malware.exe"), PicBanner, 1<<20, nil)
	if !errors.Is(err, ErrInvalidExtension) {
		t.Fatalf("expected ErrInvalidExtension, got %v", err)
	}
}

func TestSaveFileRejectsMIMEMismatch(t *testing.T) {
	chdirTemp(t)

	// .png name over plain text content
	_, err := SaveFile(bytes.NewReader([]byte("just some text")), headerFor("note.png"), PicBanner, 1<<20, nil)
	if !errors.Is(err, ErrInvalidMIME) {
		t.Fatalf("expected ErrInvalidMIME, got %v", err)
	}
}

func TestSaveFileWritesToBannerFolder(t *testing.T) {
	chdirTemp(t)

	name, err := SaveFile(bytes.NewReader(pngHeader), headerFor("villa.png"), PicBanner, 1<<20, nil)
	if err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	if filepath.Ext(name) != ".png" {
		t.Fatalf("expected .png name, got %s", name)
	}

	if _, err := os.Stat(filepath.Join("static", "residencepic", "banner", name)); err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
}

func TestSaveFileRejectsOversizedUpload(t *testing.T) {
	chdirTemp(t)

	big := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 100)...)
	_, err := SaveFile(bytes.NewReader(big), headerFor("huge.png"), PicBanner, 64, nil)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}

	// nothing left behind
	entries, _ := os.ReadDir(filepath.Join("static", "residencepic", "banner"))
	if len(entries) != 0 {
		t.Fatalf("expected no saved files, found %d", len(entries))
	}
}

func TestSaveFileCustomName(t *testing.T) {
	chdirTemp(t)

	name, err := SaveFile(bytes.NewReader(pngHeader), headerFor("My Photo.png"), PicPhoto, 1<<20, func(string) string {
		return "Main View 1"
	})
	if err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	if name != "main_view_1.png" {
		t.Fatalf("unexpected name: %s", name)
	}
}
