package filemgr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

type PictureType string

const (
	// PicBanner is the primary listing image, PicPhoto a gallery shot.
	PicBanner PictureType = "banner"
	PicPhoto  PictureType = "photo"
	PicThumb  PictureType = "thumb"
)

var (
	AllowedExtensions = map[PictureType][]string{
		PicPhoto:  {".jpg", ".jpeg", ".png", ".gif", ".webp"},
		PicBanner: {".jpg", ".jpeg", ".png", ".webp"},
		PicThumb:  {".jpg"},
	}

	AllowedMIMEs = map[PictureType][]string{
		PicPhoto:  {"image/jpeg", "image/png", "image/gif", "image/webp"},
		PicBanner: {"image/jpeg", "image/png", "image/webp"},
		PicThumb:  {"image/jpeg"},
	}

	PictureSubfolders = map[PictureType]string{
		PicBanner: "banner",
		PicPhoto:  "photo",
		PicThumb:  "thumb",
	}

	ErrInvalidExtension = errors.New("invalid file extension")
	ErrInvalidMIME      = errors.New("invalid MIME type")
	ErrFileTooLarge     = errors.New("file size exceeds limit")

	LogFunc func(path string, size int64, mimeType string)
)

// ResolvePath returns the on-disk directory for a picture type.
func ResolvePath(picType PictureType) string {
	subfolder := PictureSubfolders[picType]
	if subfolder == "" {
		subfolder = "misc"
	}
	return filepath.Join("static", "residencepic", subfolder)
}

func ensureSafeFilename(name, ext string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "_")
	reg := regexp.MustCompile(`[^a-zA-Z0-9_\-]`)
	name = reg.ReplaceAllString(name, "")
	return name + ext
}

func isExtensionAllowed(ext string, picType PictureType) bool {
	for _, a := range AllowedExtensions[picType] {
		if ext == a {
			return true
		}
	}
	return false
}

func isMIMEAllowed(mimeType string, picType PictureType) bool {
	for _, a := range AllowedMIMEs[picType] {
		if mimeType == a {
			return true
		}
	}
	return false
}

func stripEXIF(img image.Image) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 90})
	return buf, err
}

// SaveFile saves one upload to destDir with extension/MIME validation and
// optional renaming.
func SaveFile(reader io.Reader, header *multipart.FileHeader, picType PictureType, maxSize int64, customNameFn func(original string) string) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !isExtensionAllowed(ext, picType) {
		return "", fmt.Errorf("%w: %s for %s", ErrInvalidExtension, ext, picType)
	}

	buf := make([]byte, 512)
	n, err := reader.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read header: %w", err)
	}
	mimeType := http.DetectContentType(buf[:n])

	if mimeType == "application/octet-stream" {
		if formMime := header.Header.Get("Content-Type"); formMime != "" {
			mimeType = formMime
		}
	}
	if !isMIMEAllowed(mimeType, picType) {
		return "", fmt.Errorf("%w: %s for %s", ErrInvalidMIME, mimeType, picType)
	}

	destDir := ResolvePath(picType)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", destDir, err)
	}

	filename := ""
	if customNameFn != nil {
		filename = strings.TrimSpace(customNameFn(header.Filename))
	}
	if filename == "" {
		filename = uuid.New().String() + ext
	} else {
		filename = ensureSafeFilename(filename, ext)
	}

	fullPath := filepath.Join(destDir, filename)
	out, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", fullPath, err)
	}
	defer out.Close()

	if _, err := out.Write(buf[:n]); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	// Read one byte past the cap so an oversized upload is rejected
	// instead of silently truncated.
	written, err := io.Copy(out, io.LimitReader(reader, maxSize-int64(n)+1))
	if err != nil {
		return "", fmt.Errorf("write body: %w", err)
	}
	if maxSize > 0 && written+int64(n) > maxSize {
		out.Close()
		os.Remove(fullPath)
		return "", ErrFileTooLarge
	}

	if LogFunc != nil {
		LogFunc(fullPath, written+int64(n), mimeType)
	}

	return filename, nil
}

// SaveImage decodes, strips EXIF, saves the image and writes a 400px
// thumbnail alongside it.
func SaveImage(file multipart.File, header *multipart.FileHeader, picType PictureType) (string, error) {
	defer file.Close()

	buf, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(buf))
	if err == nil {
		if strip, serr := stripEXIF(img); serr == nil {
			buf = strip.Bytes()
		}
	}

	fileName, err := SaveFile(bytes.NewReader(buf), header, picType, 10<<20, nil)
	if err != nil {
		return "", err
	}

	if img != nil {
		_ = generateThumbnail(img, fileName)
	}

	return fileName, nil
}

// SaveFormFile saves the first file under formKey.
func SaveFormFile(form *multipart.Form, formKey string, picType PictureType, required bool) (string, error) {
	files := form.File[formKey]
	if len(files) == 0 {
		if required {
			return "", fmt.Errorf("missing required file: %s", formKey)
		}
		return "", nil
	}
	file, err := files[0].Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", formKey, err)
	}
	return SaveImage(file, files[0], picType)
}

// SaveFormFiles saves every file under formKey in request order.
func SaveFormFiles(form *multipart.Form, formKey string, picType PictureType, required bool) ([]string, error) {
	files := form.File[formKey]
	if len(files) == 0 {
		if required {
			return nil, fmt.Errorf("missing required files: %s", formKey)
		}
		return nil, nil
	}

	var saved []string
	var errs []string

	for _, hdr := range files {
		file, err := hdr.Open()
		if err != nil {
			errs = append(errs, fmt.Sprintf("open %s: %v", hdr.Filename, err))
			continue
		}
		name, err := SaveImage(file, hdr, picType)
		if err != nil {
			errs = append(errs, fmt.Sprintf("save %s: %v", hdr.Filename, err))
			continue
		}
		saved = append(saved, name)
	}

	if len(errs) > 0 {
		return saved, fmt.Errorf("one or more errors saving files: %s", strings.Join(errs, "; "))
	}
	return saved, nil
}

func generateThumbnail(img image.Image, baseFilename string) error {
	resized := imaging.Resize(img, 400, 0, imaging.Lanczos) // maintain aspect ratio
	name := strings.TrimSuffix(baseFilename, filepath.Ext(baseFilename)) + ".jpg"
	path := filepath.Join(ResolvePath(PicThumb), name)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create thumbnail: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, resized, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("encode thumbnail: %w", err)
	}

	if LogFunc != nil {
		LogFunc(path, 0, "image/jpeg")
	}

	return nil
}
