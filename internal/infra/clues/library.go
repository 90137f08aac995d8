package clues

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"carbrand-quiz/internal/domain"
)

// SupportedExtensions lists the image formats accepted as clues.
var SupportedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp"}

// Library resolves clue references to image files inside a single directory.
type Library struct {
	dir string
}

func NewLibrary(dir string) *Library {
	return &Library{dir: dir}
}

func (l *Library) Dir() string {
	return l.dir
}

// Path returns the on-disk location of a clue.
func (l *Library) Path(ref domain.ClueRef) (string, error) {
	name := string(ref)
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: invalid clue reference %q", domain.ErrInvalidArgument, name)
	}
	return filepath.Join(l.dir, name), nil
}

// Resolve returns the image bytes for ref.
func (l *Library) Resolve(ref domain.ClueRef) ([]byte, error) {
	path, err := l.Path(ref)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrClueNotFound, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("read clue %s: %w", ref, err)
	}
	return data, nil
}

// Exists reports whether ref points at a readable image in the library.
func (l *Library) Exists(ref domain.ClueRef) bool {
	data, err := l.Resolve(ref)
	if err != nil {
		return false
	}
	return validImage(string(ref), data) == nil
}

// Import copies the image at src into the library under a name that does not
// collide with existing clues (Ferrari.jpg, Ferrari_1.jpg, ...).
func (l *Library) Import(src string) (domain.ClueRef, error) {
	if !IsSupported(src) {
		return "", fmt.Errorf("%w: unsupported image type %q", domain.ErrInvalidArgument, filepath.Ext(src))
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if err := validImage(src, data); err != nil {
		return "", err
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", fmt.Errorf("create clues directory: %w", err)
	}

	base := filepath.Base(src)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	name := base
	for i := 1; ; i++ {
		f, err := os.OpenFile(filepath.Join(l.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			name = fmt.Sprintf("%s_%d%s", stem, i, ext)
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create clue: %w", err)
		}
		_, werr := io.Copy(f, bytes.NewReader(data))
		cerr := f.Close()
		if werr != nil || cerr != nil {
			_ = os.Remove(f.Name())
			return "", fmt.Errorf("write clue: %w", errors.Join(werr, cerr))
		}
		return domain.ClueRef(name), nil
	}
}

// IsSupported checks the file extension against SupportedExtensions.
func IsSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

func validImage(name string, data []byte) error {
	if strings.EqualFold(filepath.Ext(name), ".bmp") {
		if bytes.HasPrefix(data, []byte("BM")) {
			return nil
		}
		return fmt.Errorf("%w: %s is not a valid bitmap", domain.ErrInvalidArgument, filepath.Base(name))
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: %s is not a valid image: %v", domain.ErrInvalidArgument, filepath.Base(name), err)
	}
	return nil
}
