package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Pack writes the directory tree at dir to w as a gzip-compressed tar
// stream. Entries are stored relative to dir's parent, so the archive's
// internal root is the directory's base name, never an absolute path.
func Pack(w io.Writer, dir string) error {
	base := filepath.Base(filepath.Clean(dir))
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}

		link := ""
		switch {
		case info.Mode()&fs.ModeSymlink != 0:
			if link, err = os.Readlink(path); err != nil {
				return err
			}
		case !info.Mode().IsRegular() && !info.IsDir():
			// Sockets, devices, fifos: not representable, not backed up.
			return nil
		}

		header, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			header.Name = base + "/"
		} else {
			header.Name = base + "/" + filepath.ToSlash(rel)
			if info.IsDir() {
				header.Name += "/"
			}
		}

		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			_, err = io.Copy(tw, f)
			f.Close()
			return err
		}
		return nil
	})
	if walkErr != nil {
		tw.Close()
		gz.Close()
		return fmt.Errorf("packing %s: %w", dir, walkErr)
	}

	if err := tw.Close(); err != nil {
		gz.Close()
		return fmt.Errorf("finalizing tar stream: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("finalizing compressed stream: %w", err)
	}
	return nil
}

// Unpack extracts a gzip-compressed tar stream into destDir, recreating the
// relative root recorded at pack time. Entries that would escape destDir,
// directly or by routing through a symlink restored earlier in the stream,
// are rejected.
func Unpack(r io.Reader, destDir string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("reading compressed stream: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading tar stream: %w", err)
		}

		rel := filepath.FromSlash(strings.TrimSuffix(header.Name, "/"))
		if rel == "" || !filepath.IsLocal(rel) {
			return fmt.Errorf("archive entry escapes destination: %q", header.Name)
		}
		target, err := safePath(destDir, rel)
		if err != nil {
			return err
		}

		// Never write through a symlink left behind by an earlier entry.
		if info, err := os.Lstat(target); err == nil && info.Mode()&fs.ModeSymlink != 0 {
			if err := os.Remove(target); err != nil {
				return err
			}
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, header.FileInfo().Mode().Perm()); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(target, tr, header); err != nil {
				return err
			}
		case tar.TypeSymlink:
			os.Remove(target)
			if err := os.Symlink(header.Linkname, target); err != nil {
				return err
			}
		default:
			// Other entry types were never packed; ignore them on the
			// way out as well.
		}
	}
	return nil
}

// safePath joins rel onto destDir, creating missing parent directories along
// the way and refusing to descend through a symlink. Symlinks from the
// archive are restored verbatim, but a later entry must not route a write
// through one, or a crafted archive could place files outside destDir.
func safePath(destDir, rel string) (string, error) {
	parts := strings.Split(rel, string(filepath.Separator))
	dir := destDir
	for _, part := range parts[:len(parts)-1] {
		dir = filepath.Join(dir, part)
		info, err := os.Lstat(dir)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			if err := os.Mkdir(dir, 0o755); err != nil {
				return "", err
			}
		case err != nil:
			return "", err
		case info.Mode()&fs.ModeSymlink != 0:
			return "", fmt.Errorf("archive entry escapes destination through symlink: %q", rel)
		case !info.IsDir():
			return "", fmt.Errorf("archive entry parent is not a directory: %q", rel)
		}
	}
	return filepath.Join(dir, parts[len(parts)-1]), nil
}

func writeFile(target string, r io.Reader, header *tar.Header) error {
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, header.FileInfo().Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Chtimes(target, header.ModTime, header.ModTime)
}
