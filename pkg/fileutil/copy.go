package fileutil

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/airc-dev/airc/internal/errors"
)

// CopyTree recursively copies the directory at src into dst, creating dst
// if needed. Existing files under dst are overwritten; files under dst
// that have no counterpart in src are removed, so dst becomes an exact
// mirror of src. Symlinks are skipped.
func CopyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.Wrapf(err, "stating %s", src)
	}
	if !info.IsDir() {
		return errors.Newf("%s is not a directory", src)
	}

	if err := os.MkdirAll(dst, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", dst)
	}
	if err := copyDir(src, dst); err != nil {
		return err
	}
	return pruneExtra(src, dst)
}

func copyDir(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return errors.Wrapf(err, "reading directory %s", src)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.Type()&fs.ModeSymlink != 0 {
			continue
		}
		if entry.IsDir() {
			if err := os.MkdirAll(dstPath, 0o755); err != nil {
				return errors.Wrapf(err, "creating directory %s", dstPath)
			}
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}

	return nil
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "opening %s", src)
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return errors.Wrapf(err, "stating %s", src)
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode())
	if err != nil {
		return errors.Wrapf(err, "creating %s", dst)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return errors.Wrapf(err, "copying %s to %s", src, dst)
	}
	return nil
}

// pruneExtra removes entries under dst that do not exist under src.
func pruneExtra(src, dst string) error {
	entries, err := os.ReadDir(dst)
	if err != nil {
		return errors.Wrapf(err, "reading directory %s", dst)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		srcInfo, err := os.Stat(srcPath)
		switch {
		case os.IsNotExist(err) || (err == nil && srcInfo.IsDir() != entry.IsDir()):
			if err := os.RemoveAll(dstPath); err != nil {
				return errors.Wrapf(err, "removing %s", dstPath)
			}
		case err != nil:
			return errors.Wrapf(err, "stating %s", srcPath)
		case entry.IsDir():
			if err := pruneExtra(srcPath, dstPath); err != nil {
				return err
			}
		}
	}

	return nil
}

// EqualTrees reports whether two directories hold the same set of files
// with byte-identical content. A missing side compares unequal without
// error. Symlinks are ignored on both sides.
func EqualTrees(a, b string) (bool, error) {
	aFiles, err := listFiles(a)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	bFiles, err := listFiles(b)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	if len(aFiles) != len(bFiles) {
		return false, nil
	}
	for i := range aFiles {
		if aFiles[i] != bFiles[i] {
			return false, nil
		}
		aData, err := os.ReadFile(filepath.Join(a, aFiles[i]))
		if err != nil {
			return false, errors.Wrapf(err, "reading %s", aFiles[i])
		}
		bData, err := os.ReadFile(filepath.Join(b, bFiles[i]))
		if err != nil {
			return false, errors.Wrapf(err, "reading %s", bFiles[i])
		}
		if !bytes.Equal(aData, bData) {
			return false, nil
		}
	}
	return true, nil
}

// listFiles returns the sorted relative paths of regular files under root.
func listFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", root)
	}
	sort.Strings(files)
	return files, nil
}
