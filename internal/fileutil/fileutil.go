package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
)

// CopyFile streams src to dst, truncating any existing dst. The destination
// takes the permission bits of the source. It returns the number of bytes
// copied.
func CopyFile(src, dst string) (int64, error) {
	in, info, err := openSource(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, err
	}
	defer out.Close()

	written, err := io.Copy(out, in)
	if err != nil {
		return written, err
	}
	return written, out.Close()
}

// CopyFileVerified behaves like CopyFile and additionally checks size and
// SHA-256 of what was read against what was written. dst is removed on
// mismatch.
func CopyFileVerified(src, dst string) (int64, error) {
	in, info, err := openSource(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	tee := io.TeeReader(in, srcHasher)
	multi := io.MultiWriter(out, dstHasher)

	written, err := io.Copy(multi, tee)
	if err != nil {
		return written, err
	}
	if err := out.Close(); err != nil {
		return written, err
	}

	if written != info.Size() {
		_ = os.Remove(dst)
		return written, fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", info.Size(), written)
	}
	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = os.Remove(dst)
		return written, fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}
	return written, nil
}

func openSource(src string) (*os.File, os.FileInfo, error) {
	in, err := os.Open(src)
	if err != nil {
		return nil, nil, err
	}
	info, err := in.Stat()
	if err != nil {
		_ = in.Close()
		return nil, nil, fmt.Errorf("stat source: %w", err)
	}
	if !info.Mode().IsRegular() {
		_ = in.Close()
		return nil, nil, fmt.Errorf("copy %s: not a regular file", src)
	}
	return in, info, nil
}
