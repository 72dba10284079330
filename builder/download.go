package builder

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

const downloadChunkSize = 1 << 20

// download fetches url to dest, skipping the transfer entirely when a
// non-empty dest already exists. The write goes through a .part file so an
// interrupted download never leaves a truncated archive behind.
func (b *Builder) download(ctx context.Context, url, dest string) error {
	if info, err := os.Stat(dest); err == nil && info.Size() > 0 {
		b.logf("already downloaded: %s", dest)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: %s returned %s", url, resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	part := dest + ".part"
	out, err := os.Create(part)
	if err != nil {
		return err
	}

	var written int64
	lastPercent := -1
	buf := make([]byte, downloadChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			out.Close()
			os.Remove(part)
			return err
		}

		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				out.Close()
				os.Remove(part)
				return writeErr
			}
			written += int64(n)
			if resp.ContentLength > 0 {
				percent := int(written * 100 / resp.ContentLength)
				if percent/10 != lastPercent/10 {
					b.logf("downloading %s: %d%%", filepath.Base(dest), percent)
					lastPercent = percent
				}
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			out.Close()
			os.Remove(part)
			return readErr
		}
	}

	if err := out.Close(); err != nil {
		os.Remove(part)
		return err
	}
	if err := os.Rename(part, dest); err != nil {
		return err
	}
	b.logf("downloaded %s (%d bytes)", dest, written)
	return nil
}
