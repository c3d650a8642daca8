package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

type DownloadsDir string

func DownloadsDirFrom(d string) DownloadsDir {
	return DownloadsDir(d)
}

func (dir DownloadsDir) Artifact(filename string) Artifact {
	return Artifact{Path: filepath.Join(string(dir), filename)}
}

// Artifact is a finalized download on disk.
type Artifact struct {
	Path string
}

func (a Artifact) Exists() (bool, error) {
	if _, err := os.Stat(a.Path); nil != err {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}

		return false, fmt.Errorf("failed to stat artifact: %v", err)
	}

	return true, nil
}

func (a Artifact) Remove() error {
	if err := os.Remove(a.Path); nil != err && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove artifact: %v", err)
	}

	return nil
}

// Write persists the artifact bytes, removing any partial file on failure.
func (a Artifact) Write(b []byte) (err error) {
	f, err := os.OpenFile(a.Path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC|os.O_SYNC, 0o600)
	if nil != err {
		return fmt.Errorf("failed to open artifact file for write: %v", err)
	}
	defer func() {
		if nil != err {
			if removeErr := os.Remove(a.Path); nil != removeErr &&
				!errors.Is(removeErr, os.ErrNotExist) {
				err = errors.Join(
					err,
					fmt.Errorf("failed to remove incomplete artifact file: %v", removeErr),
				)
			}
		} else {
			if closeErr := f.Close(); nil != closeErr {
				err = fmt.Errorf("failed to close artifact file: %v", closeErr)
			}
		}
	}()

	if _, err := f.Write(b); nil != err {
		return fmt.Errorf("failed to write artifact file: %v", err)
	}

	if err := f.Sync(); nil != err {
		return fmt.Errorf("failed to sync artifact file: %v", err)
	}

	return nil
}
