package store

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"

	"falcon-scn/core/state"
)

// FileMeta describes an upload: original filename and MIME type.
type FileMeta struct {
	Name string
	Type string
}

// UploadMedia reads the file content fully into an inline data URL and
// appends the item to the media collection. The read suspends the calling
// flow and honors ctx; the store append on completion is one synchronous
// step. An unknown uploader or a failed read yields nil.
func (s *CommandStore) UploadMedia(ctx context.Context, r io.Reader, meta FileMeta, uploaderID string, linkedTo *state.MediaLink) (*state.MediaItem, error) {
	s.mu.Lock()
	uploader := s.userByIDLocked(uploaderID)
	if uploader == nil {
		s.mu.Unlock()
		return nil, nil
	}
	uploaderName := uploader.FullName
	s.mu.Unlock()

	data, err := readAll(ctx, r)
	if err != nil {
		s.logger.Errorf("media read failed: %v", err)
		return nil, err
	}

	sum := sha256.Sum256(data)
	item := state.MediaItem{
		ID:         state.NewID("media"),
		Uploader:   uploaderName,
		UploaderID: uploaderID,
		FileName:   meta.Name,
		FileType:   meta.Type,
		FileSize:   int64(len(data)),
		DataURL:    "data:" + meta.Type + ";base64," + base64.StdEncoding.EncodeToString(data),
		SHA256:     hex.EncodeToString(sum[:]),
		LinkedTo:   linkedTo,
	}

	s.mu.Lock()
	item.Timestamp = s.now()
	s.state.Media = append(s.state.Media, item)
	s.appendLogLocked("MEDIA_UPLOADED", "File uploaded: "+meta.Name, uploaderID)
	s.mu.Unlock()
	s.mutated()
	copied := item
	return &copied, nil
}

// readAll copies the reader in chunks, checking for cancellation between
// chunks so a stuck source doesn't wedge the upload forever.
func readAll(ctx context.Context, r io.Reader) ([]byte, error) {
	var out []byte
	buf := make([]byte, 64*1024)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// MediaItems returns copies of all uploaded media metadata.
func (s *CommandStore) MediaItems() []state.MediaItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]state.MediaItem, len(s.state.Media))
	copy(out, s.state.Media)
	return out
}
