package pipeline

import (
	"bytes"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"go.trai.ch/baler/asset"
	"go.trai.ch/baler/internal/core/domain"
	"go.trai.ch/zerr"
)

// compressVariants attaches precompressed variants to the asset. A
// variant is kept only when it is strictly smaller than the identity
// payload; serving a padded variant would waste bytes on the wire.
func compressVariants(a *domain.Asset, encodings []string) error {
	for _, encoding := range encodings {
		data, err := compress(encoding, a.Data)
		if err != nil {
			err = zerr.With(err, "path", a.Path)
			return zerr.With(err, "encoding", encoding)
		}
		if int64(len(data)) >= a.Size {
			continue
		}
		if a.Encodings == nil {
			a.Encodings = make(map[string][]byte)
		}
		a.Encodings[encoding] = data
	}
	return nil
}

// compress produces the encoded form of data. All settings are pinned so
// the same bytes compress to the same bytes on every platform.
func compress(encoding string, data []byte) ([]byte, error) {
	switch encoding {
	case asset.EncodingGzip:
		return gzipCompress(data)
	case asset.EncodingZstd:
		return zstdCompress(data)
	default:
		return nil, zerr.New("unsupported content encoding")
	}
}

func gzipCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create gzip writer")
	}
	if _, err := w.Write(data); err != nil {
		return nil, zerr.Wrap(err, "failed to gzip asset")
	}
	if err := w.Close(); err != nil {
		return nil, zerr.Wrap(err, "failed to gzip asset")
	}
	return buf.Bytes(), nil
}

func zstdCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf,
		zstd.WithEncoderLevel(zstd.SpeedBestCompression),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create zstd writer")
	}
	if _, err := w.Write(data); err != nil {
		return nil, zerr.Wrap(err, "failed to zstd asset")
	}
	if err := w.Close(); err != nil {
		return nil, zerr.Wrap(err, "failed to zstd asset")
	}
	return buf.Bytes(), nil
}
